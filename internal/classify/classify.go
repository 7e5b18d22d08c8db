// Package classify scores document blocks as boilerplate, deal-specific or
// mixed using an ordered table of lexical and numeric-pattern signal rules.
// The classifier is a precision-biased gate: parameterization only touches
// blocks it labels deal_specific or mixed, so boilerplate is never polluted
// with placeholders.
package classify

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/stencilhq/stencil/internal/doc"
)

// Label is the classification outcome for one block.
type Label string

const (
	Boilerplate  Label = "boilerplate"
	DealSpecific Label = "deal_specific"
	Mixed        Label = "mixed"
)

// Signals carries the per-block evidence behind a classification.
type Signals struct {
	DealIndicators        []string `json:"deal_indicators"`
	BoilerplateIndicators []string `json:"boilerplate_indicators"`
	NumericDensity        float64  `json:"numeric_density"`
}

// Block is one classified unit: a body/table-cell paragraph block with its
// stable location path. Blocks are computed fresh per analysis call and
// never mutated afterward.
type Block struct {
	BlockID        string `json:"block_id"`
	BlockType      string `json:"block_type"`
	Text           string `json:"text"`
	LocationPath   string `json:"location_path"`
	Classification Label  `json:"classification"`
	// HeadingLevelGuess is derived from the paragraph style name; zero
	// means the block is not a heading. Table cells never carry one.
	HeadingLevelGuess int `json:"heading_level_guess,omitempty"`
	Signals           Signals
}

// Analysis summarizes one classification pass over a document.
type Analysis struct {
	TotalBlocks int           `json:"total_blocks"`
	Counts      map[Label]int `json:"counts"`
	Summary     string        `json:"summary"`
	Blocks      []Block       `json:"blocks"`
}

// AllowedPaths returns the location paths of every deal_specific or mixed
// block: the replacement scope for parameterization.
func (a *Analysis) AllowedPaths() map[string]struct{} {
	allowed := make(map[string]struct{})
	for _, b := range a.Blocks {
		if b.Classification == DealSpecific || b.Classification == Mixed {
			allowed[b.LocationPath] = struct{}{}
		}
	}
	return allowed
}

var (
	percentPattern  = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
	aedPattern      = regexp.MustCompile(`(?i)\bAED\s+\d+(?:,\d{3})*(?:\.\d+)?\b`)
	commaIntPattern = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+\b`)
	datePattern     = regexp.MustCompile(`\b\d{1,2}\s+[A-Za-z]+\s+\d{4}\b`)
	wordPattern     = regexp.MustCompile(`\w+`)
	numericPattern  = regexp.MustCompile(`\b\d+(?:[.,]\d+)?%?`)
)

// dealKeywords are phrasings that mark negotiable facts of an offering.
var dealKeywords = []string{
	"nominal value",
	"offer price range",
	"offer shares",
	"offered",
	"subscription",
	"price range",
}

// legalHeadings are standard prospectus section headings expected to be
// identical across deals.
var legalHeadings = []string{
	"selling restrictions",
	"definitions",
	"forward-looking statements",
	"general information",
}

// signalRule is one entry of the ordered rule table: a predicate over the
// block plus the signal tag to record when it fires. Rules are evaluated
// independently so each signal can be unit-tested on its own.
type signalRule struct {
	tag  string
	deal bool // deal indicator when true, boilerplate indicator otherwise
	fire func(ctx *blockContext) bool
}

type blockContext struct {
	text        string
	lowered     string
	issuerName  string
	sharesText  string // comma-grouped offer share count, empty when unknown
	tokenCount  int
	numericFrac float64
}

var signalRules = []signalRule{
	{"issuer_name_exact", true, func(c *blockContext) bool {
		return c.issuerName != "" && strings.Contains(c.text, c.issuerName)
	}},
	{"issuer_name_casefold", true, func(c *blockContext) bool {
		return c.issuerName != "" &&
			!strings.Contains(c.text, c.issuerName) &&
			strings.Contains(c.lowered, strings.ToLower(c.issuerName))
	}},
	{"offer_shares", true, func(c *blockContext) bool {
		return c.sharesText != "" && strings.Contains(c.text, c.sharesText)
	}},
	{"percentage", true, func(c *blockContext) bool { return percentPattern.MatchString(c.text) }},
	{"aed_amount", true, func(c *blockContext) bool { return aedPattern.MatchString(c.text) }},
	{"comma_integer", true, func(c *blockContext) bool { return commaIntPattern.MatchString(c.text) }},
	{"date", true, func(c *blockContext) bool { return datePattern.MatchString(c.text) }},
	{"deal_keyword", true, func(c *blockContext) bool {
		for _, kw := range dealKeywords {
			if strings.Contains(c.lowered, kw) {
				return true
			}
		}
		return false
	}},
	{"legal_heading", false, func(c *blockContext) bool {
		for _, h := range legalHeadings {
			if strings.Contains(c.lowered, h) {
				return true
			}
		}
		return false
	}},
	{"dense_legal_low_numeric", false, func(c *blockContext) bool {
		return c.tokenCount > 30 && c.numericFrac < 0.05
	}},
}

// Classify labels a single block of text. issuerName and offerShares are
// optional hints from merged deal inputs; zero values disable their signals.
func Classify(text, issuerName string, offerShares int64) (Label, Signals) {
	ctx := &blockContext{
		text:       text,
		lowered:    strings.ToLower(text),
		issuerName: strings.TrimSpace(issuerName),
	}
	if offerShares > 0 {
		ctx.sharesText = groupDigits(offerShares)
	}

	tokens := wordPattern.FindAllString(text, -1)
	ctx.tokenCount = len(tokens)
	if len(tokens) > 0 {
		numeric := numericPattern.FindAllString(text, -1)
		ctx.numericFrac = float64(len(numeric)) / float64(len(tokens))
	}

	var deal, boiler []string
	for _, rule := range signalRules {
		if !rule.fire(ctx) {
			continue
		}
		if rule.deal {
			deal = append(deal, rule.tag)
		} else {
			boiler = append(boiler, rule.tag)
		}
	}
	sort.Strings(deal)
	sort.Strings(boiler)

	label := Boilerplate
	switch {
	case len(deal) > 0 && len(boiler) > 0:
		label = Mixed
	case len(deal) > 0:
		label = DealSpecific
	}

	return label, Signals{
		DealIndicators:        deal,
		BoilerplateIndicators: boiler,
		NumericDensity:        math.Round(ctx.numericFrac*10000) / 10000,
	}
}

// Analyze classifies every non-empty block of the document: each body
// paragraph, then each top-level table cell's aggregate text. Text is NFC
// normalized and whitespace-collapsed before classification so run
// fragmentation and odd spacing never change the label.
func Analyze(d *doc.Document, issuerName string, offerShares int64) *Analysis {
	analysis := &Analysis{Counts: map[Label]int{Boilerplate: 0, DealSpecific: 0, Mixed: 0}}
	blockIndex := 0

	addBlock := func(id, blockType, text, location string, headingLevel int) {
		label, signals := Classify(text, issuerName, offerShares)
		analysis.Blocks = append(analysis.Blocks, Block{
			BlockID:           id,
			BlockType:         blockType,
			Text:              text,
			LocationPath:      location,
			Classification:    label,
			HeadingLevelGuess: headingLevel,
			Signals:           signals,
		})
		analysis.Counts[label]++
	}

	for i, p := range d.Body.Paragraphs {
		text := normalizeText(p.Text())
		if text == "" {
			continue
		}
		addBlock(fmt.Sprintf("p-%d", blockIndex), "paragraph", text,
			doc.ParagraphPath("document", i), headingLevelGuess(p.Style))
		blockIndex++
	}
	for t, table := range d.Body.Tables {
		for r, row := range table.Rows {
			for c, cell := range row.Cells {
				text := normalizeText(cell.Text())
				if text == "" {
					continue
				}
				location := fmt.Sprintf("document/tables/%d/rows/%d/cells/%d", t, r, c)
				addBlock(fmt.Sprintf("c-%d", blockIndex), "table_cell", text, location, 0)
				blockIndex++
			}
		}
	}

	analysis.TotalBlocks = len(analysis.Blocks)
	analysis.Summary = fmt.Sprintf(
		"Prospectus analysis completed: %d boilerplate blocks, %d deal-specific blocks, %d mixed blocks.",
		analysis.Counts[Boilerplate], analysis.Counts[DealSpecific], analysis.Counts[Mixed])
	return analysis
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

var headingDigits = regexp.MustCompile(`\d+`)

// headingLevelGuess derives a heading level from a paragraph style name.
// Any style containing "heading" guesses the first number in the name,
// defaulting to 1 when the name carries none; zero means not a heading.
func headingLevelGuess(style string) int {
	lowered := strings.ToLower(style)
	if !strings.Contains(lowered, "heading") {
		return 0
	}
	if m := headingDigits.FindString(lowered); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 1
}

// groupDigits renders n with comma thousands separators. Kept local so the
// classifier has no dependency on the rendering engine.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
