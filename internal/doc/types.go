package doc

import "strings"

// Run is a contiguous span of identically-styled text within a paragraph.
// Style is an opaque tag carried through rewrites; the splice algorithm
// never merges runs with different styles.
type Run struct {
	Text  string `yaml:"text" json:"text"`
	Style string `yaml:"style,omitempty" json:"style,omitempty"`
}

// Paragraph is an ordered sequence of runs. Invariant: concatenating the
// run texts in order reproduces the paragraph's visible text exactly.
type Paragraph struct {
	Runs  []Run  `yaml:"runs" json:"runs"`
	Style string `yaml:"style,omitempty" json:"style,omitempty"`
}

// NewParagraph creates a paragraph holding text in a single unstyled run.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{Runs: []Run{{Text: text}}}
}

// Text returns the paragraph's visible text: the in-order concatenation of
// its run texts.
func (p *Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Container is the common shape of every block holder: the document body,
// a table cell, or a header/footer part. Body, Cell and HeaderFooter embed
// it so the walker and the placeholder engine can treat them uniformly.
type Container struct {
	Paragraphs []*Paragraph `yaml:"paragraphs,omitempty" json:"paragraphs,omitempty"`
	Tables     []*Table     `yaml:"tables,omitempty" json:"tables,omitempty"`
}

// AddParagraph appends a new single-run paragraph with the given text.
func (c *Container) AddParagraph(text string) *Paragraph {
	p := NewParagraph(text)
	c.Paragraphs = append(c.Paragraphs, p)
	return p
}

// Table is an ordered grid of rows; cells may hold nested tables.
type Table struct {
	Rows []*Row `yaml:"rows" json:"rows"`
}

// Row is an ordered sequence of cells.
type Row struct {
	Cells []*Cell `yaml:"cells" json:"cells"`
}

// Cell is a table cell: a container in its own right.
type Cell struct {
	Container `yaml:",inline"`
}

// Text returns the cell's aggregate text: paragraph texts joined by newlines.
// This is the unit of classification for table-cell blocks.
func (c *Cell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// Body is the main document container. TextBoxes counts drawing text-box
// parts observed by the parser; run-level rewriting cannot reach their
// content, so the count is surfaced as an informational signal.
type Body struct {
	Container `yaml:",inline"`
	TextBoxes int `yaml:"text_boxes,omitempty" json:"text_boxes,omitempty"`
}

// HeaderFooter is one header or footer part of a section.
type HeaderFooter struct {
	Container `yaml:",inline"`
	TextBoxes int `yaml:"text_boxes,omitempty" json:"text_boxes,omitempty"`
}

// HeaderFooterKind names one of the six header/footer parts a section may
// carry. The names double as location-path segments.
type HeaderFooterKind string

const (
	HeaderDefault HeaderFooterKind = "header_default"
	HeaderFirst   HeaderFooterKind = "header_first"
	HeaderEven    HeaderFooterKind = "header_even"
	FooterDefault HeaderFooterKind = "footer_default"
	FooterFirst   HeaderFooterKind = "footer_first"
	FooterEven    HeaderFooterKind = "footer_even"
)

// HeaderFooterKinds lists every part kind in walk order.
var HeaderFooterKinds = []HeaderFooterKind{
	HeaderDefault, HeaderFirst, HeaderEven,
	FooterDefault, FooterFirst, FooterEven,
}

// Section groups the header/footer parts of one document section. Absent
// parts are nil.
type Section struct {
	HeaderDefault *HeaderFooter `yaml:"header_default,omitempty" json:"header_default,omitempty"`
	HeaderFirst   *HeaderFooter `yaml:"header_first,omitempty" json:"header_first,omitempty"`
	HeaderEven    *HeaderFooter `yaml:"header_even,omitempty" json:"header_even,omitempty"`
	FooterDefault *HeaderFooter `yaml:"footer_default,omitempty" json:"footer_default,omitempty"`
	FooterFirst   *HeaderFooter `yaml:"footer_first,omitempty" json:"footer_first,omitempty"`
	FooterEven    *HeaderFooter `yaml:"footer_even,omitempty" json:"footer_even,omitempty"`
}

// Part returns the section's part of the given kind, or nil.
func (s *Section) Part(kind HeaderFooterKind) *HeaderFooter {
	switch kind {
	case HeaderDefault:
		return s.HeaderDefault
	case HeaderFirst:
		return s.HeaderFirst
	case HeaderEven:
		return s.HeaderEven
	case FooterDefault:
		return s.FooterDefault
	case FooterFirst:
		return s.FooterFirst
	case FooterEven:
		return s.FooterEven
	}
	return nil
}

// Document is an ordered tree of containers: the body plus any sections
// carrying header/footer parts.
type Document struct {
	Body     Body       `yaml:"body" json:"body"`
	Sections []*Section `yaml:"sections,omitempty" json:"sections,omitempty"`
}

// Clone returns a deep copy. Operations that must not mutate their input
// (the generator in particular) clone first and rewrite the copy.
func (d *Document) Clone() *Document {
	out := &Document{Body: Body{
		Container: cloneContainer(d.Body.Container),
		TextBoxes: d.Body.TextBoxes,
	}}
	for _, s := range d.Sections {
		out.Sections = append(out.Sections, &Section{
			HeaderDefault: cloneHeaderFooter(s.HeaderDefault),
			HeaderFirst:   cloneHeaderFooter(s.HeaderFirst),
			HeaderEven:    cloneHeaderFooter(s.HeaderEven),
			FooterDefault: cloneHeaderFooter(s.FooterDefault),
			FooterFirst:   cloneHeaderFooter(s.FooterFirst),
			FooterEven:    cloneHeaderFooter(s.FooterEven),
		})
	}
	return out
}

func cloneHeaderFooter(hf *HeaderFooter) *HeaderFooter {
	if hf == nil {
		return nil
	}
	return &HeaderFooter{Container: cloneContainer(hf.Container), TextBoxes: hf.TextBoxes}
}

func cloneContainer(c Container) Container {
	out := Container{}
	for _, p := range c.Paragraphs {
		cp := &Paragraph{Runs: append([]Run(nil), p.Runs...), Style: p.Style}
		out.Paragraphs = append(out.Paragraphs, cp)
	}
	for _, t := range c.Tables {
		out.Tables = append(out.Tables, cloneTable(t))
	}
	return out
}

func cloneTable(t *Table) *Table {
	out := &Table{}
	for _, r := range t.Rows {
		row := &Row{}
		for _, cell := range r.Cells {
			row.Cells = append(row.Cells, &Cell{Container: cloneContainer(cell.Container)})
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
