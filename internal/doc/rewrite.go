package doc

import "regexp"

// runRange records the half-open byte span a run occupies within the
// paragraph's concatenated text.
type runRange struct {
	start, end int
}

func runRanges(runs []Run) []runRange {
	ranges := make([]runRange, len(runs))
	cursor := 0
	for i, r := range runs {
		ranges[i] = runRange{cursor, cursor + len(r.Text)}
		cursor += len(r.Text)
	}
	return ranges
}

// ReplaceSpan replaces the byte span [start, end) of the paragraph's visible
// text with replacement, touching only the runs that overlap the span.
//
// The first overlapping run receives its pre-span prefix plus the
// replacement, interior overlapping runs are blanked, and the last
// overlapping run keeps only its post-span suffix. When a single run covers
// the whole span, prefix, replacement and suffix collapse into that run.
// Runs outside the span keep their text and styles, and the total
// run count never increases.
//
// Returns false if the span overlaps no run (notably for zero-length spans).
func (p *Paragraph) ReplaceSpan(start, end int, replacement string) bool {
	ranges := runRanges(p.Runs)

	first, last := -1, -1
	for i, rr := range ranges {
		if rr.start < end && rr.end > start {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return false
	}

	prefix := p.Runs[first].Text[:max(0, start-ranges[first].start)]
	suffix := p.Runs[last].Text[min(len(p.Runs[last].Text), max(0, end-ranges[last].start)):]

	if first == last {
		p.Runs[first].Text = prefix + replacement + suffix
		return true
	}
	p.Runs[first].Text = prefix + replacement
	for i := first + 1; i < last; i++ {
		p.Runs[i].Text = ""
	}
	p.Runs[last].Text = suffix
	return true
}

// RewriteMatches replaces every non-overlapping match of pattern in the
// paragraph's visible text with replacement, re-scanning after each splice
// since the text shrinks or grows as runs are rewritten. Returns the number
// of replacements performed.
//
// Postcondition: the paragraph's visible text equals the original text with
// every matched span replaced, and formatting outside matched spans is
// preserved run for run.
func RewriteMatches(p *Paragraph, pattern *regexp.Regexp, replacement string) int {
	if len(p.Runs) == 0 {
		return 0
	}
	count := 0
	for {
		loc := pattern.FindStringIndex(p.Text())
		if loc == nil {
			return count
		}
		if !p.ReplaceSpan(loc[0], loc[1], replacement) {
			return count
		}
		count++
	}
}
