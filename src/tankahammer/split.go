package tankahammer

import "strings"

// TankaPattern is the canonical 5-7-5-7-7 form.
var TankaPattern = []int{5, 7, 5, 7, 7}

// PatternTotal is the mora count of a canonical tanka.
const PatternTotal = 31

// DeviationLimit is how far a total may stray from PatternTotal before the
// analysis flags it.
const DeviationLimit = 5

type LineStatus uint8

const (
	StatusEmpty LineStatus = iota
	StatusMatch
	StatusMismatch
)

func (s LineStatus) String() string {
	switch s {
	case StatusEmpty:
		return "Empty"
	case StatusMatch:
		return "Match"
	}
	return "Mismatch"
}

// SplitByPattern cuts text into one segment per pattern entry, each holding
// that entry's worth of mora, plus one trailing segment when mora are left
// over. Excluded runes are carried inside whichever segment consumes them,
// so joining the segments always reproduces text exactly. Leftover text
// holding no mora (a closing bracket, trailing punctuation) is folded into
// the final segment instead of becoming a line of its own.
func SplitByPattern(text string, pattern []int) []string {
	return DefaultRules.SplitByPattern(text, pattern)
}

func (r RuleSet) SplitByPattern(text string, pattern []int) []string {
	tokens := r.scan(text)
	segments := make([]string, 0, len(pattern)+1)
	i := 0
	for _, target := range pattern {
		var sb strings.Builder
		count := 0
		for i < len(tokens) && count < target {
			if tokens[i].mora {
				count++
			}
			sb.WriteString(tokens[i].text)
			i++
		}
		segments = append(segments, sb.String())
	}
	if i >= len(tokens) {
		return segments
	}
	var rest strings.Builder
	restMora := false
	for ; i < len(tokens); i++ {
		if tokens[i].mora {
			restMora = true
		}
		rest.WriteString(tokens[i].text)
	}
	if restMora || len(segments) == 0 {
		return append(segments, rest.String())
	}
	segments[len(segments)-1] += rest.String()
	return segments
}

// Line is one row of an Analysis.
type Line struct {
	Text     string
	Target   int
	Mora     int
	Status   LineStatus
	Overflow bool
}

// Analysis is the complete view state derived from one input. It is
// recomputed from scratch on every call and holds no reference to anything
// outside itself.
type Analysis struct {
	Lines     []Line
	TotalMora int
}

// Analyze runs the counter and the segmenter over text and scores each
// line against the tanka pattern. The trailing overflow line, if present,
// has no target and is never scored.
func Analyze(text string) Analysis {
	return DefaultRules.Analyze(text)
}

func (r RuleSet) Analyze(text string) Analysis {
	a := Analysis{TotalMora: r.CountMora(text)}
	for i, seg := range r.SplitByPattern(text, TankaPattern) {
		line := Line{Text: seg, Mora: r.CountMora(seg)}
		if i < len(TankaPattern) {
			line.Target = TankaPattern[i]
			switch line.Mora {
			case 0:
				line.Status = StatusEmpty
			case line.Target:
				line.Status = StatusMatch
			default:
				line.Status = StatusMismatch
			}
		} else {
			line.Overflow = true
		}
		a.Lines = append(a.Lines, line)
	}
	return a
}

// OffStandard reports whether the total strays far enough from the
// canonical 31 to warrant a warning. The warning is advisory; it does not
// mean the analysis failed.
func (a Analysis) OffStandard() bool {
	diff := a.TotalMora - PatternTotal
	if diff < 0 {
		diff = -diff
	}
	return diff > DeviationLimit
}

// String renders the analysis the way the checker displays it: every line
// followed by a full-width slash.
func (a Analysis) String() string {
	var sb strings.Builder
	for _, line := range a.Lines {
		sb.WriteString(line.Text)
		sb.WriteRune('／')
	}
	return sb.String()
}
