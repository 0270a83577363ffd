package tankahammer

import "strings"

// A token is the scanner's unit of output: either a cluster of runes that
// together carry exactly one mora, or a single excluded rune carrying none.
// Concatenating token texts in order reproduces the input exactly.
type token struct {
	text string
	mora bool
}

// scan walks text left to right. Excluded runes become zero-mora tokens.
// Any other rune forms one mora, pulling in the following rune when that
// rune is a combining small kana. A small kana with no base to its left
// (start of string, or right after an excluded rune) stands as a mora of
// its own rather than being dropped.
func (r RuleSet) scan(text string) []token {
	runes := []rune(text)
	var tokens []token
	for i := 0; i < len(runes); {
		if r.Classify(runes[i]) == ClassExcluded {
			tokens = append(tokens, token{text: string(runes[i])})
			i++
			continue
		}
		if i+1 < len(runes) && r.Classify(runes[i+1]) == ClassSmallKana {
			tokens = append(tokens, token{text: string(runes[i : i+2]), mora: true})
			i += 2
			continue
		}
		tokens = append(tokens, token{text: string(runes[i]), mora: true})
		i++
	}
	return tokens
}

// CountMora reports the number of mora in text under the default rules. It
// accepts any input and never fails; a string with no countable characters
// reports zero.
func CountMora(text string) int {
	return DefaultRules.CountMora(text)
}

func (r RuleSet) CountMora(text string) int {
	count := 0
	for _, t := range r.scan(text) {
		if t.mora {
			count++
		}
	}
	return count
}

// Morae splits text into per-mora segments. The segments partition the
// input exactly; excluded runes ride along with the nearest mora, trailing
// ones with the last. A string containing no mora at all comes back as a
// single zero-mora segment.
func Morae(text string) []string {
	return DefaultRules.Morae(text)
}

func (r RuleSet) Morae(text string) []string {
	var segments []string
	var pending strings.Builder
	for _, t := range r.scan(text) {
		if !t.mora {
			if len(segments) == 0 {
				pending.WriteString(t.text)
			} else {
				segments[len(segments)-1] += t.text
			}
			continue
		}
		segments = append(segments, pending.String()+t.text)
		pending.Reset()
	}
	if len(segments) == 0 && pending.Len() > 0 {
		return []string{pending.String()}
	}
	return segments
}
