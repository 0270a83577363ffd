package tankahammer

// CharClass describes how a single rune participates in mora counting.
type CharClass uint8

const (
	ClassOrdinary    CharClass = iota // counts as one mora by itself
	ClassExcluded                     // whitespace and punctuation; never counted
	ClassSmallKana                    // merges into the preceding mora
	ClassIndependent                  // small tsu and the long-vowel mark; one mora each
)

// RuleSet is a character-classification policy, kept as plain membership
// tables so the policy can change without touching the scanning loops.
type RuleSet struct {
	smallKana   map[rune]bool
	independent map[rune]bool
	excluded    map[rune]bool
}

func NewRuleSet(smallKana, independent, excluded string) RuleSet {
	return RuleSet{
		smallKana:   runeSet(smallKana),
		independent: runeSet(independent),
		excluded:    runeSet(excluded),
	}
}

// Classify depends only on the rune itself; position-sensitive behavior
// (the combining rule) lives in the scanner.
func (r RuleSet) Classify(c rune) CharClass {
	switch {
	case r.excluded[c]:
		return ClassExcluded
	case r.smallKana[c]:
		return ClassSmallKana
	case r.independent[c]:
		return ClassIndependent
	}
	return ClassOrdinary
}

// DefaultRules is the authoritative policy. Small tsu and the long-vowel
// mark count as independent mora, matching classical counting convention.
var DefaultRules = NewRuleSet(
	"ぁぃぅぇぉゃゅょゎァィゥェォャュョヮヵヶ",
	"っッー",
	" \t\n\r　、。，．・…‥「」『』（）()［］[]｛｝{}〈〉《》【】“”‘’\"'！？!?〜~",
)

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, c := range s {
		set[c] = true
	}
	return set
}
