package tankahammer

import (
	"fmt"
	"strings"
)

// Kana blocks; the katakana block includes the long-vowel mark.
const (
	kanaBlockStart = 0x3040
	kanaBlockEnd   = 0x30FF
)

// IsTanka reports nil when str is a well-formed 5-7-5-7-7 tanka. The error
// explains the first problem found, in a form suitable to show the author.
func IsTanka(str string) error {
	trimmed := strings.TrimSpace(str)
	if trimmed == "" {
		return fmt.Errorf("there is nothing to count")
	}
	if !isJapanese(trimmed) {
		return fmt.Errorf("tanka are counted in Japanese kana; I could not read that as Japanese")
	}
	a := Analyze(trimmed)
	for i, line := range a.Lines {
		if line.Overflow {
			return fmt.Errorf("found %d sound(s) past the final line: %s", a.TotalMora-PatternTotal, line.Text)
		}
		switch line.Status {
		case StatusMatch:
		case StatusEmpty:
			return fmt.Errorf("ran out of sounds at line %d; a tanka needs %d and I counted %d", i+1, PatternTotal, a.TotalMora)
		default:
			return fmt.Errorf("line %d has %d sound(s) where %d belong: %s",
				i+1, line.Mora, line.Target, strings.Join(Morae(line.Text), "・"))
		}
	}
	return nil
}

// isJapanese reports whether every countable rune falls in the kana or
// kanji blocks. The bot uses this to ignore ordinary chatter whose
// character count happens to land on 31.
func isJapanese(str string) bool {
	sawKana := false
	for _, c := range str {
		if DefaultRules.Classify(c) == ClassExcluded {
			continue
		}
		switch {
		case c >= kanaBlockStart && c <= kanaBlockEnd:
			sawKana = true
		case c >= 0x4E00 && c <= 0x9FFF, c == '々':
		default:
			return false
		}
	}
	return sawKana
}
