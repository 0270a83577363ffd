package tankahammer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const canonical = "たんぽぽのわたげがとんだはるのそらまいあがるようにこどものこえ"

func TestSplitByPattern(t *testing.T) {
	segments := SplitByPattern(canonical, TankaPattern)
	assert.Equal(t, []string{"たんぽぽの", "わたげがとんだ", "はるのそら", "まいあがるよう", "にこどものこえ"}, segments)

	// empty input yields one empty segment per slot and nothing more
	assert.Equal(t, []string{"", "", "", "", ""}, SplitByPattern("", TankaPattern))

	// a poem shorter than the form leaves the later slots empty
	assert.Equal(t, []string{"はるのそら", "", "", "", ""}, SplitByPattern("はるのそら", TankaPattern))

	// overflow lands in an extra trailing segment
	segments = SplitByPattern(canonical+"あまりもの", TankaPattern)
	assert.Len(t, segments, 6)
	assert.Equal(t, "あまりもの", segments[5])

	// zero-mora residue rides with the final line instead
	segments = SplitByPattern(canonical+"。", TankaPattern)
	assert.Len(t, segments, 5)
	assert.Equal(t, "にこどものこえ。", segments[4])

	// punctuation inside the poem stays inside whichever segment consumes it
	segments = SplitByPattern("「こんにちは」さようなら", []int{5, 7})
	assert.Equal(t, []string{"「こんにちは", "」さようなら"}, segments)

	// a zero entry in the pattern produces an empty segment, not an error
	assert.Equal(t, []string{"", "あい"}, SplitByPattern("あい", []int{0, 5}))
}

func TestSplitByPattern_Lossless(t *testing.T) {
	inputs := []string{
		"",
		"きょう",
		canonical,
		canonical + "あまりもの",
		"「こんにちは」さようなら",
		"ちょっとまって、コーヒーのむ。",
	}
	for _, input := range inputs {
		assert.Equal(t, input, strings.Join(SplitByPattern(input, TankaPattern), ""), input)
	}
}

func TestAnalyze(t *testing.T) {
	a := Analyze(canonical)
	assert.Equal(t, 31, a.TotalMora)
	assert.False(t, a.OffStandard())
	assert.Len(t, a.Lines, 5)
	for _, line := range a.Lines {
		assert.Equal(t, StatusMatch, line.Status, line.Text)
		assert.Equal(t, line.Target, line.Mora, line.Text)
	}
	assert.Equal(t, "たんぽぽの／わたげがとんだ／はるのそら／まいあがるよう／にこどものこえ／", a.String())

	// pure function: same input, same result
	assert.Equal(t, a, Analyze(canonical))
}

func TestAnalyze_ShortPoem(t *testing.T) {
	a := Analyze("はるのそらです")
	assert.Equal(t, 7, a.TotalMora)
	assert.True(t, a.OffStandard())
	assert.Equal(t, StatusMatch, a.Lines[0].Status)
	assert.Equal(t, StatusMismatch, a.Lines[1].Status)
	assert.Equal(t, StatusEmpty, a.Lines[2].Status)
	assert.Equal(t, StatusEmpty, a.Lines[3].Status)
	assert.Equal(t, StatusEmpty, a.Lines[4].Status)
}

func TestAnalyze_Overflow(t *testing.T) {
	a := Analyze(canonical + "こえ")
	assert.Equal(t, 33, a.TotalMora)
	assert.False(t, a.OffStandard()) // off by 2, within the advisory limit
	assert.Len(t, a.Lines, 6)
	assert.True(t, a.Lines[5].Overflow)
	assert.Equal(t, "こえ", a.Lines[5].Text)
	assert.Equal(t, 0, a.Lines[5].Target)
}
