package tankahammer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTanka(t *testing.T) {
	tanka := []string{
		"たんぽぽのわたげがとんだはるのそらまいあがるようにこどものこえ",
		"はるすぎてなつきにけらししろたへのころもほすてふあまのかぐやま",
		"ひさかたのひかりのどけきはるのひにしづこころなくはなのちるらむ",
		"きょうのそらちょうちょがまいてはるがきてこどもらわらうこえがひびくよ",
		"タンポポノワタゲガトンダハルノソラマイアガルヨウニコドモノコエ",
		"「たんぽぽの　わたげがとんだ　はるのそら　まいあがるよう　にこどものこえ」",
		"たんぽぽの、わたげがとんだ、はるのそら、まいあがるよう、にこどものこえ。",
		"\n　たんぽぽのわたげがとんだはるのそらまいあがるようにこどものこえ\n",
	}

	notTanka := []string{
		"",
		"   \n\t",
		"こんにちは",
		"たんぽぽのわたげがとんだはるのそら",
		"たんぽぽのわたげがとんだはるのそらまいあがるようにこどものこえあまり",
		"たんぽぽぽのわたげがとんだはるのそらまいあがるようにこどものこえ",
		"this is not a tanka",
		"575 77 31",
		"！？…〜",
	}

	for _, poem := range tanka {
		assert.NoError(t, IsTanka(poem), poem)
	}
	for _, poem := range notTanka {
		assert.Error(t, IsTanka(poem), poem)
	}
}

func TestIsTanka_Explanations(t *testing.T) {
	// one sound short of the first line
	err := IsTanka("たんぽぽ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	// trailing content past the final line
	err = IsTanka(canonical + "あまり")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "past the final line")

	// too short
	err = IsTanka("こんにちは")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ran out of sounds")
}

func TestIsJapanese(t *testing.T) {
	assert.True(t, isJapanese("たんぽぽの"))
	assert.True(t, isJapanese("タンポポノ"))
	assert.True(t, isJapanese("「はるの、そら」"))
	assert.True(t, isJapanese("春のそら")) // kanji ride along with kana
	assert.False(t, isJapanese("hello"))
	assert.False(t, isJapanese("はるの sky"))
	assert.False(t, isJapanese("、。」")) // punctuation alone counts nothing
}
