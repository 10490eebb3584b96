package transliteration

import (
	"iter"
	"slices"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func collect(seq iter.Seq[string]) []string {
	return slices.Collect(seq)
}

func TestWordChunksAlignWithLetters(t *testing.T) {
	tests := []struct {
		word string
		want []string
	}{
		{"андрей", []string{"a", "n", "d", "rz", "e", "j"}},
		{"бью", []string{"b", "i", "ju"}},
		{"бюргер", []string{"bi", "u", "r", "gi", "e", "r"}},
		{"чьё", []string{"cz", "j", "o"}},
		{"грудь", []string{"g", "r", "u", "d", "ź"}},
		{"гоньба", []string{"g", "o", "n", "i", "b", "a"}},
		{"мальчик", []string{"m", "a", "l", "", "cz", "y", "k"}},
		{"ночь", []string{"n", "o", "cz", ""}},
		{"подъезд", []string{"p", "o", "d", "j", "e", "z", "d"}},
		{"от", []string{"o", "d"}},
		{"из", []string{"z", ""}},
	}
	tr := Default()
	for _, tt := range tests {
		got := collect(tr.Word(tt.word))
		assert.Equal(t, tt.want, got, "word %q", tt.word)
		assert.Len(t, got, utf8.RuneCountInString(tt.word), "word %q", tt.word)
	}
}

func TestWordDSoftSign(t *testing.T) {
	tr := Default()
	// before a consonant or at the end: ź, before a vowel: zi
	assert.Equal(t, []string{"d", "ź"}, collect(tr.Word("дь")))
	assert.Equal(t, "wołodźka", concat(tr.Word("володька")))
	assert.Equal(t, "dziadzija", concat(tr.Word("дядья")))
}

func TestWordLIotizedThenSoftSign(t *testing.T) {
	tr := Default()
	assert.Equal(t, []string{"l", "o", ""}, collect(tr.Word("лёь")))
	assert.Equal(t, []string{"l", ""}, collect(tr.Word("ль")))
	assert.Equal(t, []string{"l", "i"}, collect(tr.Word("ли")))
	assert.Equal(t, []string{"ł", "a"}, collect(tr.Word("ла")))
}

func TestWordAlwaysSoftLookahead(t *testing.T) {
	tr := Default()
	assert.Equal(t, []string{"sz", "j", "u"}, collect(tr.Word("шью")))
	assert.Equal(t, []string{"c", "y"}, collect(tr.Word("ци")))
	assert.Equal(t, []string{"ż", "o"}, collect(tr.Word("жё")))
	assert.Equal(t, []string{"ch"}, collect(tr.Word("х")))
}

func TestWordShortIAndHardSign(t *testing.T) {
	tr := Default()
	assert.Equal(t, []string{"j", "y"}, collect(tr.Word("йи")))
	assert.Equal(t, []string{"j", "a"}, collect(tr.Word("ъя")))
	assert.Equal(t, []string{"j"}, collect(tr.Word("ъ")))
}

func TestWordLoneSoftSign(t *testing.T) {
	assert.Equal(t, []string{"a", ""}, collect(Default().Word("аь")))
}

func TestWordUnknownRunePassesThrough(t *testing.T) {
	assert.Equal(t, []string{"a", "ї", "a"}, collect(Default().Word("аїа")))
}

func TestReduceSuffix(t *testing.T) {
	assert.Equal(t, "красна", reduceSuffix("красная", minimalSuffixes))
	assert.Equal(t, "новы", reduceSuffix("новый", minimalSuffixes))
	assert.Equal(t, "сини", reduceSuffix("синий", minimalSuffixes))
	assert.Equal(t, "россия", reduceSuffix("россия", minimalSuffixes))
	assert.Equal(t, "россья", reduceSuffix("россия", extendedSuffixes))
	assert.Equal(t, "зданье", reduceSuffix("здание", extendedSuffixes))
	assert.Equal(t, "дом", reduceSuffix("дом", extendedSuffixes))
}

func TestCursorIsImmutable(t *testing.T) {
	c := cursor{word: []rune("ab")}
	next := c.advance()
	assert.Equal(t, 0, c.pos)
	assert.Equal(t, 1, next.pos)
	assert.True(t, next.isLast())
	assert.True(t, next.advance().done())
}

func concat(seq iter.Seq[string]) string {
	var s string
	for chunk := range seq {
		s += chunk
	}
	return s
}
