package transliteration

import (
	"fmt"
	"iter"
	"strings"
)

type suffixRule struct {
	from, to string
}

var (
	minimalSuffixes = []suffixRule{
		{"ая", "а"},
		{"ый", "ы"},
		{"ий", "и"},
	}
	extendedSuffixes = []suffixRule{
		{"ая", "а"},
		{"ый", "ы"},
		{"ия", "ья"},
		{"ий", "и"},
		{"ие", "ье"},
	}
)

// wordExceptions replace a whole word. Each chunk still lines up with one
// input letter.
var wordExceptions = map[string][]string{
	"от": {"o", "d"},
	"с":  {"z"},
	"из": {"z", ""},
}

func reduceSuffix(word string, suffixes []suffixRule) string {
	for _, s := range suffixes {
		if strings.HasSuffix(word, s.from) {
			word = strings.TrimSuffix(word, s.from) + s.to
		}
	}
	return word
}

// cursor is a read-only view of a word at one position. Moving it returns a
// new value, so a rule can never lose track of where it stands.
type cursor struct {
	word []rune
	pos  int
}

func (c cursor) done() bool      { return c.pos >= len(c.word) }
func (c cursor) cur() rune       { return c.word[c.pos] }
func (c cursor) isLast() bool    { return c.pos == len(c.word)-1 }
func (c cursor) advance() cursor { return cursor{word: c.word, pos: c.pos + 1} }

func (r *rules) nextKind(c cursor) letterKind {
	if c.pos+1 >= len(c.word) {
		return kindNone
	}
	return r.kind(c.word[c.pos+1])
}

// word transliterates one lowercased source word. Chunk i of the result
// belongs to letter i of the word after suffix reduction; letters absorbed
// without output yield an empty chunk.
func (r *rules) word(w string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if r.polish {
			if chunks, ok := wordExceptions[w]; ok {
				for _, chunk := range chunks {
					if !yield(chunk) {
						return
					}
				}
				return
			}
			w = reduceSuffix(w, r.suffixes)
		}

		c := cursor{word: []rune(w)}
		for !c.done() {
			var chunks []string
			chunks, c = r.step(c)
			for _, chunk := range chunks {
				if !yield(chunk) {
					return
				}
			}
		}
	}
}

// step emits the chunks for the letter under c plus any letters its rule
// looks ahead and consumes, and returns the cursor past the last of them.
func (r *rules) step(c cursor) ([]string, cursor) {
	cur := c.cur()

	switch kind := r.kind(cur); kind {
	case kindBasicVowel:
		return []string{r.out[cur]}, c.advance()

	case kindIotizedVowel:
		return []string{"j" + r.out[cur]}, c.advance()

	case kindPlainI:
		return []string{"i"}, c.advance()

	case kindBasicConsonant:
		cons := r.out[cur]
		switch r.nextKind(c) {
		case kindIotizedVowel:
			c = c.advance()
			return []string{cons + "i", r.out[c.cur()]}, c.advance()
		case kindSoftSign:
			c = c.advance()
			if c.isLast() {
				return []string{cons, "j"}, c.advance()
			}
			return []string{cons, "i"}, c.advance()
		}
		return []string{cons}, c.advance()

	case kindD:
		switch r.nextKind(c) {
		case kindIotizedVowel:
			c = c.advance()
			return []string{"dzi", r.out[c.cur()]}, c.advance()
		case kindPlainI:
			// и stays for the next step
			return []string{"dz"}, c.advance()
		case kindSoftSign:
			c = c.advance()
			if c.isLast() || r.nextKind(c).isConsonant() {
				return []string{"d", "ź"}, c.advance()
			}
			return []string{"d", "zi"}, c.advance()
		}
		return []string{"d"}, c.advance()

	case kindR:
		switch r.nextKind(c) {
		case kindIotizedVowel:
			c = c.advance()
			return []string{"rz", r.out[c.cur()]}, c.advance()
		case kindPlainI:
			c = c.advance()
			return []string{"rz", "y"}, c.advance()
		case kindSoftSign:
			c = c.advance()
			return []string{"r", "z"}, c.advance()
		}
		return []string{"r"}, c.advance()

	case kindL:
		switch r.nextKind(c) {
		case kindIotizedVowel:
			c = c.advance()
			chunks := []string{"l", r.out[c.cur()]}
			if r.nextKind(c) == kindSoftSign {
				c = c.advance()
				chunks = append(chunks, "")
			}
			return chunks, c.advance()
		case kindSoftSign:
			c = c.advance()
			return []string{"l", ""}, c.advance()
		case kindPlainI:
			return []string{"l"}, c.advance()
		}
		return []string{"ł"}, c.advance()

	case kindAlwaysSoft:
		chunks := []string{r.out[cur]}
		if r.nextKind(c) == kindSoftSign {
			c = c.advance()
			if c.isLast() {
				chunks = append(chunks, "")
			} else {
				chunks = append(chunks, "j")
			}
		}
		switch r.nextKind(c) {
		case kindIotizedVowel:
			c = c.advance()
			chunks = append(chunks, r.out[c.cur()])
		case kindPlainI:
			c = c.advance()
			chunks = append(chunks, "y")
		}
		return chunks, c.advance()

	case kindShortI, kindHardSign:
		switch r.nextKind(c) {
		case kindIotizedVowel:
			c = c.advance()
			return []string{"j", r.out[c.cur()]}, c.advance()
		case kindPlainI:
			c = c.advance()
			return []string{"j", "y"}, c.advance()
		}
		return []string{"j"}, c.advance()

	case kindSoftSign:
		// nothing before it could take it
		return []string{""}, c.advance()

	case kindNone:
		return []string{string(cur)}, c.advance()

	default:
		panic(fmt.Sprintf("transliteration: unhandled letter kind %d", kind))
	}
}
