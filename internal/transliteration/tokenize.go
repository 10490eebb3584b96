package transliteration

import (
	"iter"
	"strings"
	"unicode"
)

// Class tags a rune, and the runs built from it, for segmentation.
type Class uint8

const (
	Other Class = iota
	SourceScript
	LatinScript
)

func (c Class) String() string {
	switch c {
	case SourceScript:
		return "source"
	case LatinScript:
		return "latin"
	default:
		return "other"
	}
}

// Classify lowercases r and reports which alphabet it belongs to.
func Classify(r rune) Class {
	l := unicode.ToLower(r)
	if _, ok := sourceKinds[l]; ok {
		return SourceScript
	}
	if l >= 'a' && l <= 'z' {
		return LatinScript
	}
	return Other
}

// Run is a maximal stretch of input sharing one Class. Text is lowercased and
// Mask records, per rune of Text, whether the original rune was uppercase.
// Raw is the run as it appeared in the input.
type Run struct {
	Text  string
	Class Class
	Mask  []bool
	Raw   string
}

// Tokenize splits text into runs in a single forward pass. The sequence is
// lazy and can be ranged over once per call.
func Tokenize(text string) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		var (
			b, raw strings.Builder
			mask   []bool
			class  Class
		)
		for _, r := range text {
			c := Classify(r)
			if c != class && len(mask) > 0 {
				if !yield(Run{Text: b.String(), Class: class, Mask: mask, Raw: raw.String()}) {
					return
				}
				b.Reset()
				raw.Reset()
				mask = nil
			}
			class = c
			b.WriteRune(unicode.ToLower(r))
			raw.WriteRune(r)
			mask = append(mask, unicode.IsUpper(r))
		}
		if len(mask) > 0 {
			yield(Run{Text: b.String(), Class: class, Mask: mask, Raw: raw.String()})
		}
	}
}
