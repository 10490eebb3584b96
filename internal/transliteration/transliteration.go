// Package transliteration converts Russian Cyrillic text into a Polish-style
// Latin orthography.
//
// Input is split into runs of Cyrillic, Latin and other characters. Cyrillic
// runs go through a rule engine that looks one or two letters ahead to decide
// softening (конь → konj, грудь → grudź, андрей → andrzej); the other runs pass
// through unchanged. Capitalization is restored per input letter afterwards.
package transliteration

import (
	"io"
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transliterator applies one validated Options value. It holds no mutable
// state and is safe for concurrent use.
type Transliterator struct {
	opts  Options
	rules *rules
}

func New(opts Options) (*Transliterator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.SuffixRules == "" {
		opts.SuffixRules = SuffixRulesMinimal
	}
	return &Transliterator{opts: opts, rules: newRules(opts)}, nil
}

// Default returns a Transliterator for DefaultOptions.
func Default() *Transliterator {
	t, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return t
}

// Transliterate is a convenience wrapper around New and String.
func Transliterate(text string, opts Options) (string, error) {
	t, err := New(opts)
	if err != nil {
		return "", err
	}
	return t.String(text), nil
}

func (t *Transliterator) Options() Options {
	return t.opts
}

// String transliterates text. Input is normalized to NFC first so decomposed
// й and ё are recognized.
func (t *Transliterator) String(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for s := range t.Seq(text) {
		b.WriteString(s)
	}
	return b.String()
}

// Seq yields the rendered output one run at a time.
func (t *Transliterator) Seq(text string) iter.Seq[string] {
	return t.runs(norm.NFC.String(text))
}

func (t *Transliterator) runs(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var b strings.Builder
		for run := range Tokenize(text) {
			out := run.Raw
			if run.Class == SourceScript {
				b.Reset()
				render(&b, slices.Collect(t.rules.word(run.Text)), run.Mask)
				out = b.String()
			}
			if !yield(out) {
				return
			}
		}
	}
}

// Word runs the engine on a single lowercased Cyrillic word and yields one
// chunk per consumed letter, without restoring case.
func (t *Transliterator) Word(word string) iter.Seq[string] {
	return t.rules.word(word)
}

// Reader streams r through the transliterator.
func (t *Transliterator) Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, t.Transformer())
}

// Writer transliterates everything written to it into w. Close flushes the
// trailing word.
func (t *Transliterator) Writer(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, t.Transformer())
}

// Transformer returns an NFC-normalizing transform.Transformer.
func (t *Transliterator) Transformer() transform.Transformer {
	return transform.Chain(norm.NFC, &transformer{t: t})
}
