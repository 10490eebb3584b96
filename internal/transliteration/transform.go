package transliteration

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// transformer renders a stream run by run. A Cyrillic run is collected in
// word until its end is seen, since suffix reduction and lookahead need the
// whole word; other runes pass straight through. Output that does not fit in
// dst waits in pending, so neither buffer bounds the length of a word.
type transformer struct {
	t       *Transliterator
	word    []byte
	pending []byte
}

func (tr *transformer) Reset() {
	tr.word = tr.word[:0]
	tr.pending = tr.pending[:0]
}

func (tr *transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for {
		if len(tr.pending) > 0 {
			n := copy(dst[nDst:], tr.pending)
			nDst += n
			if n < len(tr.pending) {
				tr.pending = tr.pending[n:]
				return nDst, nSrc, transform.ErrShortDst
			}
			tr.pending = tr.pending[:0]
		}

		if nSrc == len(src) {
			if atEOF && len(tr.word) > 0 {
				tr.flushWord()
				continue
			}
			return nDst, nSrc, nil
		}
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if Classify(r) == SourceScript {
			tr.word = append(tr.word, src[nSrc:nSrc+size]...)
			nSrc += size
			continue
		}
		if len(tr.word) > 0 {
			tr.flushWord()
			continue
		}
		tr.pending = utf8.AppendRune(tr.pending, r)
		nSrc += size
	}
}

// flushWord renders the collected Cyrillic run into pending.
func (tr *transformer) flushWord() {
	for s := range tr.t.runs(string(tr.word)) {
		tr.pending = append(tr.pending, s...)
	}
	tr.word = tr.word[:0]
}
