package transliteration

import (
	"fmt"

	"github.com/samber/lo"
)

// letterKind is the closed set of dispatch classes for source letters.
type letterKind uint8

const (
	kindNone letterKind = iota
	kindBasicVowel
	kindIotizedVowel
	kindPlainI
	kindBasicConsonant
	kindD
	kindR
	kindL
	kindAlwaysSoft
	kindShortI
	kindHardSign
	kindSoftSign
)

func (k letterKind) isConsonant() bool {
	switch k {
	case kindBasicConsonant, kindD, kindR, kindL, kindAlwaysSoft:
		return true
	}
	return false
}

var (
	basicConsonants     = zipLetters("бвгзкмнпстф", "bwgzkmnpstf")
	exceptionConsonants = zipLetters("дрл", "drl")
	basicVowels         = zipLetters("аоуэы", "aouey")
	// iotized vowels map to the vowel that follows the j glide
	iotizedVowels = zipLetters("яёюе", "aoue")

	alwaysSoftPolish = map[rune]string{
		'ж': "ż", 'х': "ch", 'ц': "c", 'ч': "cz", 'ш': "sz", 'щ': "szcz",
	}
	alwaysSoftSerbian = map[rune]string{
		'ж': "ž", 'х': "h", 'ц': "c", 'ч': "č", 'ш': "š", 'щ': "šč",
	}
)

const (
	plainI   = 'и'
	shortI   = 'й'
	hardSign = 'ъ'
	softSign = 'ь'
)

// sourceKinds is the single source of truth for the source alphabet: the
// tokenizer classifies a rune as SourceScript exactly when it has an entry
// here, and the engine dispatches on the same entry.
var sourceKinds = buildSourceKinds()

func buildSourceKinds() map[rune]letterKind {
	kinds := make(map[rune]letterKind, 33)
	mark := func(letters []rune, kind letterKind) {
		for _, r := range letters {
			kinds[r] = kind
		}
	}
	mark(lo.Keys(basicVowels), kindBasicVowel)
	mark(lo.Keys(iotizedVowels), kindIotizedVowel)
	mark(lo.Keys(basicConsonants), kindBasicConsonant)
	mark(lo.Keys(alwaysSoftPolish), kindAlwaysSoft)
	mark([]rune{plainI}, kindPlainI)
	mark([]rune{shortI}, kindShortI)
	mark([]rune{hardSign}, kindHardSign)
	mark([]rune{softSign}, kindSoftSign)
	kinds['д'] = kindD
	kinds['р'] = kindR
	kinds['л'] = kindL
	return kinds
}

func zipLetters(from, to string) map[rune]string {
	src, dst := []rune(from), []rune(to)
	if len(src) != len(dst) {
		panic(fmt.Sprintf("transliteration: table %q has %d letters, %q has %d", from, len(src), to, len(dst)))
	}
	return lo.Associate(lo.Zip2(src, dst), func(p lo.Tuple2[rune, rune]) (rune, string) {
		return p.A, string(p.B)
	})
}

// rules holds the lookup tables for one Options value. It is built once by
// New and only read afterwards.
type rules struct {
	kinds    map[rune]letterKind
	out      map[rune]string
	suffixes []suffixRule
	polish   bool
}

func newRules(opts Options) *rules {
	kinds := make(map[rune]letterKind, len(sourceKinds))
	for r, k := range sourceKinds {
		kinds[r] = k
	}
	if !opts.PolishExceptions {
		for r := range exceptionConsonants {
			kinds[r] = kindBasicConsonant
		}
	}

	soft := alwaysSoftPolish
	if opts.SerbianSoftConsonants {
		soft = alwaysSoftSerbian
	}

	suffixes := minimalSuffixes
	if opts.SuffixRules == SuffixRulesExtended {
		suffixes = extendedSuffixes
	}

	return &rules{
		kinds:    kinds,
		out:      lo.Assign(basicConsonants, exceptionConsonants, basicVowels, iotizedVowels, soft),
		suffixes: suffixes,
		polish:   opts.PolishExceptions,
	}
}

func (r *rules) kind(c rune) letterKind {
	return r.kinds[c]
}
