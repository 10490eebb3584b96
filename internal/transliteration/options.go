package transliteration

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid transliteration options")

// SuffixRules selects which word-final reductions run before the scan.
type SuffixRules string

const (
	// SuffixRulesMinimal reduces -ая, -ый and -ий.
	SuffixRulesMinimal SuffixRules = "minimal"
	// SuffixRulesExtended also rewrites -ия and -ие to -ья and -ье so they
	// come out as -ja and -je.
	SuffixRulesExtended SuffixRules = "extended"
)

// ParseSuffixRules accepts the names used by the CLI flags and the HTTP API.
// An empty string selects SuffixRulesMinimal.
func ParseSuffixRules(s string) (SuffixRules, error) {
	switch rules := SuffixRules(strings.ToLower(strings.TrimSpace(s))); rules {
	case "", SuffixRulesMinimal:
		return SuffixRulesMinimal, nil
	case SuffixRulesExtended:
		return SuffixRulesExtended, nil
	default:
		return "", fmt.Errorf("%w: unknown suffix rule set %q", ErrInvalidOptions, s)
	}
}

// Options configures a Transliterator. The zero value disables the Polish
// exceptions; use DefaultOptions for the usual configuration.
type Options struct {
	// PolishExceptions enables the dedicated rules for д, р and л, the
	// whole-word prepositions and the suffix reductions.
	PolishExceptions bool
	// SerbianSoftConsonants renders жхцчшщ with háček letters instead of
	// Polish digraphs.
	SerbianSoftConsonants bool
	SuffixRules           SuffixRules
}

func DefaultOptions() Options {
	return Options{
		PolishExceptions: true,
		SuffixRules:      SuffixRulesMinimal,
	}
}

// Validate reports whether the options can build a Transliterator.
func (o Options) Validate() error {
	_, err := ParseSuffixRules(string(o.SuffixRules))
	return err
}
