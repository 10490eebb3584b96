package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/jusunglee/polonizacyja/internal/transliteration"
	"github.com/samber/lo"
)

// engines caches one Transliterator per option combination.
type engines struct {
	m sync.Map
}

func (e *engines) get(opts transliteration.Options) (*transliteration.Transliterator, error) {
	if t, ok := e.m.Load(opts); ok {
		return t.(*transliteration.Transliterator), nil
	}
	t, err := transliteration.New(opts)
	if err != nil {
		return nil, err
	}
	actual, _ := e.m.LoadOrStore(opts, t)
	return actual.(*transliteration.Transliterator), nil
}

// optionsRequest carries the per-request options; absent fields take the defaults.
type optionsRequest struct {
	PolishExceptions      *bool  `json:"polish_exceptions,omitempty"`
	SerbianSoftConsonants *bool  `json:"serbian_soft_consonants,omitempty"`
	SuffixRules           string `json:"suffix_rules,omitempty"`
}

func (o optionsRequest) options() (transliteration.Options, error) {
	rules, err := transliteration.ParseSuffixRules(o.SuffixRules)
	if err != nil {
		return transliteration.Options{}, err
	}
	return transliteration.Options{
		PolishExceptions:      lo.FromPtrOr(o.PolishExceptions, true),
		SerbianSoftConsonants: lo.FromPtrOr(o.SerbianSoftConsonants, false),
		SuffixRules:           rules,
	}, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if _, ok := errors.AsType[*http.MaxBytesError](err); ok {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
