package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/jusunglee/polonizacyja/internal/metrics"
	"github.com/jusunglee/polonizacyja/internal/transliteration"
)

type TransliterateHandler struct {
	log     *slog.Logger
	engines *engines
}

func NewTransliterateHandler(log *slog.Logger) *TransliterateHandler {
	return &TransliterateHandler{log: log, engines: &engines{}}
}

type transliterateRequest struct {
	Text string `json:"text"`
	optionsRequest
}

type transliterateResponse struct {
	Text string `json:"text"`
}

// Transliterate handles POST /api/v1/transliterate.
func (h *TransliterateHandler) Transliterate(w http.ResponseWriter, r *http.Request) {
	var req transliterateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	opts, err := req.options()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.engines.get(opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.ObserveTransliteration("web", metrics.Variant(opts.PolishExceptions, opts.SerbianSoftConsonants), len(req.Text))
	writeJSON(w, http.StatusOK, transliterateResponse{Text: t.String(req.Text)})
}

// Legacy handles POST /trans: the body is a JSON string and the reply is
// plain text produced with the default options.
func (h *TransliterateHandler) Legacy(w http.ResponseWriter, r *http.Request) {
	var text string
	if !decodeJSON(w, r, &text) {
		return
	}

	metrics.ObserveTransliteration("web", metrics.Variant(true, false), len(text))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, transliteration.Default().String(text)); err != nil {
		h.log.DebugContext(r.Context(), "writing legacy response", "error", err)
	}
}
