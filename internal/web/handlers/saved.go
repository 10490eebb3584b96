package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/jusunglee/polonizacyja/internal/db"
	"github.com/jusunglee/polonizacyja/internal/metrics"
	"github.com/samber/lo"
)

// SavedHandler serves the shareable, persisted transliterations.
type SavedHandler struct {
	repo    db.Repository
	log     *slog.Logger
	engines *engines
}

func NewSavedHandler(repo db.Repository, log *slog.Logger) *SavedHandler {
	return &SavedHandler{repo: repo, log: log, engines: &engines{}}
}

type savedResponse struct {
	ID                    int64  `json:"id"`
	SourceText            string `json:"source_text"`
	Text                  string `json:"text"`
	PolishExceptions      bool   `json:"polish_exceptions"`
	SerbianSoftConsonants bool   `json:"serbian_soft_consonants"`
	SuffixRules           string `json:"suffix_rules"`
	CreatedAt             string `json:"created_at"`
}

type paginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type listResponse struct {
	Data       []savedResponse `json:"data"`
	Pagination paginationMeta  `json:"pagination"`
}

func toSavedResponse(t db.Transliteration) savedResponse {
	return savedResponse{
		ID:                    t.ID,
		SourceText:            t.SourceText,
		Text:                  t.ResultText,
		PolishExceptions:      t.PolishExceptions,
		SerbianSoftConsonants: t.SerbianSoftConsonants,
		SuffixRules:           t.SuffixRules,
		CreatedAt:             t.CreatedAt.Format(time.RFC3339),
	}
}

func (h *SavedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transliterateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
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

	result := t.String(req.Text)
	metrics.ObserveTransliteration("web", metrics.Variant(opts.PolishExceptions, opts.SerbianSoftConsonants), len(req.Text))

	saved, err := h.repo.CreateTransliteration(r.Context(), db.CreateTransliterationParams{
		SourceText:            req.Text,
		ResultText:            result,
		PolishExceptions:      opts.PolishExceptions,
		SerbianSoftConsonants: opts.SerbianSoftConsonants,
		SuffixRules:           string(opts.SuffixRules),
	})
	if err != nil {
		metrics.SavedTransliterations.WithLabelValues("error").Inc()
		if errors.Is(err, db.ErrTextTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "saving transliteration", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	metrics.SavedTransliterations.WithLabelValues("ok").Inc()

	h.log.InfoContext(r.Context(), "transliteration saved", "id", saved.ID, "bytes", len(req.Text))
	writeJSON(w, http.StatusCreated, toSavedResponse(saved))
}

func (h *SavedHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.repo.GetTransliteration(r.Context(), id)
	if err != nil {
		if db.IsNoRows(err) {
			writeError(w, http.StatusNotFound, "transliteration not found")
			return
		}
		h.log.ErrorContext(r.Context(), "getting transliteration", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toSavedResponse(t))
}

func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	if page-1 > math.MaxInt32/limit {
		writeError(w, http.StatusBadRequest, "page out of range")
		return
	}
	offset := (page - 1) * limit

	total, err := h.repo.CountTransliterations(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "counting transliterations", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items, err := h.repo.ListTransliterations(r.Context(), db.ListTransliterationsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "listing transliterations", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data: lo.Map(items, func(t db.Transliteration, _ int) savedResponse { return toSavedResponse(t) }),
		Pagination: paginationMeta{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}
