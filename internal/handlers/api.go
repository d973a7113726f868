package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/vire-picks/internal/common"
	"github.com/bobmcallan/vire-picks/internal/data"
	"github.com/bobmcallan/vire-picks/internal/models"
	"github.com/bobmcallan/vire-picks/internal/symbol"
)

// Documents is the read side of the data store used by the JSON API.
type Documents interface {
	Snapshot() (*models.Snapshot, error)
	Equity() ([]models.EquityPoint, error)
}

// APIHandler serves the snapshot, equity curve and symbol lookup as JSON.
type APIHandler struct {
	logger *common.Logger
	docs   Documents
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(logger *common.Logger, docs Documents) *APIHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &APIHandler{logger: logger, docs: docs}
}

// PickResponse is a pick with its resolved TradingView symbol.
type PickResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
}

// SnapshotResponse is the body of GET /api/snapshot.
type SnapshotResponse struct {
	Date  string         `json:"date"`
	Top1  []PickResponse `json:"top1"`
	Top3  []PickResponse `json:"top3"`
	Top10 []PickResponse `json:"top10"`
}

// EquityResponse is the body of GET /api/equity.
type EquityResponse struct {
	Points  []models.EquityPoint `json:"points"`
	Summary models.EquitySummary `json:"summary"`
}

// NewPickResponse resolves the symbol for a pick.
func NewPickResponse(p models.Pick) PickResponse {
	return PickResponse{
		Code:     p.Code,
		Name:     p.Name,
		Symbol:   symbol.Resolve(p.Code),
		Exchange: string(symbol.ExchangeOf(p.Code)),
	}
}

func pickResponses(picks []models.Pick) []PickResponse {
	out := make([]PickResponse, len(picks))
	for i, p := range picks {
		out[i] = NewPickResponse(p)
	}
	return out
}

// HandleSnapshot handles GET /api/snapshot.
func (h *APIHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snap, err := h.docs.Snapshot()
	switch {
	case errors.Is(err, data.ErrSnapshotNotFound):
		WriteError(w, http.StatusNotFound, "snapshot not found")
		return
	case errors.Is(err, data.ErrSnapshotMalformed):
		WriteError(w, http.StatusUnprocessableEntity, "snapshot malformed")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("failed to load snapshot")
		WriteError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	WriteJSON(w, http.StatusOK, SnapshotResponse{
		Date:  snap.Date,
		Top1:  pickResponses(snap.Top1),
		Top3:  pickResponses(snap.Top3),
		Top10: pickResponses(snap.Top10),
	})
}

// HandleEquity handles GET /api/equity.
func (h *APIHandler) HandleEquity(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	points, err := h.docs.Equity()
	if errors.Is(err, data.ErrEquityNotFound) {
		WriteError(w, http.StatusNotFound, "equity curve not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load equity curve")
		WriteError(w, http.StatusInternalServerError, "failed to load equity curve")
		return
	}

	summary, err := data.Summarize(points)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to summarize equity curve")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, EquityResponse{Points: points, Summary: summary})
}

// HandleSymbol handles GET /api/symbol?code=600519.
func (h *APIHandler) HandleSymbol(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		WriteError(w, http.StatusBadRequest, "code is required")
		return
	}

	WriteJSON(w, http.StatusOK, NewPickResponse(models.Pick{Code: code}))
}
