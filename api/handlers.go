// Package api exposes a desk over HTTP/JSON. Handlers only translate
// requests into desk calls and results into JSON.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rustyeddy/tradedesk/desk"
	"github.com/rustyeddy/tradedesk/feed"
	"github.com/rustyeddy/tradedesk/ledger"
	"github.com/rustyeddy/tradedesk/market"
	"github.com/shopspring/decimal"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	desk *desk.Desk
}

func NewHandler(d *desk.Desk) *Handler {
	return &Handler{desk: d}
}

type stockResponse struct {
	market.Listing
	Watching bool             `json:"watching"`
	Position *ledger.Position `json:"position,omitempty"`
}

type portfolioResponse struct {
	Summary   ledger.Summary    `json:"summary"`
	Positions []ledger.Position `json:"positions"`
}

type tradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Side     string          `json:"side"`
}

type watchRequest struct {
	Symbol string `json:"symbol"`
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"running": h.desk.Running(),
	})
}

// ListStocks handles GET /stocks?q=
func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	listings := h.desk.Feed().Listings()
	if q := r.URL.Query().Get("q"); q != "" {
		listings = market.Search(listings, q)
	}
	if listings == nil {
		listings = []market.Listing{}
	}
	respondJSON(w, http.StatusOK, listings)
}

// GetStock handles GET /stocks/{symbol}
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	stock, ok := h.desk.Feed().Stock(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "stock "+symbol+" not found")
		return
	}
	q, err := h.desk.Feed().Quote(symbol)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := stockResponse{
		Listing:  market.Listing{Stock: stock, Quote: q},
		Watching: h.desk.Ledger().Watching(symbol),
	}
	if p, ok := h.desk.Ledger().Position(symbol); ok {
		resp.Position = &p
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetChart handles GET /stocks/{symbol}/chart?range=1D
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	rng := feed.Range1D
	if s := r.URL.Query().Get("range"); s != "" {
		parsed, err := feed.ParseRange(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		rng = parsed
	}

	points, err := h.desk.Feed().Chart(symbol, rng)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, points)
}

// GetOverview handles GET /market/overview
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.desk.Overview())
}

// GetPortfolio handles GET /portfolio
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	l := h.desk.Ledger()
	respondJSON(w, http.StatusOK, portfolioResponse{
		Summary:   l.Summary(),
		Positions: l.Positions(),
	})
}

// ListTrades handles GET /trades, newest first
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.desk.Ledger().Trades())
}

// CreateTrade handles POST /trades
func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	side, err := ledger.ParseSide(req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.desk.Trade(req.Symbol, req.Quantity, side)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

// GetWatchlist handles GET /watchlist
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	watched := h.desk.Watched()
	if watched == nil {
		watched = []market.Listing{}
	}
	respondJSON(w, http.StatusOK, watched)
}

// AddToWatchlist handles POST /watchlist
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.desk.Watch(req.Symbol); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, h.desk.Ledger().Watchlist())
}

// RemoveFromWatchlist handles DELETE /watchlist/{symbol}
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := h.desk.Unwatch(mux.Vars(r)["symbol"]); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, desk.ErrUnknownSymbol):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientPosition),
		errors.Is(err, ledger.ErrInsufficientShares):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, ledger.ErrInvalidSide),
		errors.Is(err, ledger.ErrInvalidSymbol):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
