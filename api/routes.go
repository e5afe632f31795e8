package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Routes are registered on r with the full prefix; a subrouter would
	// answer a method mismatch with 404 instead of 405.
	const v1 = "/api/v1"

	// Market
	r.HandleFunc(v1+"/stocks", handler.ListStocks).Methods("GET")
	r.HandleFunc(v1+"/stocks/{symbol}", handler.GetStock).Methods("GET")
	r.HandleFunc(v1+"/stocks/{symbol}/chart", handler.GetChart).Methods("GET")
	r.HandleFunc(v1+"/market/overview", handler.GetOverview).Methods("GET")

	// Portfolio
	r.HandleFunc(v1+"/portfolio", handler.GetPortfolio).Methods("GET")
	r.HandleFunc(v1+"/trades", handler.ListTrades).Methods("GET")
	r.HandleFunc(v1+"/trades", handler.CreateTrade).Methods("POST")

	// Watchlist
	r.HandleFunc(v1+"/watchlist", handler.GetWatchlist).Methods("GET")
	r.HandleFunc(v1+"/watchlist", handler.AddToWatchlist).Methods("POST")
	r.HandleFunc(v1+"/watchlist/{symbol}", handler.RemoveFromWatchlist).Methods("DELETE")

	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, time.Since(t0))
	})
}
