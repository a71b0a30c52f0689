// Package server exposes the pricing engine over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pricelab/carval/internal/engine"
	"github.com/pricelab/carval/internal/service"
)

// Server handles HTTP prediction requests.
type Server struct {
	engine  *engine.PricingEngine
	storage service.Storage
}

// New creates a server around a pricing engine. Storage may be nil, which
// disables the history endpoint.
func New(e *engine.PricingEngine, storage service.Storage) *Server {
	return &Server{engine: e, storage: storage}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/predictions", s.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/v1/predictions", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/v1/vocabulary", s.handleVocabulary).Methods(http.MethodGet)
	r.HandleFunc("/v1/schema", s.handleSchema).Methods(http.MethodGet)
	return r
}

// NewHTTPServer returns a configured HTTP server listening on addr.
func NewHTTPServer(addr string, e *engine.PricingEngine, storage service.Storage) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           New(e, storage).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}
