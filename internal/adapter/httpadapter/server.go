package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	"github.com/couchcryptid/salsa-ratings-service/internal/render"
)

// SnapshotSource supplies the restaurants the pages are built from.
type SnapshotSource interface {
	sharedobs.ReadinessChecker
	Current() (domain.Snapshot, bool)
}

// Server serves the table and map pages, their JSON APIs, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	source     SnapshotSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server for the given snapshot source.
func NewServer(addr string, source SnapshotSource, logger *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		source: source,
		logger: logger,
	}

	router.Use(s.logRequests)

	router.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	router.HandleFunc("/readyz", sharedobs.ReadinessHandler(source)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/", s.handleTable).Methods(http.MethodGet)
	router.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/restaurants", s.handleRestaurants).Methods(http.MethodGet)
	api.HandleFunc("/map", s.handleMapJSON).Methods(http.MethodGet)
	api.HandleFunc("/stars/{rating}", s.handleStars).Methods(http.MethodGet)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// tableQuery reads q, sort, and dir. An unknown sort column is a client error.
func tableQuery(r *http.Request) (render.TableQuery, error) {
	params := r.URL.Query()
	key, err := domain.ParseSortKey(params.Get("sort"))
	if err != nil {
		return render.TableQuery{}, err
	}
	return render.TableQuery{
		Search: params.Get("q"),
		Sort:   key,
		Dir:    domain.ParseDirection(params.Get("dir")),
	}, nil
}

func (s *Server) snapshot(w http.ResponseWriter) (domain.Snapshot, bool) {
	snap, ok := s.source.Current()
	if !ok {
		http.Error(w, "restaurant ratings are still loading", http.StatusServiceUnavailable)
	}
	return snap, ok
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	q, err := tableQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteTable(w, render.NewTablePage(snap, q, "/", "/map")); err != nil {
		s.logger.Error("failed to render table", "error", err)
	}
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteMap(w, render.NewMapPage(snap, "/")); err != nil {
		s.logger.Error("failed to render map", "error", err)
	}
}

// RestaurantsResponse is the body of GET /api/restaurants.
type RestaurantsResponse struct {
	Source      string            `json:"source"`
	LoadedAt    time.Time         `json:"loaded_at"`
	Fingerprint string            `json:"fingerprint"`
	Total       int               `json:"total"`
	Rows        []render.TableRow `json:"rows"`
}

func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	q, err := tableQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, RestaurantsResponse{
		Source:      snap.Source,
		LoadedAt:    snap.LoadedAt,
		Fingerprint: snap.Fingerprint,
		Total:       len(snap.Restaurants),
		Rows:        render.TableRows(q.Apply(snap.Restaurants)),
	})
}

// MapResponse is the body of GET /api/map.
type MapResponse struct {
	Source   string                   `json:"source"`
	LoadedAt time.Time                `json:"loaded_at"`
	View     domain.MapView           `json:"view"`
	GeoJSON  domain.FeatureCollection `json:"geojson"`
}

func (s *Server) handleMapJSON(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	view := domain.BuildMapView(snap.Restaurants)
	writeJSON(w, http.StatusOK, MapResponse{
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		View:     view,
		GeoJSON:  view.GeoJSON(),
	})
}

// StarsResponse is the body of GET /api/stars/{rating}.
type StarsResponse struct {
	Rating float64 `json:"rating"`
	Stars  string  `json:"stars"`
	Full   int     `json:"full"`
	Half   bool    `json:"half"`
	Empty  int     `json:"empty"`
}

func (s *Server) handleStars(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["rating"]
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rating " + strconv.Quote(raw)})
		return
	}
	rating = domain.ClampRating(rating)
	full, half, empty := domain.StarCounts(rating)
	writeJSON(w, http.StatusOK, StarsResponse{
		Rating: rating,
		Stars:  domain.Stars(rating),
		Full:   full,
		Half:   half,
		Empty:  empty,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
