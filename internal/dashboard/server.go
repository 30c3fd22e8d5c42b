// Package dashboard serves the ratio dashboard: an HTML page, PNG charts,
// CSV download and a JSON view of the computed dataset.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"FearIndex/internal/exporter"
	"FearIndex/internal/metrics"
	"FearIndex/internal/model"
)

// DatasetSource computes a dataset for a date range.
type DatasetSource interface {
	Collect(ctx context.Context, params model.Params) (*model.Dataset, error)
}

// Server handles dashboard HTTP requests.
type Server struct {
	source       DatasetSource
	metrics      *metrics.Registry
	defaultYears int
	now          func() time.Time
}

// NewServer creates a dashboard server. metrics may be nil.
func NewServer(source DatasetSource, m *metrics.Registry, defaultYears int) *Server {
	return &Server{
		source:       source,
		metrics:      m,
		defaultYears: defaultYears,
		now:          time.Now,
	}
}

// Routes returns the dashboard router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/chart/ratio.png", s.handleChart(RenderRatioChart))
	r.Get("/chart/indices.png", s.handleChart(RenderIndicesChart))
	r.Get("/export.csv", s.handleExport)
	r.Get("/api/dataset", s.handleDataset)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		began := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		s.metrics.ObserveRequest(route, ww.Status())
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(began)).
			Msg("http request")
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	params, toggles, err := s.parseQuery(r)
	p := newPage(params, toggles, s.now(), r.URL.Query())
	status := http.StatusOK
	if err == nil {
		var ds *model.Dataset
		ds, err = s.source.Collect(r.Context(), params)
		p.setDataset(ds)
	}
	if err != nil {
		status = statusFor(err)
		p.Error = userMessage(err)
		log.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("dashboard computation failed")
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		log.Error().Err(err).Msg("render dashboard")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type chartFunc func(w io.Writer, ds *model.Dataset, toggles model.Toggles) error

func (s *Server) handleChart(draw chartFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, toggles, ok := s.collect(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := draw(&buf, ds, toggles); err != nil {
			if errors.Is(err, errNoSeries) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			log.Error().Err(err).Str("path", r.URL.Path).Msg("render chart")
			http.Error(w, "failed to render chart", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.collect(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := exporter.WriteCSV(&buf, ds); err != nil {
		log.Error().Err(err).Msg("write csv")
		http.Error(w, "failed to write csv", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.Filename(ds)))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	params, _, err := s.parseQuery(r)
	if err == nil {
		var ds *model.Dataset
		if ds, err = s.source.Collect(r.Context(), params); err == nil {
			render.JSON(w, r, ds)
			return
		}
	}
	render.Status(r, statusFor(err))
	render.JSON(w, r, map[string]string{
		"error":   err.Error(),
		"message": userMessage(err),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// collect parses the query and computes the dataset, writing a plain-text
// error response on failure.
func (s *Server) collect(w http.ResponseWriter, r *http.Request) (*model.Dataset, model.Toggles, bool) {
	params, toggles, err := s.parseQuery(r)
	if err == nil {
		var ds *model.Dataset
		if ds, err = s.source.Collect(r.Context(), params); err == nil {
			return ds, toggles, true
		}
	}
	http.Error(w, userMessage(err), statusFor(err))
	return nil, toggles, false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrEmptyAlignment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrDataUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidParams):
		return fmt.Sprintf("Please check the selected dates (%v).", err)
	case errors.Is(err, model.ErrEmptyAlignment):
		return "The two series have no trading days in common for this range. Choose a wider date range."
	case errors.Is(err, model.ErrDataUnavailable):
		return "Market data could not be loaded. Adjust the date range or retry in a moment."
	default:
		return "Something went wrong while computing the dashboard. Please retry."
	}
}
