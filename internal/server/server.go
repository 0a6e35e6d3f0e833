// Package server exposes package info and dependency queries over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pypeek/pypeek/pkg/deps"
	"github.com/pypeek/pypeek/pkg/pipdeptree"
	"github.com/pypeek/pypeek/pkg/pypi"
)

// Server serves the pypeek HTTP API.
type Server struct {
	client   *pypi.Client
	snapshot func(r *http.Request, pkg string) (*deps.Snapshot, error)
	logger   *log.Logger
}

// New creates a server. client serves live package info; snapshot supplies
// the dependency graph for dependency and tree queries.
func New(client *pypi.Client, snapshot func(r *http.Request, pkg string) (*deps.Snapshot, error), logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{client: client, snapshot: snapshot, logger: logger}
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/packages/{name}", s.handleInfo)
	r.Get("/packages/{name}/dependencies", s.handleDependencies)
	r.Get("/packages/{name}/tree", s.handleTree)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	info, err := s.client.FetchInfo(r.Context(), name, refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{
		"name": info.Info.Name,
		"info": info.MainInfo(),
	})
}

func (s *Server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q := r.URL.Query()

	format, err := deps.ParseFormat(formatOrDefault(q.Get("format")))
	if err != nil {
		s.writeError(w, err)
		return
	}
	transitive, _ := strconv.ParseBool(q.Get("transitive"))
	problems, _ := strconv.ParseBool(q.Get("problems"))

	snap, err := s.snapshot(r, name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	payload := map[string]any{
		"package":    deps.NormalizeKey(name),
		"format":     format,
		"transitive": transitive,
	}

	switch format {
	case deps.FormatNames:
		names, err := snap.Names(name, transitive)
		if err != nil {
			s.writeError(w, err)
			return
		}
		payload["dependencies"] = names
	case deps.FormatNamesWithReq:
		names, err := snap.NamesWithReq(name, transitive)
		if err != nil {
			s.writeError(w, err)
			return
		}
		payload["dependencies"] = names
	case deps.FormatTuples:
		tuples, err := snap.Tuples(name, transitive)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out := make([]map[string]string, len(tuples))
		for i, t := range tuples {
			out[i] = map[string]string{"name": t.Name, "operator": t.Operator, "version": t.Version}
		}
		payload["dependencies"] = out
	case deps.FormatDetails:
		report, err := snap.Details(name, deps.DetailOptions{
			IncludeTransitive: transitive,
			OnlyProblematic:   problems,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		payload["dependencies"] = report.Details
		failures := make([]map[string]string, len(report.Failures))
		for i, f := range report.Failures {
			failures[i] = map[string]string{"key": f.Key, "error": f.Err.Error()}
		}
		payload["failures"] = failures
	}

	s.writeJSON(w, payload)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	snap, err := s.snapshot(r, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	tree, err := snap.Tree(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{
		"package": deps.NormalizeKey(name),
		"tree":    tree,
	})
}

func formatOrDefault(s string) string {
	if s == "" {
		return string(deps.FormatNames)
	}
	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pypi.ErrNotFound),
		errors.Is(err, deps.ErrUnknownPackage),
		errors.Is(err, pipdeptree.ErrPackageNotInstalled):
		status = http.StatusNotFound
	case errors.Is(err, deps.ErrUnsupportedFormat),
		errors.Is(err, deps.ErrInvalidSpecifier),
		errors.Is(err, deps.ErrInvalidVersion):
		status = http.StatusBadRequest
	case errors.Is(err, pypi.ErrNetwork):
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
