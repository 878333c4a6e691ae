// Package server exposes a document store over HTTP.
//
// Routes:
//
//	GET    /healthz                   liveness and build version
//	GET    /v1/grafs                  list stored figures
//	POST   /v1/grafs                  store a figure under a generated name
//	GET    /v1/grafs/{name}           fetch a figure
//	PUT    /v1/grafs/{name}           store a figure
//	DELETE /v1/grafs/{name}           remove a figure
//	GET    /v1/grafs/{name}/summary   overview and flattened rows
//	GET    /v1/grafs/{name}/layout    text grid of axis keys
//	GET    /v1/grafs/{name}/query     JSONPath query (?expr=)
//
// Figures travel as JSON or YAML. Request bodies are decoded per the
// Content-Type header; responses follow ?format= first, then Accept.
// Every figure is checked for version, shape and invariants (series lengths,
// grid shapes, tick labels, twin traces, grid bounds) on the way in, and again
// before a stored figure is summarized or laid out. Figures are stored in
// their canonical packed form.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	stdio "io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Grant-Giesbrecht/graf/pkg/buildinfo"
	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/graf"
	"github.com/Grant-Giesbrecht/graf/pkg/inspect"
	"github.com/Grant-Giesbrecht/graf/pkg/io"
	"github.com/Grant-Giesbrecht/graf/pkg/observability"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
)

// maxBody bounds uploaded documents.
const maxBody = 64 << 20

// Server serves a [store.Store].
type Server struct {
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New returns a server over st. A nil logger selects log.Default().
func New(st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{store: st, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.health)
	r.Route("/v1/grafs", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Put("/", s.put)
			r.Delete("/", s.delete)
			r.Get("/summary", s.summary)
			r.Get("/layout", s.layout)
			r.Get("/query", s.query)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeNetwork, err, "serve %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(errors.ErrCodeNetwork, err, "serve %s", addr)
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "dur", dur.Round(time.Microsecond))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	g, err := readGraf(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	name := store.NewName("graf")
	if err := s.store.Put(r.Context(), name, g.Pack()); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Location", "/v1/grafs/"+name)
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}
	f, err := responseFormat(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	data, err := io.Encode(d, f)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	g, err := readGraf(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Put(r.Context(), chi.URLParam(r, "name"), g.Pack()); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	Overview inspect.Overview `json:"overview"`
	Rows     []inspect.Row    `json:"rows"`
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	g, d, err := s.load(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Overview: inspect.Summary(g), Rows: inspect.Summarize(d)})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	g, _, err := s.load(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = stdio.WriteString(w, g.Layout().String())
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	expr := r.URL.Query().Get("expr")
	if expr == "" {
		s.fail(w, errors.New(errors.ErrCodeInvalidInput, "missing expr parameter"))
		return
	}
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}
	res, err := inspect.Query(d, expr)
	if err != nil {
		s.fail(w, err)
		return
	}
	if res == nil {
		res = []any{}
	}
	writeJSON(w, http.StatusOK, res)
}

// load fetches and decodes the named figure.
func (s *Server) load(r *http.Request) (*graf.Graf, document.Document, error) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return nil, nil, err
	}
	g, err := checkedGraf(d)
	if err != nil {
		return nil, nil, err
	}
	return g, d, nil
}

// =============================================================================
// Encoding
// =============================================================================

func readGraf(w http.ResponseWriter, r *http.Request) (*graf.Graf, error) {
	f := io.FormatJSON
	if ct := r.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		f = io.FormatYAML
	}
	d, err := io.Read(http.MaxBytesReader(w, r.Body, maxBody), f)
	if err != nil {
		return nil, err
	}
	return checkedGraf(d)
}

// checkedGraf decodes d and checks the invariants of the figure.
func checkedGraf(d document.Document) (*graf.Graf, error) {
	g, err := io.DecodeGraf(d)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "invalid figure: %v", err)
	}
	return g, nil
}

func responseFormat(r *http.Request) (io.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return io.ParseFormat(q)
	}
	if strings.Contains(r.Header.Get("Accept"), "yaml") {
		return io.FormatYAML, nil
	}
	return io.FormatJSON, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	if stderrors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidName,
		errors.ErrCodeInvalidDocument, errors.ErrCodeMissingField, errors.ErrCodeWrongShape:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupportedVersion:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
