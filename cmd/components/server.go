package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/Sternrassler/pipeline-components/pkg/client"
	"github.com/Sternrassler/pipeline-components/pkg/component"
	"github.com/Sternrassler/pipeline-components/pkg/logging"
	"github.com/Sternrassler/pipeline-components/pkg/metrics"
	"github.com/Sternrassler/pipeline-components/pkg/pagination"
)

type server struct {
	registry *component.Registry
	runtime  component.Runtime
	redis    *redis.Client
	logger   zerolog.Logger
}

func newServer(registry *component.Registry, rt component.Runtime, rdb *redis.Client) *server {
	return &server{
		registry: registry,
		runtime:  rt,
		redis:    rdb,
		logger:   logging.NewLogger("server"),
	}
}

// componentInfo is the listing entry of a component.
type componentInfo struct {
	component.Metadata
	Props []propInfo `json:"props"`
}

type propInfo struct {
	component.PropDefinition
	Dynamic bool `json:"dynamicOptions,omitempty"`
}

// stepRequest is the body of run and options requests.
type stepRequest struct {
	Props map[string]any `json:"props"`
	Auth  map[string]any `json:"auth"`
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /components", s.handleList)
	mux.HandleFunc("POST /components/{key}/run", s.handleRun)
	mux.HandleFunc("POST /components/{key}/props/{prop}/options", s.handleOptions)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", addr).
			Str("user_agent", s.runtime.UserAgent).
			Bool("cache", s.redis != nil).
			Msg("Starting components server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down components server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("Redis not ready")
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	infos := lo.Map(s.registry.List(), func(meta component.Metadata, _ int) componentInfo {
		c, _ := s.registry.Get(meta.Key)
		return componentInfo{
			Metadata: meta,
			Props: lo.Map(c.Props(), func(p component.PropDefinition, _ int) propInfo {
				return propInfo{PropDefinition: p, Dynamic: p.HasOptions()}
			}),
		}
	})
	writeJSON(w, http.StatusOK, infos)
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	c, step, ok := s.prepare(w, r)
	if !ok {
		return
	}

	result, err := component.Execute(r.Context(), c, step)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleOptions(w http.ResponseWriter, r *http.Request) {
	c, step, ok := s.prepare(w, r)
	if !ok {
		return
	}

	name := r.PathValue("prop")
	prop, found := component.FindProp(c, name)
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("unknown prop %q", name)))
		return
	}
	if !prop.HasOptions() {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("prop %q has no options", name)))
		return
	}

	options, err := prop.Options(r.Context(), step)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// prepare resolves the component and decodes the step request.
func (s *server) prepare(w http.ResponseWriter, r *http.Request) (component.Component, *component.Step, bool) {
	c, err := s.registry.Get(r.PathValue("key"))
	if err != nil {
		s.writeError(w, err)
		return nil, nil, false
	}

	var req stepRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
			return nil, nil, false
		}
	}

	step := component.NewStep(req.Props, req.Auth)
	step.Runtime = s.runtime
	return c, step, true
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error().Err(err).Int("status", status).Msg("Request failed")
	}
	writeJSON(w, status, errorBody(err.Error()))
}

// statusFor maps run errors to HTTP status codes.
func statusFor(err error) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, component.ErrUnknownComponent):
		return http.StatusNotFound
	case errors.Is(err, component.ErrInvalidProps):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, pagination.ErrBoundExceeded), errors.Is(err, pagination.ErrMalformedPage):
		return http.StatusBadGateway
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
