package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/config"
	planerrors "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/errors"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/pipeline"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/render/floor"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 5 * time.Second
	requestTimeout  = 30 * time.Second
)

// serveCommand creates the serve command, exposing the generator over HTTP.
//
// Endpoints:
//   - POST /v1/floorplans          generate one plan (JSON body, JSON or SVG out)
//   - POST /v1/floorplans/variants generate one plan per strategy
//   - GET  /healthz                liveness probe
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	s := &server{cli: c, validate: validator.New()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/v1/floorplans", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Post("/variants", s.handleVariants)
	})

	srv := &http.Server{Addr: addr, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// server holds per-listener state for the HTTP handlers.
type server struct {
	cli      *CLI
	validate *validator.Validate
}

// decodeRequest reads a plan request body, validates it, and maps it onto
// pipeline options. The request body shares the plan file structure, just
// encoded as JSON instead of TOML.
func (s *server) decodeRequest(r *http.Request) (pipeline.Options, error) {
	var f config.File
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		return pipeline.Options{}, planerrors.Wrap(planerrors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if err := s.validate.Struct(&f); err != nil {
		return pipeline.Options{}, planerrors.Wrap(planerrors.ErrCodeInvalidConfig, err, "invalid plan request")
	}
	opts, err := f.Options()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Logger = s.cli.Logger
	return opts, nil
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := pipeline.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(floor.RenderSVG(result, floor.WithPalette(floor.NewPalette(opts.Colors))))
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) handleVariants(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	variants, err := pipeline.GenerateVariants(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, variants)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	code := planerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case planerrors.ErrCodeInvalidInput, planerrors.ErrCodeInvalidMix,
		planerrors.ErrCodeInvalidFootprint, planerrors.ErrCodeInvalidGeometry,
		planerrors.ErrCodeInvalidEgress, planerrors.ErrCodeInvalidFormat,
		planerrors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case planerrors.ErrCodeInfeasible:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.cli.Logger.Errorf("request failed: %v", err)
	}
	s.writeJSON(w, status, errorResponse{Code: string(code), Message: planerrors.UserMessage(err)})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.cli.Logger.Errorf("encode response: %v", err)
	}
}
