// Package server exposes the orchestrator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-orchestrator/internal/config"
	"github.com/rxtech-lab/argo-orchestrator/internal/exchange"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/trading"
	"github.com/rxtech-lab/argo-orchestrator/internal/version"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
)

const (
	// ClientVersionHeader carries the caller's build version.
	ClientVersionHeader = "X-Argo-Client-Version"
	// APIPrefix is the path prefix of the versioned API.
	APIPrefix = "/api/v1"
	// MaxRequestBytes bounds the body of POST /api/v1/run.
	MaxRequestBytes = 8 << 20
)

// Runner executes one orchestrator request.
type Runner interface {
	Run(ctx context.Context, req trading.Request) trading.Result
}

// Server routes HTTP calls to a Runner.
type Server struct {
	runner     Runner
	env        *config.Env
	logger     *logger.Logger
	version    string
	router     *mux.Router
	httpServer *http.Server
	listener   net.Listener
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithEnv fills missing venue credentials from env.
func WithEnv(env *config.Env) ServerOption {
	return func(s *Server) {
		s.env = env
	}
}

// WithLogger sets the server logger.
func WithLogger(log *logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = log
	}
}

// WithVersion overrides the reported server version.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer builds the router.
func NewServer(runner Runner, opts ...ServerOption) *Server {
	s := &Server{
		runner:     runner,
		env:        nil,
		logger:     logger.NewNopLogger(),
		version:    version.GetVersion(),
		router:     mux.NewRouter(),
		httpServer: nil,
		listener:   nil,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.Named("server")

	s.api(http.MethodPost, "/run", s.handleRun)
	s.api(http.MethodGet, "/providers", s.handleProviders)
	s.api(http.MethodGet, "/providers/{provider}", s.handleProvider)
	s.api(http.MethodGet, "/schema", s.handleSchema)
	s.api(http.MethodGet, "/version", s.handleVersion)

	s.router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	return s
}

// api registers a versioned route behind the client version check.
func (s *Server) api(method, path string, handler http.HandlerFunc) {
	s.router.Handle(APIPrefix+path, s.checkClientVersion(handler)).Methods(method)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on address and serves in the background.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", address)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("server listening", zap.String("address", listener.Addr().String()))

	return nil
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Shutdown stops accepting calls and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) checkClientVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := version.CheckClientCompatibility(s.version, r.Header.Get(ClientVersionHeader)); err != nil {
			s.writeError(w, err)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to read request body", err))

		return
	}

	req, err := config.ParseRequest(body, config.FormatJSON)
	if err != nil {
		s.writeError(w, err)

		return
	}

	req.Exchange = s.env.ApplyCredentials(req.Exchange)

	result := s.runner.Run(r.Context(), req)

	s.logger.Info("request served",
		zap.String("action", string(req.Action)),
		zap.String("symbol", req.Symbol),
		zap.Bool("success", result.Success),
	)

	status := http.StatusOK
	if !result.Success {
		status = StatusForCode(result.ErrorCode)
	}

	writeJSON(w, status, result)
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	names := exchange.SupportedProviders()
	providers := make([]exchange.ProviderInfo, 0, len(names))

	for _, name := range names {
		info, err := exchange.GetProviderInfo(name)
		if err != nil {
			s.writeError(w, err)

			return
		}

		providers = append(providers, info)
	}

	writeJSON(w, http.StatusOK, providers)
}

func (s *Server) handleProvider(w http.ResponseWriter, r *http.Request) {
	info, err := exchange.GetProviderInfo(mux.Vars(r)["provider"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	schema, err := config.RequestSchema()
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, "failed to build schema", err))

		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(schema))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// errorBody is the payload of a failed non-run call.
type errorBody struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	ErrorCode errors.ErrorCode `json:"errorCode"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	s.logger.Warn("request rejected", zap.Int("code", int(code)), zap.Error(err))

	writeJSON(w, StatusForCode(code), errorBody{Success: false, Message: err.Error(), ErrorCode: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusForCode maps an error code to an HTTP status.
func StatusForCode(code errors.ErrorCode) int {
	switch {
	case code == errors.ErrCodeIncompatibleVersion:
		return http.StatusPreconditionFailed
	case code == errors.ErrCodeMissingCredentials:
		return http.StatusUnauthorized
	case code == errors.ErrCodeDataNotFound, code == errors.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeOrderNotCancelable:
		return http.StatusConflict
	case code.IsConfiguration():
		return http.StatusBadRequest
	case code >= 200 && code < 500:
		return http.StatusUnprocessableEntity
	case code >= 500 && code < 600:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
