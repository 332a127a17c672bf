package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	votingledger "blockvote/contexts/governance/voting-ledger"
	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
	ledgerhttp "blockvote/contexts/governance/voting-ledger/transport/http"
	"blockvote/internal/platform/messaging"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "blockvote/internal/platform/httpserver/docs"
)

const maxRequestBodyBytes = 1 << 20

// Options configures the server. InsecureHeaderAuth trusts X-User-Id when
// JWTSecret is empty; without it an unset secret rejects every write.
type Options struct {
	Addr               string
	JWTSecret          string
	InsecureHeaderAuth bool
	CORSOrigins        []string
	WriteRateLimit     float64
	WriteBurst         int
	Events             *messaging.Bus
}

type Server struct {
	mux      *http.ServeMux
	handler  http.Handler
	logger   *slog.Logger
	addr     string
	ledger   votingledger.Module
	auth     Authenticator
	limiter  *clientLimiter
	events   *messaging.Bus
	upgrader websocket.Upgrader
}

func New(ledger votingledger.Module, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    opts.Addr,
		ledger:  ledger,
		auth:    newServerAuthenticator(opts),
		limiter: newClientLimiter(opts.WriteRateLimit, opts.WriteBurst),
		events:  opts.Events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(opts.CORSOrigins),
		},
	}
	switch {
	case s.auth.Enabled():
	case opts.InsecureHeaderAuth:
		logger.Warn("jwt secret not configured, trusting X-User-Id header",
			"event", "http_server_insecure_auth",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
	default:
		logger.Error("jwt secret not configured, rejecting all writes",
			"event", "http_server_auth_disabled",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
	}
	s.registerRoutes()
	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id", "X-User-Id"},
		MaxAge:         600,
	}).Handler(s.mux)
	return s
}

func newServerAuthenticator(opts Options) Authenticator {
	auth := NewAuthenticator(opts.JWTSecret)
	if opts.InsecureHeaderAuth {
		auth = auth.WithHeaderIdentity()
	}
	return auth
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	return s.Run(context.Background())
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /v1/ledger", s.handleLedger)
	s.mux.HandleFunc("GET /v1/ledger/accounts/{address}", s.handleAccount)
	s.mux.HandleFunc("GET /v1/ledger/allowances/{owner}/{spender}", s.handleAllowance)
	s.mux.HandleFunc("POST /v1/ledger/voters", s.write(s.handleRegisterVoter))
	s.mux.HandleFunc("POST /v1/ledger/voters/batch", s.write(s.handleBatchRegisterVoters))
	s.mux.HandleFunc("POST /v1/ledger/approvals", s.write(s.handleApprove))
	s.mux.HandleFunc("POST /v1/ledger/transfers", s.write(s.handleTransfer))
	s.mux.HandleFunc("POST /v1/ledger/transfers/from", s.write(s.handleTransferFrom))
	s.mux.HandleFunc("POST /v1/ledger/burns", s.write(s.handleBurn))

	s.mux.HandleFunc("GET /v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/candidates/{candidate_id}", s.handleGetCandidate)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/voters/{address}", s.handleVoterStatus)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/winner", s.handleWinner)
	s.mux.HandleFunc("POST /v1/elections", s.write(s.handleCreateElection))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/candidates", s.write(s.handleAddCandidate))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/start", s.write(s.handleStartElection))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/end", s.write(s.handleEndElection))
	s.mux.HandleFunc("POST /v1/elections/{election_id}/votes", s.write(s.handleCastVote))

	s.mux.HandleFunc("GET /v1/events", s.handleListEvents)
	s.mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
}

type writeHandlerFunc func(w http.ResponseWriter, r *http.Request, actor string)

// write guards mutating routes: bearer principal, request id, then the
// per-principal rate limit.
func (s *Server) write(next writeHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := s.auth.Authenticate(r)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, ErrMissingToken) {
				code = "missing_token"
			}
			writeError(w, http.StatusUnauthorized, code, err.Error())
			return
		}
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			writeError(w, http.StatusBadRequest, "missing_request_id", "X-Request-Id header is required")
			return
		}
		if !s.limiter.Allow(actor) {
			s.logger.Warn("write rate limited",
				"event", "http_write_rate_limited",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"actor", actor,
				"request_id", requestID,
				"path", r.URL.Path,
			)
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many write requests")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		next(w, r, actor)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func pathUint(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(r.PathValue(name)), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return value, true
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var domainErrorMappings = []errorMapping{
	{domainerrors.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{domainerrors.ErrElectionNotFound, http.StatusNotFound, "election_not_found"},
	{domainerrors.ErrCandidateNotFound, http.StatusNotFound, "candidate_not_found"},
	{domainerrors.ErrAlreadyRegistered, http.StatusConflict, "already_registered"},
	{domainerrors.ErrNotRegistered, http.StatusConflict, "not_registered"},
	{domainerrors.ErrInsufficientBalance, http.StatusConflict, "insufficient_balance"},
	{domainerrors.ErrInsufficientAllowance, http.StatusConflict, "insufficient_allowance"},
	{domainerrors.ErrInsufficientTokens, http.StatusConflict, "insufficient_tokens"},
	{domainerrors.ErrElectionNotPending, http.StatusConflict, "election_not_pending"},
	{domainerrors.ErrElectionNotActive, http.StatusConflict, "election_not_active"},
	{domainerrors.ErrElectionNotEnded, http.StatusConflict, "election_not_ended"},
	{domainerrors.ErrInsufficientCandidates, http.StatusConflict, "insufficient_candidates"},
	{domainerrors.ErrAlreadyVoted, http.StatusConflict, "already_voted"},
	{domainerrors.ErrConflict, http.StatusConflict, "conflict"},
	{domainerrors.ErrInvalidWindow, http.StatusBadRequest, "invalid_window"},
	{domainerrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domainerrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{domainerrors.ErrAmountOverflow, http.StatusUnprocessableEntity, "amount_overflow"},
	{domainerrors.ErrAmountUnderflow, http.StatusUnprocessableEntity, "amount_underflow"},
	{domainerrors.ErrLedgerNotInitialized, http.StatusServiceUnavailable, "ledger_not_initialized"},
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, mapping := range domainErrorMappings {
		if errors.Is(err, mapping.err) {
			writeError(w, mapping.status, mapping.code, mapping.err.Error())
			return
		}
	}
	s.logger.Error("request failed",
		"event", "http_request_failed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
