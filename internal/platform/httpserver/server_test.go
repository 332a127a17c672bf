package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	votingledger "blockvote/contexts/governance/voting-ledger"
	"blockvote/contexts/governance/voting-ledger/domain/entities"
	"blockvote/internal/platform/messaging"
)

const (
	testSecret  = "test-secret"
	testAdmin   = "admin"
	testCustody = "engine"
)

type testServer struct {
	*Server
	module votingledger.Module
	bus    *messaging.Bus
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	return newTestServerWithOptions(t, Options{JWTSecret: testSecret})
}

func newTestServerWithOptions(t *testing.T, opts Options) testServer {
	t.Helper()
	module, err := votingledger.NewInMemoryModule(entities.Genesis{
		Administrator: testAdmin,
		Custody:       testCustody,
		TokensPerVote: entities.NewAmount(10),
		InitialSupply: entities.NewAmount(1000),
	}, slog.Default())
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	bus := messaging.NewBus(16, slog.Default())
	opts.Addr = ":0"
	opts.Events = bus
	return testServer{
		Server: New(module, opts, slog.Default()),
		module: module,
		bus:    bus,
	}
}

func (s testServer) token(t *testing.T, subject string) string {
	t.Helper()
	token, err := s.auth.IssueToken(subject, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// do sends a request through the mux. A non-empty subject gets a bearer
// token and a request id.
func (s testServer) do(t *testing.T, method string, path string, body string, subject string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, subject))
		req.Header.Set("X-Request-Id", "req-"+subject)
	}
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d body=%s", status, rr.Code, rr.Body.String())
	}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(rr.Body.Bytes(), &value); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rr.Body.String())
	}
	return value
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	rr := server.do(t, http.MethodGet, "/healthz", "", "")
	expectStatus(t, rr, http.StatusOK)
}

func TestCORSPreflightAllowsConfiguredOrigin(t *testing.T) {
	server := newTestServerWithOptions(t, Options{
		JWTSecret:   testSecret,
		CORSOrigins: []string{"https://vote.example"},
	})
	req := httptest.NewRequest(http.MethodOptions, "/v1/ledger/voters", nil)
	req.Header.Set("Origin", "https://vote.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Request-Id")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://vote.example" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
