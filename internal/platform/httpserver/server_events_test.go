package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ledgerhttp "blockvote/contexts/governance/voting-ledger/transport/http"
	eventsv1 "blockvote/contracts/events/v1"

	"github.com/gorilla/websocket"
)

func TestListEventsPagesBySequence(t *testing.T) {
	server := newTestServer(t)
	expectStatus(t, server.do(t, http.MethodPost, "/v1/ledger/voters/batch",
		`{"addresses":["alice","bob"],"amount":"10"}`, testAdmin), http.StatusCreated)

	first := server.do(t, http.MethodGet, "/v1/events?after=0&limit=2", "", "")
	expectStatus(t, first, http.StatusOK)
	page := decode[ledgerhttp.EventListResponse](t, first)
	if len(page.Items) != 2 || page.Items[0].Sequence != 1 || page.Items[1].Sequence != 2 {
		t.Fatalf("unexpected first page: %+v", page)
	}
	if page.Items[0].EventType != eventsv1.EventLedgerInitialized {
		t.Fatalf("expected initialization event first, got %s", page.Items[0].EventType)
	}

	rest := decode[ledgerhttp.EventListResponse](t, server.do(t, http.MethodGet, "/v1/events?after=2", "", ""))
	if len(rest.Items) != 1 || rest.Items[0].Sequence != 3 || rest.NextSequence != 3 {
		t.Fatalf("unexpected second page: %+v", rest)
	}
	if rest.Items[0].EventType != eventsv1.EventLedgerVoterRegistered || rest.Items[0].PartitionKey != "bob" {
		t.Fatalf("unexpected registration event: %+v", rest.Items[0])
	}

	expectStatus(t, server.do(t, http.MethodGet, "/v1/events?after=-1", "", ""), http.StatusBadRequest)
}

func TestEventStreamReplaysThenForwardsLiveEvents(t *testing.T) {
	server := newTestServer(t)
	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/v1/events/stream?after=0"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial stream: %v", err)
	}
	defer conn.Close()

	replayed := readStreamEvent(t, conn)
	if replayed.Sequence != 1 || replayed.EventType != eventsv1.EventLedgerInitialized {
		t.Fatalf("unexpected replayed event: %+v", replayed)
	}

	expectStatus(t, server.do(t, http.MethodPost, "/v1/ledger/voters",
		`{"address":"alice","amount":"10"}`, testAdmin), http.StatusCreated)
	relay := server.module.OutboxRelay(server.bus, 10)
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay outbox: %v", err)
	}

	live := readStreamEvent(t, conn)
	if live.Sequence != 2 || live.EventType != eventsv1.EventLedgerVoterRegistered {
		t.Fatalf("unexpected live event: %+v", live)
	}
}

func TestEventStreamUnavailableWithoutBus(t *testing.T) {
	server := newTestServer(t)
	server.events = nil
	rr := server.do(t, http.MethodGet, "/v1/events/stream", "", "")
	expectStatus(t, rr, http.StatusServiceUnavailable)
}

func readStreamEvent(t *testing.T, conn *websocket.Conn) ledgerhttp.EventResponse {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	var event ledgerhttp.EventResponse
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read stream event: %v", err)
	}
	return event
}
