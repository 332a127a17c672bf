package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	httpadapter "blockvote/contexts/governance/voting-ledger/adapters/http"
	eventsv1 "blockvote/contracts/events/v1"
	"blockvote/internal/platform/messaging"

	"github.com/gorilla/websocket"
)

const (
	streamReplayPage  = 500
	streamWriteWait   = 10 * time.Second
	streamPingPeriod  = 30 * time.Second
	streamPollPeriod  = 2 * time.Second
	streamLiveBacklog = 256
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	after, limit, ok := parseEventCursor(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.EventsHandler(r.Context(), after, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEventStream replays the event log after the requested sequence, then
// forwards live events from the bus. A gap in live sequences is filled from
// the log so clients always see a contiguous stream. The log is also polled
// so the stream keeps up when the relay runs in another process.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusServiceUnavailable, "stream_unavailable", "event stream is not enabled")
		return
	}
	after, _, ok := parseEventCursor(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	live := make(chan eventsv1.Envelope, streamLiveBacklog)
	if err := s.events.Subscribe(ctx, messaging.AllTopics, "event-stream", func(ctx context.Context, event eventsv1.Envelope) error {
		select {
		case live <- event:
		default:
		}
		return nil
	}); err != nil {
		return
	}

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Info("event stream opened",
		"event", "http_event_stream_opened",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"after_sequence", after,
	)
	last, err := s.replayEvents(ctx, conn, after)
	if err != nil {
		return
	}

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()
	poll := time.NewTicker(streamPollPeriod)
	defer poll.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			if last, err = s.replayEvents(ctx, conn, last); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case event := <-live:
			if event.Sequence <= last {
				continue
			}
			if event.Sequence > last+1 {
				if last, err = s.replayEvents(ctx, conn, last); err != nil {
					return
				}
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(httpadapter.MapEvent(event)); err != nil {
				return
			}
			last = event.Sequence
		}
	}
}

func (s *Server) replayEvents(ctx context.Context, conn *websocket.Conn, after uint64) (uint64, error) {
	last := after
	for {
		page, err := s.ledger.Handler.EventsHandler(ctx, last, streamReplayPage)
		if err != nil {
			return last, err
		}
		for _, item := range page.Items {
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(item); err != nil {
				return last, err
			}
			last = item.Sequence
		}
		if len(page.Items) < streamReplayPage {
			return last, nil
		}
	}
}

func parseEventCursor(w http.ResponseWriter, r *http.Request) (uint64, int, bool) {
	query := r.URL.Query()
	var after uint64
	if raw := strings.TrimSpace(query.Get("after")); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_after", "after must be a non-negative integer")
			return 0, 0, false
		}
		after = value
	}
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return 0, 0, false
		}
		limit = value
	}
	return after, limit, true
}
