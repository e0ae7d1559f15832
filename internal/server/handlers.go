package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/inkwell-go/rtfstream"
	"github.com/inkwell-go/rtfstream/internal/cache"
	"github.com/inkwell-go/rtfstream/internal/store"
)

// handleParse parses the raw RTF body synchronously and returns the
// resolved paragraphs, fields and images as JSON. Identical bodies are
// served from the dedupe cache when one is configured.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	reqID := requestID()
	key := cache.HashKey(body)

	if s.cache != nil {
		if cached, err := s.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	collector := newCollectingCallbacks()
	p, err := rtfstream.New(collector.callbacks())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	p.OpenString(string(body))
	if err := p.Parse(); err != nil {
		s.log.Errorw("parse failed", "request_id", reqID, "error", err)
		http.Error(w, "malformed RTF input: "+err.Error(), http.StatusBadRequest)
		return
	}

	result := collector.finish()

	encoded, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "encoding result", http.StatusInternalServerError)
		return
	}

	if s.cache != nil {
		_ = s.cache.Set(r.Context(), key, string(encoded))
	}

	if s.store != nil {
		_ = s.store.RecordParse(r.Context(), store.ParseRecord{
			ID:          reqID,
			DocID:       reqID,
			ContentHash: key,
			Paragraphs:  len(result.Paragraphs),
			CreatedAt:   time.Now(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(encoded)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream upgrades to a WebSocket and re-runs the parser against the
// first message it receives (text or binary), forwarding one JSON Event per callback
// in document order.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	_, doc, err := conn.ReadMessage()
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan Event, 64)
	go func() {
		streamer := newStreamingCallbacks(events)
		p, err := rtfstream.New(streamer.callbacks())
		if err == nil {
			p.OpenString(string(doc))
			_ = p.Parse()
		}
		close(events)
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
