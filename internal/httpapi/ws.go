package httpapi

import (
	"net/http"

	"github.com/soundroom/server/internal/wsrouter"
)

// handleWS implements WS /ws: a single full-duplex text-message channel per
// participant. The engine never sees the connection, only the
// wsSession adapter and decoded InboundMessage values.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	session := newWSSession(conn)
	defer session.Close()
	defer s.coordinator.Disconnect(session)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		in, err := wsrouter.Decode(raw)
		if err != nil {
			// malformed frame or unknown type: silently dropped.
			continue
		}

		s.coordinator.HandleMessage(session, in, s.resolver)
	}
}
