package engine

import "log/slog"

// Hub fans a message out to every session of a room, with an optional
// excluded recipient for broadcasts the sender shouldn't receive back.
type Hub struct {
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger}
}

// Recipient pairs a user id with the session used to reach it. Callers pass
// a snapshot slice (not a live map) so Broadcast can run evict callbacks
// that mutate the coordinator's indices without racing an in-progress range.
type Recipient struct {
	UserID  string
	Session Session
}

// Broadcast delivers payload once to every recipient whose user id is not
// exclude. A failed delivery does not abort the fan-out; evict is invoked
// for that session's user id so the caller can run leave().
func (h *Hub) Broadcast(recipients []Recipient, payload any, exclude string, evict func(userID string)) {
	for _, r := range recipients {
		if r.UserID == exclude {
			continue
		}
		if err := r.Session.Deliver(payload); err != nil {
			h.logger.Info("delivery failed, evicting session", "user_id", r.UserID, "error", err)
			r.Session.Close()
			if evict != nil {
				evict(r.UserID)
			}
		}
	}
}

// SendTo delivers payload once to a single session, evicting it on failure.
func (h *Hub) SendTo(userID string, sess Session, payload any, evict func(userID string)) {
	if err := sess.Deliver(payload); err != nil {
		h.logger.Info("delivery failed, evicting session", "user_id", userID, "error", err)
		sess.Close()
		if evict != nil {
			evict(userID)
		}
	}
}
