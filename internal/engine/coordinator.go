package engine

import (
	"errors"
	"log/slog"
	"sync"
)

// connection is the coordinator's record of one joined participant,
// kept in plain in-memory maps since persistence across restarts is out
// of scope.
type connection struct {
	session Session
	roomID  string
}

// Coordinator is the top-level engine object. It owns the set
// of rooms and the two reverse-lookup indices; it is the only object that
// spans more than one room, so the coordinator lock is always
// acquired before any room lock, never after.
type Coordinator struct {
	mu sync.RWMutex

	rooms         map[string]*Room
	connections   map[string]*connection // userID -> connection
	sessionToUser map[Session]string     // session -> userID

	clock        Clock
	idGen        IDGenerator
	hub          *Hub
	logger       *slog.Logger
	roomsCap     int     // 0 = unbounded
	crossfadeMax float64 // 0 = use engine default
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithRoomsLimit caps the number of concurrently open rooms. 0 disables the
// cap.
func WithRoomsLimit(n int) Option {
	return func(c *Coordinator) { c.roomsCap = n }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithCrossfadeMax overrides the per-room crossfade duration ceiling
// (fixed at 8 by default, but kept configurable like other collection/limit
// constants as flags is carried as a supplemented setting).
func WithCrossfadeMax(seconds float64) Option {
	return func(c *Coordinator) { c.crossfadeMax = seconds }
}

func NewCoordinator(clock Clock, idGen IDGenerator, opts ...Option) *Coordinator {
	c := &Coordinator{
		rooms:         make(map[string]*Room),
		connections:   make(map[string]*connection),
		sessionToUser: make(map[Session]string),
		clock:         clock,
		idGen:         idGen,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.hub = NewHub(c.logger)
	return c
}

var ErrRoomsLimitReached = errors.New("rooms limit reached")

// CreateRoom generates a fresh room id, registers an empty room, and
// returns (id, name).
func (c *Coordinator) CreateRoom(name string) (id string, roomName string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.roomsCap > 0 && len(c.rooms) >= c.roomsCap {
		return "", "", ErrRoomsLimitReached
	}

	id = c.idGen.GenerateRandomString(roomIDLength)
	for c.rooms[id] != nil {
		id = c.idGen.GenerateRandomString(roomIDLength)
	}

	room := NewRoom(id, name, c.clock, c.idGen, c.crossfadeMax)
	c.rooms[id] = room

	c.logger.Info("room created", "room_id", id)

	return id, room.name, nil
}

// RoomSummary is the read-only room summary for GET /api/rooms/:id.
type RoomSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserCount int    `json:"userCount"`
}

// GetRoom returns a read-only summary, or ok=false if the room is absent.
func (c *Coordinator) GetRoom(roomID string) (RoomSummary, bool) {
	c.mu.RLock()
	room, ok := c.rooms[roomID]
	c.mu.RUnlock()
	if !ok {
		return RoomSummary{}, false
	}

	return RoomSummary{ID: room.ID(), Name: room.name, UserCount: room.UserCount()}, true
}

// recipientsFor builds the current Hub.Recipient list for a room's
// membership, resolved against the coordinator's connection index. Must be
// called without holding c.mu (it acquires RLock itself).
func (c *Coordinator) recipientsFor(userIDs []string) []Recipient {
	c.mu.RLock()
	defer c.mu.RUnlock()

	recipients := make([]Recipient, 0, len(userIDs))
	for _, uid := range userIDs {
		if conn, ok := c.connections[uid]; ok {
			recipients = append(recipients, Recipient{UserID: uid, Session: conn.session})
		}
	}
	return recipients
}

// deliver dispatches a room's OutboundMessages, resolving broadcast targets
// against the room's current membership. Any delivery failure evicts the
// affected user via Leave, which is safe to call re-entrantly (Leave is a
// no-op for an already-departed user and roomID is captured up front).
func (c *Coordinator) deliver(roomID string, userIDs []string, msgs []OutboundMessage) {
	recipients := c.recipientsFor(userIDs)
	for _, m := range msgs {
		c.hub.Broadcast(recipients, m, m.Exclude, func(userID string) {
			c.Leave(userID)
		})
	}
}

// Join handles an inbound "join" message.
func (c *Coordinator) Join(session Session, roomID, userName string) {
	c.mu.RLock()
	room, ok := c.rooms[roomID]
	c.mu.RUnlock()

	if !ok {
		c.hub.SendTo("", session, msg(TypeRoomError, roomErrorPayload{Message: "Room not found"}), nil)
		return
	}

	userID := c.idGen.GenerateRandomString(userIDLength)

	c.mu.Lock()
	for c.connections[userID] != nil {
		userID = c.idGen.GenerateRandomString(userIDLength)
	}
	c.connections[userID] = &connection{session: session, roomID: roomID}
	c.sessionToUser[session] = userID
	c.mu.Unlock()

	_, joinMsgs := room.Join(userID, userName)

	c.hub.SendTo(userID, session, msg(TypeRoomState, roomStatePayload{
		Room:   room.Snapshot(),
		UserID: userID,
	}), nil)

	c.deliver(roomID, room.UserIDs(), joinMsgs)

	c.logger.Info("user joined", "room_id", roomID, "user_id", userID)
}

// Leave handles disconnection (explicit or triggered by session failure)
// for userID.
func (c *Coordinator) Leave(userID string) {
	c.mu.Lock()
	conn, ok := c.connections[userID]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.connections, userID)
	delete(c.sessionToUser, conn.session)
	c.mu.Unlock()

	c.mu.RLock()
	room, ok := c.rooms[conn.roomID]
	c.mu.RUnlock()
	if !ok {
		return
	}

	roomEmpty, msgs := room.Leave(userID)
	if roomEmpty {
		c.mu.Lock()
		delete(c.rooms, conn.roomID)
		c.mu.Unlock()
		c.logger.Info("room deleted", "room_id", conn.roomID)
		return
	}

	c.deliver(conn.roomID, room.UserIDs(), msgs)
	c.logger.Info("user left", "room_id", conn.roomID, "user_id", userID)
}

// Disconnect treats session as a leave for whatever user is bound to it. A
// session with no bound user is discarded silently.
func (c *Coordinator) Disconnect(session Session) {
	c.mu.RLock()
	userID, ok := c.sessionToUser[session]
	c.mu.RUnlock()
	if !ok {
		return
	}
	c.Leave(userID)
}

// resolve returns the room and userID bound to session, or ok=false if the
// session has not completed join yet.
func (c *Coordinator) resolve(session Session) (room *Room, userID string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	uid, ok := c.sessionToUser[session]
	if !ok {
		return nil, "", false
	}
	conn := c.connections[uid]
	r, ok := c.rooms[conn.roomID]
	if !ok {
		return nil, "", false
	}
	return r, uid, true
}
