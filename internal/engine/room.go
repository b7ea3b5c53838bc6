package engine

import (
	"math"
	"strings"
	"sync"
)

const (
	maxRoomNameLen      = 64
	maxUserNameLen      = 24
	maxChatLen          = 500
	crossfadeMin        = 0.0
	defaultCrossfadeMax = 8.0
)

// Room owns all mutable state for one listening session.
// All fields are private; every mutation goes through a method that holds
// mu for its duration, matching the "single-writer discipline per room"
// requirement of the single-writer discipline the coordinator enforces.
type Room struct {
	mu sync.Mutex

	id        string
	name      string
	createdAt int64
	hostID    string

	queue        []Track
	currentIndex int

	playbackState PlaybackState
	startedAt     int64
	elapsed       float64

	userOrder []string
	users     map[string]User

	skipVotes map[string]struct{}

	crossfadeDuration float64
	crossfadeMax      float64

	clock Clock
	idGen IDGenerator
}

// NewRoom constructs an empty room. name is trimmed/truncated and defaults
// to "Room "+id when blank.
// crossfadeMax caps SetCrossfade; pass <= 0 to use the default of 8 seconds.
func NewRoom(id, name string, clock Clock, idGen IDGenerator, crossfadeMax float64) *Room {
	name = trimTruncate(name, maxRoomNameLen)
	if name == "" {
		name = "Room " + id
	}
	if crossfadeMax <= 0 {
		crossfadeMax = defaultCrossfadeMax
	}

	return &Room{
		id:                id,
		name:              name,
		createdAt:         clock.NowMs(),
		currentIndex:      -1,
		playbackState:     StatePaused,
		userOrder:         make([]string, 0),
		users:             make(map[string]User),
		skipVotes:         make(map[string]struct{}),
		crossfadeDuration: 0,
		crossfadeMax:      crossfadeMax,
		clock:             clock,
		idGen:             idGen,
	}
}

func trimTruncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		s = s[:max]
	}
	return s
}

// ID returns the room's immutable id.
func (r *Room) ID() string {
	return r.id
}

// UserIDs returns a snapshot of the current membership in insertion order.
func (r *Room) UserIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.userOrder))
	copy(out, r.userOrder)
	return out
}

// UserCount returns the number of current participants.
func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.userOrder)
}

// Snapshot returns the wire-serializable room state, computing elapsed at
// call time.
func (r *Room) Snapshot() SerializedRoom {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() SerializedRoom {
	users := make([]User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		users = append(users, r.users[id])
	}

	queue := make([]Track, len(r.queue))
	copy(queue, r.queue)

	return SerializedRoom{
		ID:                r.id,
		Name:              r.name,
		HostID:            r.hostID,
		Queue:             queue,
		CurrentIndex:      r.currentIndex,
		PlaybackState:     r.playbackState,
		Elapsed:           r.elapsedLocked(),
		StartedAt:         r.startedAt,
		Users:             users,
		SkipVotes:         len(r.skipVotes),
		SkipNeeded:        skipNeeded(len(r.userOrder)),
		CrossfadeDuration: r.crossfadeDuration,
	}
}

func (r *Room) elapsedLocked() float64 {
	if r.playbackState == StatePlaying {
		return float64(r.clock.NowMs()-r.startedAt) / 1000
	}
	return r.elapsed
}

func skipNeeded(userCount int) int {
	return int(math.Ceil(float64(userCount) / 2))
}

// ---- Membership ----

// Join adds a new user to the room and returns it along with the
// user:joined broadcast (excluding the joiner itself, since room:state is
// delivered to the joiner separately by the coordinator, before this
// broadcast reaches everyone else).
func (r *Room) Join(userID, name string) (User, []OutboundMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = trimTruncate(name, maxUserNameLen)
	if name == "" {
		name = "Anonymous"
	}

	user := User{
		ID:    userID,
		Name:  name,
		Color: colorForIndex(len(r.userOrder)),
	}

	if len(r.userOrder) == 0 {
		r.hostID = userID
	}

	r.userOrder = append(r.userOrder, userID)
	r.users[userID] = user

	return user, []OutboundMessage{
		msgExcluding(TypeUserJoined, userJoinedPayload{User: user}, userID),
	}
}

// Leave removes userID from the room, migrating the host if needed, and
// returns whether the room is now empty (the coordinator deletes it in
// that case) plus the user:left broadcast.
func (r *Room) Leave(userID string) (roomEmpty bool, msgs []OutboundMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return len(r.userOrder) == 0, nil
	}

	delete(r.users, userID)
	delete(r.skipVotes, userID)
	for i, id := range r.userOrder {
		if id == userID {
			r.userOrder = append(r.userOrder[:i], r.userOrder[i+1:]...)
			break
		}
	}

	msgs = []OutboundMessage{msg(TypeUserLeft, userLeftPayload{UserID: userID})}

	if r.hostID == userID {
		if len(r.userOrder) > 0 {
			r.hostID = r.userOrder[0]
		} else {
			r.hostID = ""
		}
	}

	return len(r.userOrder) == 0, msgs
}

// HostID returns the current privileged participant, or "" if the room is
// empty.
func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// ---- Playback clock ----

func (r *Room) buildSync() OutboundMessage {
	var yid *string
	if r.currentIndex >= 0 && r.currentIndex < len(r.queue) {
		v := r.queue[r.currentIndex].YoutubeID
		yid = &v
	}

	return msg(TypePlaybackSync, playbackSyncPayload{
		State:        r.playbackState,
		CurrentIndex: r.currentIndex,
		Elapsed:      r.elapsedLocked(),
		Timestamp:    r.clock.NowMs(),
		YoutubeID:    yid,
	})
}

// Play transitions paused->playing. No-op (no message) if already playing
// or nothing is queued.
func (r *Room) Play() []OutboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIndex < 0 || r.playbackState != StatePaused {
		return nil
	}

	now := r.clock.NowMs()
	r.startedAt = now - int64(r.elapsed*1000)
	r.playbackState = StatePlaying

	return []OutboundMessage{r.buildSync()}
}

// Pause transitions playing->paused. No-op if already paused or nothing is
// queued.
func (r *Room) Pause() []OutboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.playbackState != StatePlaying {
		return nil
	}

	now := r.clock.NowMs()
	r.elapsed = float64(now-r.startedAt) / 1000
	r.playbackState = StatePaused

	return []OutboundMessage{r.buildSync()}
}

// Seek repositions the current track. t is clamped to >= 0.
func (r *Room) Seek(t float64) []OutboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIndex < 0 {
		return nil
	}

	if t < 0 {
		t = 0
	}

	now := r.clock.NowMs()
	if r.playbackState == StatePlaying {
		r.startedAt = now - int64(t*1000)
	} else {
		r.elapsed = t
	}

	return []OutboundMessage{r.buildSync()}
}

// startTrackLocked restarts playback of the track at currentIndex from 0,
// clearing skip votes. It does not change currentIndex; callers set it
// first. Caller must hold mu.
func (r *Room) startTrackLocked() {
	now := r.clock.NowMs()
	r.elapsed = 0
	r.startedAt = now
	r.playbackState = StatePlaying
	r.skipVotes = make(map[string]struct{})
}

// stopAllLocked clears playback to the idle state. Caller must hold mu.
func (r *Room) stopAllLocked() {
	r.currentIndex = -1
	r.playbackState = StatePaused
	r.elapsed = 0
	r.skipVotes = make(map[string]struct{})
}

// ---- Queue & skip ----

// AddTrack appends a track to the queue on behalf of userID, auto-starting
// playback if the queue was empty, and returns the queue:updated +
// playback:sync broadcasts.
func (r *Room) AddTrack(userID, userName, youtubeID, title, thumbnail string, duration int) (Track, []OutboundMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	track := Track{
		ID:          r.idGen.GenerateRandomString(trackIDLength),
		YoutubeID:   youtubeID,
		Title:       title,
		Thumbnail:   thumbnail,
		Duration:    duration,
		AddedBy:     userID,
		AddedByName: userName,
	}

	r.queue = append(r.queue, track)

	if r.currentIndex == -1 {
		r.currentIndex = 0
		r.startTrackLocked()
	}

	return track, []OutboundMessage{
		msg(TypeQueueUpdated, r.queueUpdatedPayloadLocked()),
		r.buildSync(),
	}
}

func (r *Room) queueUpdatedPayloadLocked() queueUpdatedPayload {
	queue := make([]Track, len(r.queue))
	copy(queue, r.queue)
	return queueUpdatedPayload{Queue: queue, CurrentIndex: r.currentIndex}
}

// RemoveTrack removes trackID from the queue if userID is the host or the
// track's owner, fixing up currentIndex to stay valid afterward.
// Silent no-op (nil messages) on permission denial or missing track.
func (r *Room) RemoveTrack(userID, trackID string) []OutboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := -1
	for idx, t := range r.queue {
		if t.ID == trackID {
			i = idx
			break
		}
	}
	if i == -1 {
		return nil
	}

	track := r.queue[i]
	if userID != r.hostID && userID != track.AddedBy {
		return nil
	}

	r.queue = append(r.queue[:i], r.queue[i+1:]...)

	switch {
	case i < r.currentIndex:
		r.currentIndex--
	case i == r.currentIndex:
		if len(r.queue) == 0 {
			r.stopAllLocked()
		} else if r.currentIndex >= len(r.queue) {
			r.currentIndex = len(r.queue) - 1
			r.startTrackLocked()
		} else {
			r.startTrackLocked()
		}
	default:
		// i > currentIndex: no index change, no clock change.
	}

	return []OutboundMessage{
		msg(TypeQueueUpdated, r.queueUpdatedPayloadLocked()),
		r.buildSync(),
	}
}

// SkipVote registers userID's vote to skip the current track and advances
// the queue once a majority is reached. No-op if nothing is playing.
func (r *Room) SkipVote(userID string) []OutboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIndex == -1 {
		return nil
	}

	r.skipVotes[userID] = struct{}{}

	needed := skipNeeded(len(r.userOrder))
	current := len(r.skipVotes)

	msgs := []OutboundMessage{
		msg(TypeSkipVotes, skipVotesPayload{Current: current, Needed: needed}),
	}

	if current >= needed {
		msgs = append(msgs, r.nextTrackLocked()...)
	}

	return msgs
}

// nextTrackLocked advances (or stops) playback. Caller must hold mu.
func (r *Room) nextTrackLocked() []OutboundMessage {
	r.skipVotes = make(map[string]struct{})

	switch {
	case len(r.queue) == 0:
		r.stopAllLocked()
	case r.currentIndex < len(r.queue)-1:
		r.currentIndex++
		r.startTrackLocked()
	default:
		r.stopAllLocked()
	}

	return []OutboundMessage{
		msg(TypeQueueUpdated, r.queueUpdatedPayloadLocked()),
		r.buildSync(),
	}
}

// ---- Chat & crossfade ----

// Chat trims/truncates text and, if non-empty, returns a chat:message
// broadcast to every participant including the sender.
func (r *Room) Chat(userID, userName, text string) []OutboundMessage {
	text = strings.TrimSpace(text)
	if len(text) > maxChatLen {
		text = text[:maxChatLen]
	}
	if text == "" {
		return nil
	}

	r.mu.Lock()
	now := r.clock.NowMs()
	r.mu.Unlock()

	return []OutboundMessage{
		msg(TypeChatMessage, chatMessagePayload{
			UserID:    userID,
			UserName:  userName,
			Text:      text,
			Timestamp: now,
		}),
	}
}

// SetCrossfade clamps duration to [0, crossfadeMax] (8 unless configured
// otherwise) and stores it, broadcasting the new value. No playback effect server-side.
func (r *Room) SetCrossfade(duration float64) []OutboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if duration < crossfadeMin {
		duration = crossfadeMin
	}
	if duration > r.crossfadeMax {
		duration = r.crossfadeMax
	}

	r.crossfadeDuration = duration

	return []OutboundMessage{
		msg(TypeCrossfadeUpdated, crossfadeUpdatedPayload{Duration: duration}),
	}
}

// UserName returns the display name for userID, or "" if absent. Used by
// the coordinator to snapshot addedByName / chat userName at call sites
// that only carry a user id.
func (r *Room) UserName(userID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return u.Name
	}
	return ""
}
