package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	name     string
	received []OutboundMessage
	closed   bool
	failNext bool
}

func newFakeSession(name string) *fakeSession {
	return &fakeSession{name: name}
}

func (s *fakeSession) Deliver(payload any) error {
	if s.failNext {
		return errClosed
	}
	m, ok := payload.(OutboundMessage)
	if !ok {
		m = OutboundMessage{Payload: payload}
	}
	s.received = append(s.received, m)
	return nil
}

func (s *fakeSession) Close() { s.closed = true }

type errSessionClosed struct{}

func (errSessionClosed) Error() string { return "closed" }

var errClosed = errSessionClosed{}

func (s *fakeSession) typesReceived() []string {
	out := make([]string, len(s.received))
	for i, m := range s.received {
		out[i] = m.Type
	}
	return out
}

type stubResolver struct {
	youtubeID, title, thumbnail string
	duration                    int
	ok                          bool
}

func (r stubResolver) Resolve(url string) (string, string, string, int, bool) {
	return r.youtubeID, r.title, r.thumbnail, r.duration, r.ok
}

func newTestCoordinator(clock Clock) *Coordinator {
	return NewCoordinator(clock, &seqIDGen{})
}

func TestJoinUnknownRoomSendsRoomError(t *testing.T) {
	c := newTestCoordinator(NewFakeClock(0))
	sess := newFakeSession("s1")

	c.Join(sess, "missing", "Alice")

	require.Len(t, sess.received, 1)
	assert.Equal(t, TypeRoomError, sess.received[0].Type)
	payload := sess.received[0].Payload.(roomErrorPayload)
	assert.Equal(t, "Room not found", payload.Message)
}

// The first track added to a room auto-plays.
func TestScenarioFirstTrackAutoPlays(t *testing.T) {
	clock := NewFakeClock(1000)
	c := newTestCoordinator(clock)
	id, _, err := c.CreateRoom("")
	require.NoError(t, err)

	u1 := newFakeSession("u1")
	c.Join(u1, id, "U1")
	u1.received = nil // drop room:state noise for this assertion

	resolver := stubResolver{youtubeID: "dQw4w9WgXcQ", title: "t", thumbnail: "th", ok: true}
	c.HandleMessage(u1, InboundMessage{Type: InQueueAdd, URL: "https://youtu.be/dQw4w9WgXcQ"}, resolver)

	assert.Equal(t, []string{TypeQueueUpdated, TypePlaybackSync}, u1.typesReceived())
	sync := u1.received[1].Payload.(playbackSyncPayload)
	assert.Equal(t, StatePlaying, sync.State)
	assert.Equal(t, 0, sync.CurrentIndex)
}

// A second joiner sees the live playback position, and does not
// receive its own user:joined broadcast.
func TestScenarioSecondJoinerSeesLivePosition(t *testing.T) {
	clock := NewFakeClock(0)
	c := newTestCoordinator(clock)
	id, _, _ := c.CreateRoom("")

	u1 := newFakeSession("u1")
	c.Join(u1, id, "U1")
	resolver := stubResolver{youtubeID: "vid1", ok: true}
	c.HandleMessage(u1, InboundMessage{Type: InQueueAdd, URL: "x"}, resolver)
	u1.received = nil

	clock.Advance(10 * time.Second)

	u2 := newFakeSession("u2")
	c.Join(u2, id, "U2")

	require.Len(t, u2.received, 1, "joiner must only receive room:state")
	assert.Equal(t, TypeRoomState, u2.received[0].Type)
	state := u2.received[0].Payload.(roomStatePayload)
	assert.InDelta(t, 10.0, state.Room.Elapsed, 0.001)
	assert.Equal(t, StatePlaying, state.Room.PlaybackState)

	require.Len(t, u1.received, 1, "existing member must see user:joined")
	assert.Equal(t, TypeUserJoined, u1.received[0].Type)
}

// A non-owner, non-host remove is a no-op with no broadcast at all.
func TestScenarioNonOwnerNonHostRemoveIsNoop(t *testing.T) {
	clock := NewFakeClock(0)
	c := newTestCoordinator(clock)
	id, _, _ := c.CreateRoom("")

	u1 := newFakeSession("u1")
	c.Join(u1, id, "U1")
	resolver := stubResolver{youtubeID: "vid1", ok: true}
	c.HandleMessage(u1, InboundMessage{Type: InQueueAdd, URL: "x"}, resolver)

	u2 := newFakeSession("u2")
	c.Join(u2, id, "U2")

	summary, ok := c.GetRoom(id)
	require.True(t, ok)
	assert.Equal(t, 2, summary.UserCount)

	room, _, ok := c.resolve(u1)
	require.True(t, ok)
	trackID := room.Snapshot().Queue[0].ID

	u1.received = nil
	u2.received = nil

	c.HandleMessage(u2, InboundMessage{Type: InQueueRemove, TrackID: trackID}, resolver)

	assert.Empty(t, u1.received)
	assert.Empty(t, u2.received)
}

// Host migration on disconnect.
func TestScenarioHostMigrationOnDisconnect(t *testing.T) {
	c := newTestCoordinator(NewFakeClock(0))
	id, _, _ := c.CreateRoom("")

	u1 := newFakeSession("u1")
	c.Join(u1, id, "U1")
	u2 := newFakeSession("u2")
	c.Join(u2, id, "U2")
	u3 := newFakeSession("u3")
	c.Join(u3, id, "U3")

	room, _, ok := c.resolve(u1)
	require.True(t, ok)
	firstHost := room.HostID()
	require.NotEmpty(t, firstHost)

	c.Disconnect(u1)

	assert.NotEqual(t, firstHost, room.HostID())

	u4 := newFakeSession("u4")
	c.Join(u4, id, "U4")
	state := u4.received[0].Payload.(roomStatePayload)
	assert.Equal(t, room.HostID(), state.Room.HostID)
}

func TestQueueAddInvalidURLSendsRoomErrorOnlyToSender(t *testing.T) {
	c := newTestCoordinator(NewFakeClock(0))
	id, _, _ := c.CreateRoom("")

	u1 := newFakeSession("u1")
	c.Join(u1, id, "U1")
	u2 := newFakeSession("u2")
	c.Join(u2, id, "U2")
	u1.received = nil
	u2.received = nil

	c.HandleMessage(u1, InboundMessage{Type: InQueueAdd, URL: "not a url"}, stubResolver{ok: false})

	require.Len(t, u1.received, 1)
	assert.Equal(t, TypeRoomError, u1.received[0].Type)
	assert.Empty(t, u2.received)
}

func TestMessageBeforeJoinIsSilentlyDropped(t *testing.T) {
	c := newTestCoordinator(NewFakeClock(0))
	sess := newFakeSession("s1")

	c.HandleMessage(sess, InboundMessage{Type: InChatMessage, Text: "hi"}, stubResolver{})

	assert.Empty(t, sess.received)
}

func TestRoomsLimitReached(t *testing.T) {
	c := NewCoordinator(NewFakeClock(0), &seqIDGen{}, WithRoomsLimit(1))

	_, _, err := c.CreateRoom("")
	require.NoError(t, err)

	_, _, err = c.CreateRoom("")
	assert.ErrorIs(t, err, ErrRoomsLimitReached)
}

func TestLeaveEmptiesAndDeletesRoom(t *testing.T) {
	c := newTestCoordinator(NewFakeClock(0))
	id, _, _ := c.CreateRoom("")

	u1 := newFakeSession("u1")
	c.Join(u1, id, "U1")
	c.Disconnect(u1)

	_, ok := c.GetRoom(id)
	assert.False(t, ok)
}
