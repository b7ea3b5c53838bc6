package wsrouter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundroom/server/internal/engine"
)

func TestDecodeJoin(t *testing.T) {
	in, err := Decode([]byte(`{"type":"join","payload":{"roomId":"abc12345","userName":"Alice"}}`))
	require.NoError(t, err)
	assert.Equal(t, engine.InJoin, in.Type)
	assert.Equal(t, "abc12345", in.RoomID)
	assert.Equal(t, "Alice", in.UserName)
}

func TestDecodeQueueAdd(t *testing.T) {
	in, err := Decode([]byte(`{"type":"queue:add","payload":{"url":"https://youtu.be/dQw4w9WgXcQ"}}`))
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", in.URL)
}

func TestDecodePlaybackPlayHasNoPayload(t *testing.T) {
	in, err := Decode([]byte(`{"type":"playback:play"}`))
	require.NoError(t, err)
	assert.Equal(t, engine.InPlaybackPlay, in.Type)
}

func TestDecodeUnknownTypeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"bogus"}`))
	assert.Error(t, err)
}

func TestDecodeMalformedJSONErrors(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeCrossfadeSetWithNumericDuration(t *testing.T) {
	in, err := Decode([]byte(`{"type":"crossfade:set","payload":{"duration":3.5}}`))
	require.NoError(t, err)
	assert.Equal(t, 3.5, in.Duration)
}

// A non-numeric duration must still decode successfully, coerced to 0,
// rather than dropping the whole frame as malformed.
func TestDecodeCrossfadeSetWithNonNumericDurationCoercesToZero(t *testing.T) {
	in, err := Decode([]byte(`{"type":"crossfade:set","payload":{"duration":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, float64(0), in.Duration)
}

func TestDecodeCrossfadeSetWithMissingDurationCoercesToZero(t *testing.T) {
	in, err := Decode([]byte(`{"type":"crossfade:set","payload":{}}`))
	require.NoError(t, err)
	assert.Equal(t, float64(0), in.Duration)
}
