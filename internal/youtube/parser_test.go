package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Parse-then-format of every supported URL shape yields the same
// 11-char id; any non-matching string yields none.
func TestExtractIDSupportedShapes(t *testing.T) {
	const want = "dQw4w9WgXcQ"

	cases := []string{
		"dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&list=xyz",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ",
	}

	for _, in := range cases {
		id, ok := ExtractID(in)
		assert.True(t, ok, "expected %q to parse", in)
		assert.Equal(t, want, id, "input %q", in)
	}
}

func TestExtractIDRejectsNonMatchingStrings(t *testing.T) {
	cases := []string{
		"",
		"tooshort",
		"waytoolongtobeavalidid",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"not a url at all",
	}

	for _, in := range cases {
		_, ok := ExtractID(in)
		assert.False(t, ok, "expected %q to be rejected", in)
	}
}

func TestExtractIDMissingSchemeDefaultsToHTTPS(t *testing.T) {
	id, ok := ExtractID("www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}
