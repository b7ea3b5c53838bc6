// Package youtube resolves a user-submitted URL or bare video id into the
// track metadata carried on the wire, grounded on pkg/ytvideodata.
package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

var bareID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractID pulls an 11-character YouTube video id out of the accepted URL
// shapes a pasted YouTube link can take: a bare id, youtu.be/<id>,
// youtube.com/watch?v=<id>, /embed/<id>, /shorts/<id>, /v/<id>, and
// music.youtube.com/watch?v=<id>. Returns ok=false for anything else.
func ExtractID(raw string) (id string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if bareID.MatchString(raw) {
		return raw, true
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/v/"):
			id = strings.TrimPrefix(u.Path, "/v/")
		}
	default:
		return "", false
	}

	id = strings.SplitN(id, "?", 2)[0]
	id = strings.SplitN(id, "&", 2)[0]

	if !bareID.MatchString(id) {
		return "", false
	}
	return id, true
}
