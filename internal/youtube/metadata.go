package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const fetchTimeout = 8 * time.Second

// oembedEndpoint and httpClient are package vars so tests can point
// FetchMetadata at an httptest.Server instead of the real YouTube endpoint.
var (
	oembedEndpoint = "https://www.youtube.com/oembed"
	httpClient     = http.DefaultClient
)

// Metadata is the resolved track information handed to the engine, which
// never performs I/O itself.
type Metadata struct {
	YoutubeID string
	Title     string
	Thumbnail string
	Duration  int
}

type oembedResponse struct {
	Title string `json:"title"`
}

// FetchMetadata resolves a video id to display metadata via a single call
// to the YouTube oEmbed endpoint, grounded on pkg/ytvideodata's
// getVideoWithEmbed. Title falls back to "Unknown Track" on any error,
// non-2xx response, timeout, or missing field; there is no secondary
// fetch. Duration is unavailable through oEmbed without an API key, so it
// is always reported as 0; players derive the true duration client-side
// once the track is loaded. The thumbnail is always derived directly from
// the id, sidestepping oEmbed's thumbnail field so a failed metadata fetch
// still yields a usable image.
func FetchMetadata(ctx context.Context, videoID string) Metadata {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	title := fetchOEmbedTitle(ctx, videoID)
	if title == "" {
		title = "Unknown Track"
	}

	return Metadata{
		YoutubeID: videoID,
		Title:     title,
		Thumbnail: fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID),
		Duration:  0,
	}
}

func fetchOEmbedTitle(ctx context.Context, videoID string) string {
	watchURL := "https://www.youtube.com/watch?v=" + videoID
	oembedURL := fmt.Sprintf("%s?url=%s&format=json", oembedEndpoint, url.QueryEscape(watchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return ""
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var out oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ""
	}
	return out.Title
}
