package youtube

import "context"

// Resolver adapts package-level ExtractID/FetchMetadata to the
// engine.TrackResolver interface, keeping internal/engine free of any
// import on internal/youtube, since the engine never performs I/O itself.
type Resolver struct {
	// Context is used for outbound HTTP calls issued during Resolve. It
	// defaults to context.Background if left nil.
	Context context.Context
}

func NewResolver() *Resolver {
	return &Resolver{Context: context.Background()}
}

func (r *Resolver) Resolve(rawURL string) (youtubeID, title, thumbnail string, duration int, ok bool) {
	id, ok := ExtractID(rawURL)
	if !ok {
		return "", "", "", 0, false
	}

	ctx := r.Context
	if ctx == nil {
		ctx = context.Background()
	}

	meta := FetchMetadata(ctx, id)
	return meta.YoutubeID, meta.Title, meta.Thumbnail, meta.Duration, true
}
