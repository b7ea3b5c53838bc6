package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soundroom/server/internal/youtube"
)

// envelope is the REST response body: success bodies carry their fields at
// the top level, failure bodies a single "error" field.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

type createRoomRequest struct {
	Name string `json:"name"`
}

// handleCreateRoom implements POST /api/rooms. Missing or invalid JSON is
// tolerated as an empty body; an overlong name is truncated by the room
// itself rather than rejected here, so no struct validation runs on this
// body.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	id, name, err := s.coordinator.CreateRoom(req.Name)
	if err != nil {
		s.logger.InfoContext(r.Context(), "create room rejected", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, envelope{"id": id, "name": name})
}

// handleGetRoom implements GET /api/rooms/:id.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	summary, ok := s.coordinator.GetRoom(roomID)
	if !ok {
		writeJSON(w, http.StatusNotFound, envelope{"error": "Room not found"})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"id":        summary.ID,
		"name":      summary.Name,
		"userCount": summary.UserCount,
	})
}

type resolveYoutubeRequest struct {
	URL string `json:"url" validate:"required"`
}

// handleResolveYoutube implements GET /api/youtube/resolve?url=.
func (s *Server) handleResolveYoutube(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if errs := s.validate.Validate(resolveYoutubeRequest{URL: rawURL}); errs != nil {
		writeJSON(w, http.StatusBadRequest, envelope{"error": "url query param required"})
		return
	}

	id, ok := youtube.ExtractID(rawURL)
	if !ok {
		writeJSON(w, http.StatusBadRequest, envelope{"error": "Invalid YouTube URL"})
		return
	}

	meta := youtube.FetchMetadata(r.Context(), id)

	writeJSON(w, http.StatusOK, envelope{
		"youtubeId": meta.YoutubeID,
		"title":     meta.Title,
		"thumbnail": meta.Thumbnail,
	})
}
