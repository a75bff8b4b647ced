package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"tunestore/internal/app/playlists"
	"tunestore/internal/store"
)

type playlistRequest struct {
	Name string `json:"name"`
	// SongIDs is write-only: responses embed full song details instead.
	// A null/absent value on update leaves the membership untouched.
	SongIDs []int64 `json:"song_ids"`
}

type shuffleResponse struct {
	Message  string             `json:"message"`
	Playlist playlists.Playlist `json:"playlist"`
}

func (s *Server) listPlaylists(w http.ResponseWriter, r *http.Request) {
	result, err := s.playlists.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Playlists []playlists.Playlist `json:"playlists"`
	}{Playlists: result})
}

func (s *Server) getPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	playlist, err := s.playlists.Get(r.Context(), id)
	if err != nil {
		writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.playlists.Create(r.Context(), req.Name, req.SongIDs)
	if err != nil {
		// An unknown song in the initial set is a bad request, not a 404:
		// the playlist itself is what the path addresses.
		if errors.Is(err, store.ErrSongNotFound) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.playlists.Update(r.Context(), id, req.Name, req.SongIDs)
	if err != nil {
		if errors.Is(err, store.ErrSongNotFound) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.playlists.Delete(r.Context(), id); err != nil {
		writePlaylistError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addPlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	songID, ok := parseIDParam(w, r, "songID")
	if !ok {
		return
	}

	if err := s.playlists.AddSong(r.Context(), playlistID, songID); err != nil {
		writePlaylistError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removePlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	songID, ok := parseIDParam(w, r, "songID")
	if !ok {
		return
	}

	if err := s.playlists.RemoveSong(r.Context(), playlistID, songID); err != nil {
		writePlaylistError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// shufflePlaylist reorders the playlist's member set. The association is
// unordered, so the shuffled order is not durable; the response carries the
// outcome message and the refreshed playlist.
func (s *Server) shufflePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	playlist, message, err := s.playlists.Shuffle(r.Context(), id)
	if err != nil {
		writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shuffleResponse{Message: message, Playlist: playlist})
}

func writePlaylistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrPlaylistNotFound), errors.Is(err, store.ErrSongNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInvalidPlaylist):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
