// Package httpapi exposes the catalog and purchase operations over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tunestore/internal/app/playlists"
	"tunestore/internal/app/purchases"
	"tunestore/internal/app/songs"
	"tunestore/internal/store"
)

// SongService coordinates song catalog operations.
type SongService interface {
	List(ctx context.Context, limit, offset int) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, song store.Song) (store.Song, error)
	Replace(ctx context.Context, id int64, song store.Song) (store.Song, error)
	Patch(ctx context.Context, id int64, update songs.Update) (store.Song, error)
	Delete(ctx context.Context, id int64) error
}

// PlaylistService coordinates playlist operations.
type PlaylistService interface {
	List(ctx context.Context) ([]playlists.Playlist, error)
	Get(ctx context.Context, id int64) (playlists.Playlist, error)
	Create(ctx context.Context, name string, songIDs []int64) (playlists.Playlist, error)
	Update(ctx context.Context, id int64, name string, songIDs []int64) (playlists.Playlist, error)
	Delete(ctx context.Context, id int64) error
	AddSong(ctx context.Context, playlistID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, songID int64) error
	Shuffle(ctx context.Context, id int64) (playlists.Playlist, string, error)
}

// PurchaseService orchestrates song purchases.
type PurchaseService interface {
	Purchase(ctx context.Context, songIDs []int64) (*purchases.Receipt, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	songs     SongService
	playlists PlaylistService
	purchases PurchaseService
}

// New configures a Server with the given services.
func New(songs SongService, playlists PlaylistService, purchases PurchaseService) *Server {
	return &Server{
		songs:     songs,
		playlists: playlists,
		purchases: purchases,
	}
}

// Routes mounts all handlers and returns the router.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/songs", s.listSongs).Methods(http.MethodGet)
	api.HandleFunc("/songs", s.createSong).Methods(http.MethodPost)
	// Must precede /songs/{id} so "purchase" is not parsed as an ID.
	api.HandleFunc("/songs/purchase", s.purchaseSongs).Methods(http.MethodPost)
	api.HandleFunc("/songs/{id}", s.getSong).Methods(http.MethodGet)
	api.HandleFunc("/songs/{id}", s.replaceSong).Methods(http.MethodPut)
	api.HandleFunc("/songs/{id}", s.patchSong).Methods(http.MethodPatch)
	api.HandleFunc("/songs/{id}", s.deleteSong).Methods(http.MethodDelete)

	api.HandleFunc("/playlists", s.listPlaylists).Methods(http.MethodGet)
	api.HandleFunc("/playlists", s.createPlaylist).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id}", s.getPlaylist).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{id}", s.updatePlaylist).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/playlists/{id}", s.deletePlaylist).Methods(http.MethodDelete)
	api.HandleFunc("/playlists/{id}/shuffle", s.shufflePlaylist).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id}/songs/{songID}", s.addPlaylistSong).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{id}/songs/{songID}", s.removePlaylistSong).Methods(http.MethodDelete)

	return router
}

type errorResponse struct {
	Error string `json:"error"`
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	idStr := mux.Vars(r)[name]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
