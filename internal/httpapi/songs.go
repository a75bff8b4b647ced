package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"tunestore/internal/app/purchases"
	"tunestore/internal/app/songs"
	"tunestore/internal/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type songRequest struct {
	Title        string          `json:"title"`
	Length       int             `json:"length"`
	DateReleased time.Time       `json:"date_released"`
	Price        decimal.Decimal `json:"price"`
}

type songPatchRequest struct {
	Title        *string          `json:"title"`
	Length       *int             `json:"length"`
	DateReleased *time.Time       `json:"date_released"`
	Price        *decimal.Decimal `json:"price"`
}

type purchaseRequest struct {
	SongIDs []int64 `json:"song_ids"`
}

func (s *Server) listSongs(w http.ResponseWriter, r *http.Request) {
	limit := defaultPageSize
	offset := 0

	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
			return
		}
		limit = min(parsed, maxPageSize)
	}
	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid offset parameter"})
			return
		}
		offset = parsed
	}

	result, err := s.songs.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Songs  []store.Song `json:"songs"`
		Limit  int          `json:"limit"`
		Offset int          `json:"offset"`
	}{Songs: result, Limit: limit, Offset: offset})
}

func (s *Server) getSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	song, err := s.songs.Get(r.Context(), id)
	if err != nil {
		writeSongError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) createSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.songs.Create(r.Context(), store.Song{
		Title:        req.Title,
		Length:       req.Length,
		DateReleased: req.DateReleased,
		Price:        req.Price,
	})
	if err != nil {
		writeSongError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) replaceSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.songs.Replace(r.Context(), id, store.Song{
		Title:        req.Title,
		Length:       req.Length,
		DateReleased: req.DateReleased,
		Price:        req.Price,
	})
	if err != nil {
		writeSongError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) patchSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req songPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.songs.Patch(r.Context(), id, songs.Update{
		Title:        req.Title,
		Length:       req.Length,
		DateReleased: req.DateReleased,
		Price:        req.Price,
	})
	if err != nil {
		writeSongError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteSong(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.songs.Delete(r.Context(), id); err != nil {
		writeSongError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// purchaseSongs runs the purchase flow. Any error the flow does not classify
// is reported as a generic server error with its message rather than leaking
// an unstructured fault.
func (s *Server) purchaseSongs(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "song_ids must be a list of song ids"})
		return
	}

	receipt, err := s.purchases.Purchase(r.Context(), req.SongIDs)
	if err != nil {
		var missing *purchases.MissingSongsError
		switch {
		case errors.Is(err, purchases.ErrNoSongs):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.As(err, &missing):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: missing.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

func writeSongError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrSongNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInvalidSong):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
