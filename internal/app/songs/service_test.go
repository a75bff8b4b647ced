package songs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tunestore/internal/store"
)

type stubStore struct {
	current store.Song
	getErr  error

	updatedID   int64
	updatedSong store.Song
}

func (s *stubStore) ListSongs(ctx context.Context, limit, offset int) ([]store.Song, error) {
	return nil, nil
}

func (s *stubStore) GetSong(ctx context.Context, id int64) (store.Song, error) {
	if s.getErr != nil {
		return store.Song{}, s.getErr
	}
	return s.current, nil
}

func (s *stubStore) CreateSong(ctx context.Context, song store.Song) (store.Song, error) {
	return song, nil
}

func (s *stubStore) UpdateSong(ctx context.Context, id int64, song store.Song) (store.Song, error) {
	s.updatedID = id
	s.updatedSong = song
	return song, nil
}

func (s *stubStore) DeleteSong(ctx context.Context, id int64) error { return nil }

func TestPatchMergesProvidedFields(t *testing.T) {
	released := time.Date(1998, 4, 20, 0, 0, 0, 0, time.UTC)
	stub := &stubStore{current: store.Song{
		ID:           7,
		Title:        "Roygbiv",
		Length:       151,
		DateReleased: released,
		Price:        decimal.RequireFromString("0.99"),
	}}
	svc := New(stub)

	newPrice := decimal.RequireFromString("1.29")
	updated, err := svc.Patch(context.Background(), 7, Update{Price: &newPrice})
	if err != nil {
		t.Fatalf("Patch error: %v", err)
	}

	if stub.updatedID != 7 {
		t.Errorf("updated id = %d, want 7", stub.updatedID)
	}
	if updated.Title != "Roygbiv" || updated.Length != 151 || !updated.DateReleased.Equal(released) {
		t.Errorf("unchanged fields were modified: %+v", updated)
	}
	if !updated.Price.Equal(newPrice) {
		t.Errorf("price = %s, want %s", updated.Price, newPrice)
	}
}

func TestPatchUnknownSong(t *testing.T) {
	svc := New(&stubStore{getErr: store.ErrSongNotFound})

	title := "Renamed"
	_, err := svc.Patch(context.Background(), 404, Update{Title: &title})
	if !errors.Is(err, store.ErrSongNotFound) {
		t.Fatalf("Patch error = %v, want ErrSongNotFound", err)
	}
}
