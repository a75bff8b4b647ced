package playlists

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tunestore/internal/store"
)

type stubStore struct {
	playlist *store.Playlist
	getErr   error

	replacedIDs   []int64
	replaceCalled bool
}

func (s *stubStore) ListPlaylists(ctx context.Context) ([]*store.Playlist, error) {
	if s.playlist == nil {
		return nil, nil
	}
	return []*store.Playlist{s.playlist}, nil
}

func (s *stubStore) GetPlaylist(ctx context.Context, id int64) (*store.Playlist, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.playlist, nil
}

func (s *stubStore) CreatePlaylist(ctx context.Context, name string, songIDs []int64) (*store.Playlist, error) {
	return s.playlist, nil
}

func (s *stubStore) UpdatePlaylist(ctx context.Context, id int64, name string, songIDs []int64) (*store.Playlist, error) {
	return s.playlist, nil
}

func (s *stubStore) DeletePlaylist(ctx context.Context, id int64) error { return nil }

func (s *stubStore) AddPlaylistSong(ctx context.Context, playlistID, songID int64) error {
	return nil
}

func (s *stubStore) RemovePlaylistSong(ctx context.Context, playlistID, songID int64) error {
	return nil
}

func (s *stubStore) ReplacePlaylistSongs(ctx context.Context, playlistID int64, songIDs []int64) error {
	s.replaceCalled = true
	s.replacedIDs = songIDs
	return nil
}

func testSong(id int64, length int, price string) store.Song {
	return store.Song{
		ID:           id,
		Title:        "Track",
		Length:       length,
		DateReleased: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		Price:        decimal.RequireFromString(price),
	}
}

func TestTotalsEmpty(t *testing.T) {
	duration, price := Totals(nil)
	if duration != 0 {
		t.Errorf("duration = %d, want 0", duration)
	}
	if !price.Equal(decimal.Zero) {
		t.Errorf("price = %s, want 0.00", price)
	}
}

func TestTotalsSums(t *testing.T) {
	songs := []store.Song{
		testSong(1, 120, "1.10"),
		testSong(2, 240, "2.20"),
		testSong(3, 60, "0.99"),
	}

	duration, price := Totals(songs)
	if duration != 420 {
		t.Errorf("duration = %d, want 420", duration)
	}
	if want := decimal.RequireFromString("4.29"); !price.Equal(want) {
		t.Errorf("price = %s, want %s", price, want)
	}
}

func TestGetComputesTotals(t *testing.T) {
	stub := &stubStore{playlist: &store.Playlist{
		ID:   1,
		Name: "Mix",
		Songs: []store.Song{
			testSong(1, 120, "3.00"),
			testSong(2, 180, "4.00"),
		},
	}}
	svc := New(stub)

	playlist, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if playlist.TotalDuration != 300 {
		t.Errorf("total duration = %d, want 300", playlist.TotalDuration)
	}
	if playlist.TotalPrice != 7.00 {
		t.Errorf("total price = %v, want 7.00", playlist.TotalPrice)
	}
}

func TestShuffleNotFound(t *testing.T) {
	svc := New(&stubStore{getErr: store.ErrPlaylistNotFound})

	_, _, err := svc.Shuffle(context.Background(), 42)
	if !errors.Is(err, store.ErrPlaylistNotFound) {
		t.Fatalf("Shuffle error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestShuffleFewerThanTwoSongsIsNoOp(t *testing.T) {
	stub := &stubStore{playlist: &store.Playlist{
		ID:    1,
		Name:  "Solo",
		Songs: []store.Song{testSong(1, 120, "1.00")},
	}}
	svc := New(stub)

	playlist, message, err := svc.Shuffle(context.Background(), 1)
	if err != nil {
		t.Fatalf("Shuffle error: %v", err)
	}

	if message != MsgNoShuffle {
		t.Errorf("message = %q, want %q", message, MsgNoShuffle)
	}
	if stub.replaceCalled {
		t.Error("membership must not be rewritten for fewer than 2 songs")
	}
	if len(playlist.Songs) != 1 {
		t.Errorf("songs = %d, want 1", len(playlist.Songs))
	}
}

func TestShufflePreservesMemberSet(t *testing.T) {
	songs := []store.Song{
		testSong(1, 100, "1.00"),
		testSong(2, 100, "1.00"),
		testSong(3, 100, "1.00"),
		testSong(4, 100, "1.00"),
	}
	stub := &stubStore{playlist: &store.Playlist{ID: 1, Name: "Mix", Songs: songs}}
	svc := New(stub)

	_, message, err := svc.Shuffle(context.Background(), 1)
	if err != nil {
		t.Fatalf("Shuffle error: %v", err)
	}

	if message != MsgShuffled {
		t.Errorf("message = %q, want %q", message, MsgShuffled)
	}
	if !stub.replaceCalled {
		t.Fatal("expected membership rewrite")
	}
	if len(stub.replacedIDs) != len(songs) {
		t.Fatalf("replaced %d ids, want %d", len(stub.replacedIDs), len(songs))
	}

	want := map[int64]bool{1: true, 2: true, 3: true, 4: true}
	for _, id := range stub.replacedIDs {
		if !want[id] {
			t.Fatalf("unexpected or duplicate id %d in %v", id, stub.replacedIDs)
		}
		delete(want, id)
	}
	if len(want) != 0 {
		t.Fatalf("ids missing after shuffle: %v", want)
	}
}
