package playlists

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"

	"tunestore/internal/store"
)

// Shuffle outcome messages, surfaced verbatim in the HTTP response.
const (
	MsgShuffled  = "playlist shuffled successfully"
	MsgNoShuffle = "playlist has fewer than 2 songs, no shuffle needed"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	ListPlaylists(ctx context.Context) ([]*store.Playlist, error)
	GetPlaylist(ctx context.Context, id int64) (*store.Playlist, error)
	CreatePlaylist(ctx context.Context, name string, songIDs []int64) (*store.Playlist, error)
	UpdatePlaylist(ctx context.Context, id int64, name string, songIDs []int64) (*store.Playlist, error)
	DeletePlaylist(ctx context.Context, id int64) error
	AddPlaylistSong(ctx context.Context, playlistID, songID int64) error
	RemovePlaylistSong(ctx context.Context, playlistID, songID int64) error
	ReplacePlaylistSongs(ctx context.Context, playlistID int64, songIDs []int64) error
}

// Playlist is the API view of a stored playlist: the record plus the derived
// totals, which are computed on read and never persisted.
type Playlist struct {
	store.Playlist
	TotalDuration int     `json:"total_duration"`
	TotalPrice    float64 `json:"total_price"`
}

// Service coordinates playlist operations.
type Service interface {
	List(ctx context.Context) ([]Playlist, error)
	Get(ctx context.Context, id int64) (Playlist, error)
	Create(ctx context.Context, name string, songIDs []int64) (Playlist, error)
	Update(ctx context.Context, id int64, name string, songIDs []int64) (Playlist, error)
	Delete(ctx context.Context, id int64) error
	AddSong(ctx context.Context, playlistID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, songID int64) error
	Shuffle(ctx context.Context, id int64) (Playlist, string, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

// Totals sums length and price over a song set. An empty set yields 0 and
// 0.00. Price addition is exact decimal arithmetic.
func Totals(songs []store.Song) (duration int, price decimal.Decimal) {
	price = decimal.Zero
	for _, song := range songs {
		duration += song.Length
		price = price.Add(song.Price)
	}
	return duration, price
}

func view(playlist *store.Playlist) Playlist {
	duration, price := Totals(playlist.Songs)
	return Playlist{
		Playlist:      *playlist,
		TotalDuration: duration,
		TotalPrice:    price.InexactFloat64(),
	}
}

func (s *service) List(ctx context.Context) ([]Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored, err := s.store.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	playlists := make([]Playlist, 0, len(stored))
	for _, playlist := range stored {
		playlists = append(playlists, view(playlist))
	}
	return playlists, nil
}

func (s *service) Get(ctx context.Context, id int64) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	playlist, err := s.store.GetPlaylist(ctx, id)
	if err != nil {
		return Playlist{}, err
	}
	return view(playlist), nil
}

func (s *service) Create(ctx context.Context, name string, songIDs []int64) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	playlist, err := s.store.CreatePlaylist(ctx, name, songIDs)
	if err != nil {
		return Playlist{}, err
	}
	return view(playlist), nil
}

func (s *service) Update(ctx context.Context, id int64, name string, songIDs []int64) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	playlist, err := s.store.UpdatePlaylist(ctx, id, name, songIDs)
	if err != nil {
		return Playlist{}, err
	}
	return view(playlist), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, id)
}

func (s *service) AddSong(ctx context.Context, playlistID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddPlaylistSong(ctx, playlistID, songID)
}

func (s *service) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemovePlaylistSong(ctx, playlistID, songID)
}

// Shuffle randomly permutes the playlist's membership and rewrites the
// association. The underlying set carries no order, so the permutation is
// only observable in this response.
func (s *service) Shuffle(ctx context.Context, id int64) (Playlist, string, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, "", err
	}

	playlist, err := s.store.GetPlaylist(ctx, id)
	if err != nil {
		return Playlist{}, "", err
	}

	if len(playlist.Songs) < 2 {
		return view(playlist), MsgNoShuffle, nil
	}

	songIDs := make([]int64, len(playlist.Songs))
	for i, song := range playlist.Songs {
		songIDs[i] = song.ID
	}
	rand.Shuffle(len(songIDs), func(i, j int) {
		songIDs[i], songIDs[j] = songIDs[j], songIDs[i]
	})

	if err := s.store.ReplacePlaylistSongs(ctx, id, songIDs); err != nil {
		return Playlist{}, "", err
	}

	refreshed, err := s.store.GetPlaylist(ctx, id)
	if err != nil {
		return Playlist{}, "", err
	}
	return view(refreshed), MsgShuffled, nil
}
