package songs

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tunestore/internal/store"
)

// Store captures the persistence needs for song workflows.
type Store interface {
	ListSongs(ctx context.Context, limit, offset int) ([]store.Song, error)
	GetSong(ctx context.Context, id int64) (store.Song, error)
	CreateSong(ctx context.Context, song store.Song) (store.Song, error)
	UpdateSong(ctx context.Context, id int64, song store.Song) (store.Song, error)
	DeleteSong(ctx context.Context, id int64) error
}

// Update carries the fields of a partial song update. Nil fields keep the
// stored value.
type Update struct {
	Title        *string
	Length       *int
	DateReleased *time.Time
	Price        *decimal.Decimal
}

// Service coordinates song catalog operations.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
	Create(ctx context.Context, song store.Song) (store.Song, error)
	Replace(ctx context.Context, id int64, song store.Song) (store.Song, error)
	Patch(ctx context.Context, id int64, update Update) (store.Song, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, limit, offset int) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx, limit, offset)
}

func (s *service) Get(ctx context.Context, id int64) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.GetSong(ctx, id)
}

func (s *service) Create(ctx context.Context, song store.Song) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.CreateSong(ctx, song)
}

func (s *service) Replace(ctx context.Context, id int64, song store.Song) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.UpdateSong(ctx, id, song)
}

// Patch merges the provided fields over the stored record and writes the
// result back as a full update.
func (s *service) Patch(ctx context.Context, id int64, update Update) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}

	current, err := s.store.GetSong(ctx, id)
	if err != nil {
		return store.Song{}, err
	}

	if update.Title != nil {
		current.Title = *update.Title
	}
	if update.Length != nil {
		current.Length = *update.Length
	}
	if update.DateReleased != nil {
		current.DateReleased = *update.DateReleased
	}
	if update.Price != nil {
		current.Price = *update.Price
	}

	return s.store.UpdateSong(ctx, id, current)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, id)
}
