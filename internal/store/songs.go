package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	// ErrSongNotFound signals the referenced song does not exist.
	ErrSongNotFound = errors.New("song not found")
	// ErrInvalidSong signals the song failed validation.
	ErrInvalidSong = errors.New("invalid song")
)

var minSongPrice = decimal.RequireFromString("0.01")

// Song is a purchasable track in the catalog.
type Song struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Length       int             `json:"length"`
	DateReleased time.Time       `json:"date_released"`
	Price        decimal.Decimal `json:"price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func validateSong(song Song) error {
	if strings.TrimSpace(song.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSong)
	}
	if song.Length < 1 {
		return fmt.Errorf("%w: length must be at least 1 second", ErrInvalidSong)
	}
	if song.DateReleased.IsZero() {
		return fmt.Errorf("%w: date_released is required", ErrInvalidSong)
	}
	if song.Price.LessThan(minSongPrice) {
		return fmt.Errorf("%w: price must be at least 0.01", ErrInvalidSong)
	}
	return nil
}

// ListSongs returns a page of songs ordered newest first.
func (s *Store) ListSongs(ctx context.Context, limit, offset int) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, length_seconds, date_released, price, created_at, updated_at
		FROM songs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := make([]Song, 0)
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Length, &song.DateReleased,
			&song.Price, &song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// GetSong returns a single song by ID.
func (s *Store) GetSong(ctx context.Context, id int64) (Song, error) {
	var song Song
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, length_seconds, date_released, price, created_at, updated_at
		FROM songs
		WHERE id = $1`, id).Scan(&song.ID, &song.Title, &song.Length, &song.DateReleased,
		&song.Price, &song.CreatedAt, &song.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// SongsByIDs returns the songs matching the given IDs. Missing IDs are simply
// absent from the result; callers decide whether that is an error.
func (s *Store) SongsByIDs(ctx context.Context, ids []int64) ([]Song, error) {
	if len(ids) == 0 {
		return []Song{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, length_seconds, date_released, price, created_at, updated_at
		FROM songs
		WHERE id = ANY($1)
		ORDER BY id ASC`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select songs by ids: %w", err)
	}
	defer rows.Close()

	songs := make([]Song, 0, len(ids))
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Length, &song.DateReleased,
			&song.Price, &song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// CreateSong validates and persists a new song.
func (s *Store) CreateSong(ctx context.Context, song Song) (Song, error) {
	song.Title = strings.TrimSpace(song.Title)
	if err := validateSong(song); err != nil {
		return Song{}, err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, length_seconds, date_released, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		song.Title, song.Length, song.DateReleased, song.Price,
	).Scan(&song.ID, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}
	return song, nil
}

// UpdateSong validates and stores the full new state of an existing song.
func (s *Store) UpdateSong(ctx context.Context, id int64, song Song) (Song, error) {
	song.Title = strings.TrimSpace(song.Title)
	if err := validateSong(song); err != nil {
		return Song{}, err
	}

	song.ID = id
	err := s.db.QueryRowContext(ctx, `
		UPDATE songs
		SET title = $1, length_seconds = $2, date_released = $3, price = $4, updated_at = now()
		WHERE id = $5
		RETURNING created_at, updated_at`,
		song.Title, song.Length, song.DateReleased, song.Price, id,
	).Scan(&song.CreatedAt, &song.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("update song: %w", err)
	}
	return song, nil
}

// DeleteSong removes a song. Association rows in playlist_songs are cleaned up
// by the foreign key cascade.
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}
