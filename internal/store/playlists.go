package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrPlaylistNotFound signals the referenced playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrInvalidPlaylist signals the playlist failed validation.
	ErrInvalidPlaylist = errors.New("invalid playlist")
)

// Playlist is a named, unordered collection of songs.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Songs     []Song    `json:"songs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListPlaylists returns all playlists with their member songs, newest first.
func (s *Store) ListPlaylists(ctx context.Context) ([]*Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM playlists
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*Playlist, 0)
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, &playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	for _, playlist := range playlists {
		songs, err := s.listPlaylistSongs(ctx, playlist.ID)
		if err != nil {
			return nil, err
		}
		playlist.Songs = songs
	}
	return playlists, nil
}

// GetPlaylist returns a single playlist with its member songs.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (*Playlist, error) {
	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM playlists
		WHERE id = $1`, id).Scan(&playlist.ID, &playlist.Name, &playlist.CreatedAt, &playlist.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	songs, err := s.listPlaylistSongs(ctx, id)
	if err != nil {
		return nil, err
	}
	playlist.Songs = songs
	return &playlist, nil
}

// CreatePlaylist persists a playlist and its initial song set.
func (s *Store) CreatePlaylist(ctx context.Context, name string, songIDs []int64) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlaylist)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO playlists (name)
		VALUES ($1)
		RETURNING id`, name).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}

	if err := insertPlaylistSongsTx(ctx, tx, id, songIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit playlist create: %w", err)
	}
	tx = nil

	return s.GetPlaylist(ctx, id)
}

// UpdatePlaylist renames a playlist and, when songIDs is non-nil, replaces its
// membership. A nil songIDs leaves the song set untouched so metadata-only
// updates cannot wipe it.
func (s *Store) UpdatePlaylist(ctx context.Context, id int64, name string, songIDs []int64) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlaylist)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE playlists
		SET name = $1, updated_at = now()
		WHERE id = $2`, name, id)
	if err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrPlaylistNotFound
	}

	if songIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear playlist songs: %w", err)
		}
		if err := insertPlaylistSongsTx(ctx, tx, id, songIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit playlist update: %w", err)
	}
	tx = nil

	return s.GetPlaylist(ctx, id)
}

// DeletePlaylist removes a playlist. Member songs survive; only the
// association rows go with it.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddPlaylistSong adds a song to a playlist's set. Adding a song that is
// already a member is a no-op.
func (s *Store) AddPlaylistSong(ctx context.Context, playlistID, songID int64) error {
	if err := s.playlistExists(ctx, playlistID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING`, playlistID, songID)
	if isForeignKeyViolation(err) {
		return ErrSongNotFound
	}
	if err != nil {
		return fmt.Errorf("insert playlist song: %w", err)
	}
	return nil
}

// RemovePlaylistSong removes a song from a playlist's set.
func (s *Store) RemovePlaylistSong(ctx context.Context, playlistID, songID int64) error {
	if err := s.playlistExists(ctx, playlistID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
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

// ReplacePlaylistSongs rewrites a playlist's membership clear-then-set in one
// transaction. The set is unordered, so the order of songIDs is not retained
// once the rows land.
func (s *Store) ReplacePlaylistSongs(ctx context.Context, playlistID int64, songIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1`, playlistID); err != nil {
		return fmt.Errorf("clear playlist songs: %w", err)
	}
	if err := insertPlaylistSongsTx(ctx, tx, playlistID, songIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit playlist songs replace: %w", err)
	}
	tx = nil

	return nil
}

func (s *Store) playlistExists(ctx context.Context, id int64) error {
	var exists int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM playlists WHERE id = $1`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("check playlist: %w", err)
	}
	return nil
}

func (s *Store) listPlaylistSongs(ctx context.Context, playlistID int64) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.length_seconds, s.date_released, s.price, s.created_at, s.updated_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY s.id ASC`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	songs := make([]Song, 0)
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Length, &song.DateReleased,
			&song.Price, &song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist songs: %w", err)
	}
	return songs, nil
}

func insertPlaylistSongsTx(ctx context.Context, tx *sql.Tx, playlistID int64, songIDs []int64) error {
	if len(songIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare insert playlist song: %w", err)
	}
	defer stmt.Close()

	for _, songID := range songIDs {
		if _, err := stmt.ExecContext(ctx, playlistID, songID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrSongNotFound
			}
			return fmt.Errorf("insert playlist song %d: %w", songID, err)
		}
	}
	return nil
}
