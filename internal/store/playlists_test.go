package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestGetPlaylistNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, created_at, updated_at
		FROM playlists
		WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetPlaylist(context.Background(), 404)
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestGetPlaylistWithSongs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	now := time.Now().UTC()
	released := time.Date(1998, 4, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, created_at, updated_at
		FROM playlists
		WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(int64(1), "Mix", now, now))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT s.id, s.title, s.length_seconds, s.date_released, s.price, s.created_at, s.updated_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY s.id ASC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "length_seconds", "date_released", "price", "created_at", "updated_at"}).
			AddRow(int64(3), "Roygbiv", 151, released, "0.99", now, now).
			AddRow(int64(4), "Kerala", 238, released, "1.49", now, now))

	playlist, err := s.GetPlaylist(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetPlaylist error: %v", err)
	}

	if playlist.Name != "Mix" {
		t.Fatalf("name = %q, want Mix", playlist.Name)
	}
	if len(playlist.Songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(playlist.Songs))
	}
	if !playlist.Songs[1].Price.Equal(decimal.RequireFromString("1.49")) {
		t.Fatalf("song price = %s, want 1.49", playlist.Songs[1].Price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlaylistRequiresName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	_, err = s.CreatePlaylist(context.Background(), "  ", nil)
	if !errors.Is(err, ErrInvalidPlaylist) {
		t.Fatalf("expected ErrInvalidPlaylist, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database access: %v", err)
	}
}

func TestReplacePlaylistSongs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlist_songs WHERE playlist_id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	prep := mock.ExpectPrepare(regexp.QuoteMeta(`
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING`))
	prep.ExpectExec().WithArgs(int64(1), int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(int64(1), int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.ReplacePlaylistSongs(context.Background(), 1, []int64{4, 3}); err != nil {
		t.Fatalf("ReplacePlaylistSongs error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeletePlaylistNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM playlists WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeletePlaylist(context.Background(), 404); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestRemovePlaylistSongNotMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM playlists WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2`)).
		WithArgs(int64(1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.RemovePlaylistSong(context.Background(), 1, 9); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}
