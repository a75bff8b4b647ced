package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tunestore/internal/store"
)

// seedCatalog inserts a small demo catalog on an empty database so the API
// has something to serve out of the box. A non-empty songs table means a
// real catalog exists and nothing is touched.
func seedCatalog(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return fmt.Errorf("count songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	date := func(year, month, day int) time.Time {
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}

	songs := []store.Song{
		{Title: "Windowlicker", Length: 366, DateReleased: date(1999, 3, 22), Price: decimal.RequireFromString("1.29")},
		{Title: "Teardrop", Length: 330, DateReleased: date(1998, 4, 27), Price: decimal.RequireFromString("1.29")},
		{Title: "Roygbiv", Length: 151, DateReleased: date(1998, 4, 20), Price: decimal.RequireFromString("0.99")},
		{Title: "Kerala", Length: 238, DateReleased: date(2016, 9, 1), Price: decimal.RequireFromString("1.49")},
		{Title: "Glory Box", Length: 305, DateReleased: date(1994, 8, 22), Price: decimal.RequireFromString("12.99")},
	}

	var songIDs []int64
	for _, song := range songs {
		created, err := dataStore.CreateSong(ctx, song)
		if err != nil {
			return fmt.Errorf("seed song %q: %w", song.Title, err)
		}
		songIDs = append(songIDs, created.ID)
	}

	if _, err := dataStore.CreatePlaylist(ctx, "Starter Mix", songIDs[:3]); err != nil {
		return fmt.Errorf("seed playlist: %w", err)
	}
	return nil
}
