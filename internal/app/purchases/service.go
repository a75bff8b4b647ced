package purchases

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"tunestore/internal/payment"
	"tunestore/internal/store"
)

// ErrNoSongs signals a purchase request with no song IDs.
var ErrNoSongs = errors.New("song_ids list is required")

// MissingSongsError names the requested song IDs that do not exist.
type MissingSongsError struct {
	IDs []int64
}

func (e *MissingSongsError) Error() string {
	return fmt.Sprintf("songs not found for ids: %v", e.IDs)
}

// Store captures the persistence needs of the purchase flow.
type Store interface {
	SongsByIDs(ctx context.Context, ids []int64) ([]store.Song, error)
}

// Receipt is the full purchase response: the charged songs plus the gateway's
// transaction result. TotalPrice is a display value; precision loss is
// confined to this boundary.
type Receipt struct {
	Success        bool                 `json:"success"`
	Message        string               `json:"message"`
	TotalPrice     float64              `json:"total_price"`
	SongsPurchased []store.Song         `json:"songs_purchased"`
	PaymentInfo    *payment.Transaction `json:"payment_info"`
}

// Service orchestrates song purchases.
type Service interface {
	Purchase(ctx context.Context, songIDs []int64) (*Receipt, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

// Purchase resolves the requested songs, totals their prices with exact
// decimal addition, and charges the total through the gateway picked for it.
// Validation and missing-ID checks happen before anything else; nothing is
// mutated on any path.
func (s *service) Purchase(ctx context.Context, songIDs []int64) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(songIDs) == 0 {
		return nil, ErrNoSongs
	}

	songs, err := s.store.SongsByIDs(ctx, songIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve songs: %w", err)
	}

	if missing := missingIDs(songIDs, songs); len(missing) > 0 {
		return nil, &MissingSongsError{IDs: missing}
	}

	total := decimal.Zero
	for _, song := range songs {
		total = total.Add(song.Price)
	}

	gateway := payment.SelectGateway(total)
	result, err := gateway.ProcessPayment(total, songIDs)
	if err != nil {
		return nil, fmt.Errorf("process payment: %w", err)
	}

	return &Receipt{
		Success:        true,
		Message:        "purchase completed successfully",
		TotalPrice:     total.InexactFloat64(),
		SongsPurchased: songs,
		PaymentInfo:    result,
	}, nil
}

// missingIDs is the set difference between requested and found, ascending.
func missingIDs(requested []int64, found []store.Song) []int64 {
	have := make(map[int64]bool, len(found))
	for _, song := range found {
		have[song.ID] = true
	}

	seen := make(map[int64]bool, len(requested))
	var missing []int64
	for _, id := range requested {
		if !have[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
