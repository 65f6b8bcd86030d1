// Package storage persists notified deals in a local SQLite database so past
// sightings can be inspected after the fact.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS deals (
    realm_id   INTEGER NOT NULL,
    auction_id INTEGER NOT NULL,
    item_id    INTEGER NOT NULL DEFAULT 0,
    species_id INTEGER NOT NULL DEFAULT 0,
    price      INTEGER NOT NULL,
    quantity   INTEGER NOT NULL DEFAULT 1,
    item_level INTEGER NOT NULL DEFAULT 0,
    seen_at    DATETIME NOT NULL,
    PRIMARY KEY (realm_id, auction_id)
);

CREATE INDEX IF NOT EXISTS idx_deals_seen ON deals(seen_at DESC);
CREATE INDEX IF NOT EXISTS idx_deals_item ON deals(item_id);
`

// One auction house cycle is 48h at most, so anything older is noise.
const retention = 14 * 24 * time.Hour

// SQLiteHistory implements ports.DealHistory with a pure-Go SQLite driver.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory opens (or creates) the database at path, applies the
// schema and prunes old sightings.
func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteHistory: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteHistory: apply schema: %w", err)
	}

	s := &SQLiteHistory{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveDeals upserts every deal in the set. Re-notified listings keep one row
// with a refreshed price and timestamp instead of piling up per sweep.
func (s *SQLiteHistory) SaveDeals(ctx context.Context, realmID int, deals domain.DealSet) error {
	if deals.Empty() {
		return nil
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveDeals: begin tx: %w", err)
	}
	defer tx.Rollback()

	upsert := func(a *domain.Auction, itemID, speciesID int) error {
		query, args, err := sq.Insert("deals").
			Columns("realm_id", "auction_id", "item_id", "species_id",
				"price", "quantity", "item_level", "seen_at").
			Values(realmID, a.ID, itemID, speciesID,
				a.Price(), a.Quantity, a.ItemLevel, now).
			Suffix(`ON CONFLICT(realm_id, auction_id) DO UPDATE SET
				price      = excluded.price,
				quantity   = excluded.quantity,
				item_level = excluded.item_level,
				seen_at    = excluded.seen_at`).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	}

	for itemID, auctions := range deals.Items {
		for _, a := range auctions {
			if err := upsert(a, itemID, 0); err != nil {
				return fmt.Errorf("storage.SaveDeals: item %d: %w", itemID, err)
			}
		}
	}
	for speciesID, auctions := range deals.Pets {
		for _, a := range auctions {
			if err := upsert(a, 0, speciesID); err != nil {
				return fmt.Errorf("storage.SaveDeals: species %d: %w", speciesID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveDeals: commit: %w", err)
	}
	return nil
}

// History returns sightings seen within [from, to], cheapest first.
func (s *SQLiteHistory) History(ctx context.Context, from, to time.Time) ([]ports.HistoryEntry, error) {
	query, args, err := sq.Select("realm_id", "auction_id", "item_id", "species_id",
		"price", "quantity", "item_level", "seen_at").
		From("deals").
		Where(sq.And{
			sq.GtOrEq{"seen_at": from.UTC()},
			sq.LtOrEq{"seen_at": to.UTC()},
		}).
		OrderBy("price ASC", "seen_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("storage.History: build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.History: query: %w", err)
	}
	defer rows.Close()

	var entries []ports.HistoryEntry
	for rows.Next() {
		var e ports.HistoryEntry
		if err := rows.Scan(&e.RealmID, &e.AuctionID, &e.ItemID, &e.SpeciesID,
			&e.Price, &e.Quantity, &e.ItemLevel, &e.SeenAt); err != nil {
			return nil, fmt.Errorf("storage.History: scan row: %w", err)
		}
		e.SeenAt = e.SeenAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

func (s *SQLiteHistory) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	query, args, err := sq.Delete("deals").Where(sq.Lt{"seen_at": cutoff}).ToSql()
	if err != nil {
		return
	}
	s.db.ExecContext(ctx, query, args...)
}
