/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements CatalogStore, CollectionStore, WishlistStore, and SnapshotStore
  using SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  cards:            Read-only card catalog, one row per (card_id, language)
  sets:             Card sets with the authoritative total_cards count
  collection_items: Per-user owned cards, catalog fields frozen at add time
  wishlist_items:   Per-user wanted cards
  value_snapshots:  Frozen collection values for history charts

UNIQUENESS ENFORCEMENT:
  idx_wishlist_user_card is a UNIQUE index over (user_id, card_id). The
  ledger's read-then-write duplicate check is advisory; this index is the
  authority, so a race between two concurrent adds cannot produce two rows.
  The constraint violation is translated to DuplicateWishlistError.

ERROR TRANSLATION:
  All other failures come back as *catalog.PersistenceError. Failures that
  look like a missing column or table set SchemaMismatch so the UI can show
  the distinguishable sub-message.

PRICES:
  decimal values are stored as TEXT and parsed on read; REAL would lose
  precision.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and a single writer at a time is fine for
  this workload.

USAGE:
  store, err := sqlite.New("./data/collect.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - catalog/store.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Card catalog (read-only through the store interface)
	CREATE TABLE IF NOT EXISTS cards (
		card_id TEXT NOT NULL,
		language TEXT NOT NULL,
		set_id TEXT NOT NULL,
		series_id TEXT,
		name TEXT NOT NULL,
		rarity TEXT,
		number TEXT,
		hp INTEGER DEFAULT 0,
		image_url TEXT,
		market_price TEXT,
		PRIMARY KEY (card_id, language)
	);

	CREATE INDEX IF NOT EXISTS idx_cards_set ON cards(set_id);

	CREATE TABLE IF NOT EXISTS sets (
		set_id TEXT PRIMARY KEY,
		series_id TEXT,
		name TEXT NOT NULL,
		total_cards INTEGER NOT NULL DEFAULT 0,
		released_at TEXT
	);

	-- Owned cards. Catalog display fields are a frozen copy from add time.
	CREATE TABLE IF NOT EXISTS collection_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		card_id TEXT NOT NULL,
		language TEXT NOT NULL,
		name TEXT NOT NULL,
		set_id TEXT,
		series_id TEXT,
		rarity TEXT,
		hp INTEGER DEFAULT 0,
		image_url TEXT,
		market_price TEXT,
		condition TEXT,
		price TEXT,
		notes TEXT,
		acquired_at TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_collection_user
		ON collection_items(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_collection_user_card
		ON collection_items(user_id, card_id);

	-- Wanted cards.
	CREATE TABLE IF NOT EXISTS wishlist_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		card_id TEXT NOT NULL,
		language TEXT NOT NULL,
		name TEXT NOT NULL,
		set_id TEXT,
		series_id TEXT,
		rarity TEXT,
		image_url TEXT,
		market_price TEXT,
		priority INTEGER NOT NULL DEFAULT 1,
		desired_price TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: one wishlist row per (user, card). The application-level
	-- duplicate check races under concurrent adds; this index does not.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlist_user_card
		ON wishlist_items(user_id, card_id);
	CREATE INDEX IF NOT EXISTS idx_wishlist_user
		ON wishlist_items(user_id, created_at DESC);

	-- Collection value history.
	CREATE TABLE IF NOT EXISTS value_snapshots (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		taken_at TEXT NOT NULL,
		total_cards INTEGER NOT NULL,
		unique_cards INTEGER NOT NULL,
		manual_total TEXT NOT NULL,
		market_total TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_user_taken
		ON value_snapshots(user_id, taken_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ERROR TRANSLATION
// =============================================================================

// storeErr wraps a database failure, sniffing schema problems so callers can
// surface the distinguishable sub-message.
func storeErr(op string, err error) error {
	msg := err.Error()
	schema := strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "has no column named")
	return &catalog.PersistenceError{Op: op, Err: err, SchemaMismatch: schema}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// =============================================================================
// PRICE / TIME ENCODING
// =============================================================================

func encodeDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func decodeDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// =============================================================================
// CATALOG SEEDING - Used by importers, not part of CatalogStore
// =============================================================================

// UpsertCard writes a catalog row. Importers only; the domain never mutates
// the catalog.
func (s *Store) UpsertCard(ctx context.Context, record catalog.CardRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (card_id, language, set_id, series_id, name, rarity, number, hp, image_url, market_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(card_id, language) DO UPDATE SET
			set_id=excluded.set_id, series_id=excluded.series_id, name=excluded.name,
			rarity=excluded.rarity, number=excluded.number, hp=excluded.hp,
			image_url=excluded.image_url, market_price=excluded.market_price`,
		string(record.CardID), string(record.Language), string(record.SetID), string(record.SeriesID),
		record.Name, record.Rarity, record.Number, record.HP, record.ImageURL, encodeDecimal(record.MarketPrice))
	if err != nil {
		return storeErr("upsert card", err)
	}
	return nil
}

// UpsertSet writes a set row. Importers only.
func (s *Store) UpsertSet(ctx context.Context, set catalog.CardSet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sets (set_id, series_id, name, total_cards, released_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(set_id) DO UPDATE SET
			series_id=excluded.series_id, name=excluded.name,
			total_cards=excluded.total_cards, released_at=excluded.released_at`,
		string(set.SetID), string(set.SeriesID), set.Name, set.TotalCards, encodeTime(set.ReleasedAt))
	if err != nil {
		return storeErr("upsert set", err)
	}
	return nil
}

// =============================================================================
// CATALOG STORE
// =============================================================================

const cardColumns = `card_id, language, set_id, series_id, name, rarity, number, hp, image_url, market_price`

func scanCard(scanner interface{ Scan(...any) error }) (catalog.CardRecord, error) {
	var (
		record                             catalog.CardRecord
		cardID, language, setID            string
		seriesID, rarity, number, imageURL sql.NullString
		marketPrice                        sql.NullString
	)
	err := scanner.Scan(&cardID, &language, &setID, &seriesID, &record.Name, &rarity, &number, &record.HP, &imageURL, &marketPrice)
	if err != nil {
		return record, err
	}
	record.CardID = catalog.CardID(cardID)
	record.Language = catalog.Language(language)
	record.SetID = catalog.SetID(setID)
	record.SeriesID = catalog.SeriesID(seriesID.String)
	record.Rarity = rarity.String
	record.Number = number.String
	record.ImageURL = imageURL.String
	record.MarketPrice = decodeDecimal(marketPrice)
	return record, nil
}

func (s *Store) GetCard(ctx context.Context, cardID catalog.CardID, language catalog.Language) (*catalog.CardRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE card_id = ? AND language = ?`,
		string(cardID), string(language))
	record, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get card", err)
	}
	return &record, nil
}

func (s *Store) ListCardVariants(ctx context.Context, cardID catalog.CardID) ([]catalog.CardRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE card_id = ? ORDER BY language ASC`,
		string(cardID))
	if err != nil {
		return nil, storeErr("list card variants", err)
	}
	defer rows.Close()

	var result []catalog.CardRecord
	for rows.Next() {
		record, err := scanCard(rows)
		if err != nil {
			return nil, storeErr("list card variants", err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (s *Store) ListSets(ctx context.Context) ([]catalog.CardSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT set_id, series_id, name, total_cards, released_at FROM sets ORDER BY released_at ASC, set_id ASC`)
	if err != nil {
		return nil, storeErr("list sets", err)
	}
	defer rows.Close()

	var result []catalog.CardSet
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, storeErr("list sets", err)
		}
		result = append(result, set)
	}
	return result, rows.Err()
}

func scanSet(scanner interface{ Scan(...any) error }) (catalog.CardSet, error) {
	var (
		set                  catalog.CardSet
		setID                string
		seriesID, releasedAt sql.NullString
	)
	if err := scanner.Scan(&setID, &seriesID, &set.Name, &set.TotalCards, &releasedAt); err != nil {
		return set, err
	}
	set.SetID = catalog.SetID(setID)
	set.SeriesID = catalog.SeriesID(seriesID.String)
	if releasedAt.Valid {
		set.ReleasedAt = decodeTime(releasedAt.String)
	}
	return set, nil
}

func (s *Store) GetSet(ctx context.Context, setID catalog.SetID) (*catalog.CardSet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT set_id, series_id, name, total_cards, released_at FROM sets WHERE set_id = ?`,
		string(setID))
	set, err := scanSet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get set", err)
	}
	return &set, nil
}

func (s *Store) ListCardsBySet(ctx context.Context, setID catalog.SetID) ([]catalog.CardRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE set_id = ? ORDER BY card_id ASC, language ASC`,
		string(setID))
	if err != nil {
		return nil, storeErr("list cards by set", err)
	}
	defer rows.Close()

	var result []catalog.CardRecord
	for rows.Next() {
		record, err := scanCard(rows)
		if err != nil {
			return nil, storeErr("list cards by set", err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (s *Store) ResolveCards(ctx context.Context, cardIDs []catalog.CardID) (map[catalog.CardID]catalog.CardRef, error) {
	refs := make(map[catalog.CardID]catalog.CardRef, len(cardIDs))
	if len(cardIDs) == 0 {
		return refs, nil
	}

	// One query for the whole batch; the IN list is deduplicated first.
	seen := make(map[catalog.CardID]struct{}, len(cardIDs))
	var unique []any
	var placeholders []string
	for _, id := range cardIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, string(id))
		placeholders = append(placeholders, "?")
	}

	query := `SELECT card_id, set_id, rarity FROM cards
		WHERE card_id IN (` + strings.Join(placeholders, ",") + `) GROUP BY card_id`
	rows, err := s.db.QueryContext(ctx, query, unique...)
	if err != nil {
		return nil, storeErr("resolve cards", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cardID, setID string
		var rarity sql.NullString
		if err := rows.Scan(&cardID, &setID, &rarity); err != nil {
			return nil, storeErr("resolve cards", err)
		}
		refs[catalog.CardID(cardID)] = catalog.CardRef{SetID: catalog.SetID(setID), Rarity: rarity.String}
	}
	return refs, rows.Err()
}

// =============================================================================
// COLLECTION STORE
// =============================================================================

const ownershipColumns = `id, user_id, card_id, language, name, set_id, series_id, rarity, hp, image_url,
	market_price, condition, price, notes, acquired_at, quantity, created_at, updated_at`

func scanOwnership(scanner interface{ Scan(...any) error }) (catalog.OwnershipEntry, error) {
	var (
		e                                            catalog.OwnershipEntry
		id, userID, cardID, language, name           string
		setID, seriesID, rarity, imageURL, condition sql.NullString
		marketPrice, price, notes                    sql.NullString
		acquiredAt, createdAt, updatedAt             string
	)
	err := scanner.Scan(&id, &userID, &cardID, &language, &name, &setID, &seriesID, &rarity, &e.HP, &imageURL,
		&marketPrice, &condition, &price, &notes, &acquiredAt, &e.Quantity, &createdAt, &updatedAt)
	if err != nil {
		return e, err
	}
	e.ID = catalog.EntryID(id)
	e.UserID = catalog.UserID(userID)
	e.CardID = catalog.CardID(cardID)
	e.Language = catalog.Language(language)
	e.Name = name
	e.SetID = catalog.SetID(setID.String)
	e.SeriesID = catalog.SeriesID(seriesID.String)
	e.Rarity = rarity.String
	e.ImageURL = imageURL.String
	e.MarketPrice = decodeDecimal(marketPrice)
	e.Condition = condition.String
	e.Price = decodeDecimal(price)
	e.Notes = notes.String
	e.AcquiredAt = decodeTime(acquiredAt)
	e.CreatedAt = decodeTime(createdAt)
	e.UpdatedAt = decodeTime(updatedAt)
	return e, nil
}

func (s *Store) InsertOwnership(ctx context.Context, entry catalog.OwnershipEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collection_items (`+ownershipColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(entry.ID), string(entry.UserID), string(entry.CardID), string(entry.Language),
		entry.Name, string(entry.SetID), string(entry.SeriesID), entry.Rarity, entry.HP, entry.ImageURL,
		encodeDecimal(entry.MarketPrice), entry.Condition, encodeDecimal(entry.Price), entry.Notes,
		encodeTime(entry.AcquiredAt), entry.Quantity, encodeTime(entry.CreatedAt), encodeTime(entry.UpdatedAt))
	if err != nil {
		return storeErr("insert ownership", err)
	}
	return nil
}

func (s *Store) ListOwnership(ctx context.Context, userID catalog.UserID) ([]catalog.OwnershipEntry, error) {
	return s.queryOwnership(ctx, "list ownership",
		`SELECT `+ownershipColumns+` FROM collection_items WHERE user_id = ? ORDER BY created_at DESC`,
		string(userID))
}

func (s *Store) ListOwnershipByCard(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) ([]catalog.OwnershipEntry, error) {
	return s.queryOwnership(ctx, "list ownership by card",
		`SELECT `+ownershipColumns+` FROM collection_items WHERE user_id = ? AND card_id = ? ORDER BY created_at DESC`,
		string(userID), string(cardID))
}

func (s *Store) queryOwnership(ctx context.Context, op, query string, args ...any) ([]catalog.OwnershipEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var result []catalog.OwnershipEntry
	for rows.Next() {
		entry, err := scanOwnership(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (s *Store) UpdateOwnership(ctx context.Context, entry catalog.OwnershipEntry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE collection_items
		SET condition = ?, price = ?, notes = ?, acquired_at = ?, quantity = ?, updated_at = ?
		WHERE id = ?`,
		entry.Condition, encodeDecimal(entry.Price), entry.Notes, encodeTime(entry.AcquiredAt),
		entry.Quantity, encodeTime(entry.UpdatedAt), string(entry.ID))
	if err != nil {
		return storeErr("update ownership", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteOwnership(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM collection_items WHERE user_id = ? AND card_id = ?`,
		string(userID), string(cardID))
	if err != nil {
		return 0, storeErr("delete ownership", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) CountOwnership(ctx context.Context, userID catalog.UserID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collection_items WHERE user_id = ?`, string(userID)).Scan(&n)
	if err != nil {
		return 0, storeErr("count ownership", err)
	}
	return n, nil
}

// =============================================================================
// WISHLIST STORE
// =============================================================================

const wishlistColumns = `id, user_id, card_id, language, name, set_id, series_id, rarity, image_url,
	market_price, priority, desired_price, notes, created_at, updated_at`

func scanWishlist(scanner interface{ Scan(...any) error }) (catalog.WishlistEntry, error) {
	var (
		e                                  catalog.WishlistEntry
		id, userID, cardID, language, name string
		setID, seriesID, rarity, imageURL  sql.NullString
		marketPrice, desiredPrice, notes   sql.NullString
		priority                           int
		createdAt, updatedAt               string
	)
	err := scanner.Scan(&id, &userID, &cardID, &language, &name, &setID, &seriesID, &rarity, &imageURL,
		&marketPrice, &priority, &desiredPrice, &notes, &createdAt, &updatedAt)
	if err != nil {
		return e, err
	}
	e.ID = catalog.EntryID(id)
	e.UserID = catalog.UserID(userID)
	e.CardID = catalog.CardID(cardID)
	e.Language = catalog.Language(language)
	e.Name = name
	e.SetID = catalog.SetID(setID.String)
	e.SeriesID = catalog.SeriesID(seriesID.String)
	e.Rarity = rarity.String
	e.ImageURL = imageURL.String
	e.MarketPrice = decodeDecimal(marketPrice)
	e.Priority = catalog.Priority(priority)
	e.DesiredPrice = decodeDecimal(desiredPrice)
	e.Notes = notes.String
	e.CreatedAt = decodeTime(createdAt)
	e.UpdatedAt = decodeTime(updatedAt)
	return e, nil
}

func (s *Store) InsertWishlist(ctx context.Context, entry catalog.WishlistEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (`+wishlistColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(entry.ID), string(entry.UserID), string(entry.CardID), string(entry.Language),
		entry.Name, string(entry.SetID), string(entry.SeriesID), entry.Rarity, entry.ImageURL,
		encodeDecimal(entry.MarketPrice), int(entry.Priority), encodeDecimal(entry.DesiredPrice), entry.Notes,
		encodeTime(entry.CreatedAt), encodeTime(entry.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return &catalog.DuplicateWishlistError{UserID: entry.UserID, CardID: entry.CardID}
		}
		return storeErr("insert wishlist", err)
	}
	return nil
}

func (s *Store) GetWishlistEntry(ctx context.Context, entryID catalog.EntryID) (*catalog.WishlistEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wishlistColumns+` FROM wishlist_items WHERE id = ?`, string(entryID))
	entry, err := scanWishlist(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get wishlist entry", err)
	}
	return &entry, nil
}

func (s *Store) ListWishlist(ctx context.Context, userID catalog.UserID) ([]catalog.WishlistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+wishlistColumns+` FROM wishlist_items WHERE user_id = ? ORDER BY created_at DESC`,
		string(userID))
	if err != nil {
		return nil, storeErr("list wishlist", err)
	}
	defer rows.Close()

	var result []catalog.WishlistEntry
	for rows.Next() {
		entry, err := scanWishlist(rows)
		if err != nil {
			return nil, storeErr("list wishlist", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (s *Store) FindWishlist(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) (*catalog.WishlistEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wishlistColumns+` FROM wishlist_items WHERE user_id = ? AND card_id = ?`,
		string(userID), string(cardID))
	entry, err := scanWishlist(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find wishlist", err)
	}
	return &entry, nil
}

func (s *Store) UpdateWishlist(ctx context.Context, entry catalog.WishlistEntry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE wishlist_items
		SET priority = ?, desired_price = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		int(entry.Priority), encodeDecimal(entry.DesiredPrice), entry.Notes,
		encodeTime(entry.UpdatedAt), string(entry.ID))
	if err != nil {
		return storeErr("update wishlist", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteWishlist(ctx context.Context, userID catalog.UserID, cardID catalog.CardID) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = ? AND card_id = ?`,
		string(userID), string(cardID))
	if err != nil {
		return 0, storeErr("delete wishlist", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) CountWishlist(ctx context.Context, userID catalog.UserID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wishlist_items WHERE user_id = ?`, string(userID)).Scan(&n)
	if err != nil {
		return 0, storeErr("count wishlist", err)
	}
	return n, nil
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

func (s *Store) SaveValueSnapshot(ctx context.Context, snapshot catalog.ValueSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO value_snapshots (id, user_id, taken_at, total_cards, unique_cards, manual_total, market_total)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID, string(snapshot.UserID), encodeTime(snapshot.TakenAt),
		snapshot.TotalCards, snapshot.UniqueCards,
		snapshot.ManualTotal.String(), snapshot.MarketTotal.String())
	if err != nil {
		return storeErr("save value snapshot", err)
	}
	return nil
}

func (s *Store) ListValueSnapshots(ctx context.Context, userID catalog.UserID, from, to time.Time) ([]catalog.ValueSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, taken_at, total_cards, unique_cards, manual_total, market_total
		FROM value_snapshots
		WHERE user_id = ? AND taken_at >= ? AND taken_at <= ?
		ORDER BY taken_at ASC`,
		string(userID), encodeTime(from), encodeTime(to))
	if err != nil {
		return nil, storeErr("list value snapshots", err)
	}
	defer rows.Close()

	var result []catalog.ValueSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, storeErr("list value snapshots", err)
		}
		result = append(result, snap)
	}
	return result, rows.Err()
}

func (s *Store) LatestValueSnapshot(ctx context.Context, userID catalog.UserID) (*catalog.ValueSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, taken_at, total_cards, unique_cards, manual_total, market_total
		FROM value_snapshots WHERE user_id = ? ORDER BY taken_at DESC LIMIT 1`,
		string(userID))
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("latest value snapshot", err)
	}
	return &snap, nil
}

func scanSnapshot(scanner interface{ Scan(...any) error }) (catalog.ValueSnapshot, error) {
	var (
		snap                            catalog.ValueSnapshot
		userID, takenAt, manual, market string
	)
	if err := scanner.Scan(&snap.ID, &userID, &takenAt, &snap.TotalCards, &snap.UniqueCards, &manual, &market); err != nil {
		return snap, err
	}
	snap.UserID = catalog.UserID(userID)
	snap.TakenAt = decodeTime(takenAt)
	snap.ManualTotal, _ = decimal.NewFromString(manual)
	snap.MarketTotal, _ = decimal.NewFromString(market)
	return snap, nil
}
