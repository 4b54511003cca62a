package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/phuslu/log"
	_ "modernc.org/sqlite"

	"github.com/kenmiya/gurume/internal/model"
)

// Store is the durable favorite-shop set, keyed by shop id. It keeps an
// in-memory mirror of the table and reloads it after every mutation, so the
// mirror only ever reflects what actually persisted.
type Store struct {
	db     *sql.DB
	logger *log.Logger

	mu     sync.Mutex
	mirror []model.Shop // descending created_at
	byID   map[string]bool

	notify chan struct{}
}

func NewStore(dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = &log.DefaultLogger
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:     db,
		logger: logger,
		byID:   make(map[string]bool),
		notify: make(chan struct{}, 1),
	}
	s.mu.Lock()
	s.reloadLocked()
	s.mu.Unlock()
	return s, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		station_name TEXT,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		access TEXT,
		open_hours TEXT,
		catch TEXT,
		genre_name TEXT,
		budget_name TEXT,
		capacity TEXT,
		capacity_is_int INTEGER NOT NULL DEFAULT 0,
		photo_url TEXT,
		thumb_url TEXT,
		website_url TEXT,
		card TEXT,
		parking TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_favorites_created_at ON favorites(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Changes returns a coalescing channel poked after every mutation.
func (s *Store) Changes() <-chan struct{} {
	return s.notify
}

// List returns the favorites, most recently added first. A read failure
// degrades to an empty list; it never propagates.
func (s *Store) List() []model.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Shop, len(s.mirror))
	copy(out, s.mirror)
	return out
}

// IsFavorite reports membership against the in-memory mirror.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

// Count returns the number of favorites currently mirrored.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mirror)
}

// Add persists the shop with a creation timestamp. No-op when the id is
// already a favorite.
func (s *Store) Add(shop model.Shop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID[shop.ID] {
		return nil
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO favorites
		(id, name, address, station_name, lat, lng, access, open_hours, catch,
		 genre_name, budget_name, capacity, capacity_is_int, photo_url,
		 thumb_url, website_url, card, parking, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		shop.ID, shop.Name, shop.Address, shop.StationName, shop.Lat, shop.Lng,
		shop.Access, shop.Open, shop.Catch, shop.GenreName, shop.BudgetName,
		shop.Capacity.String(), shop.Capacity.IsInt, shop.PhotoURL,
		shop.ThumbURL, shop.WebsiteURL, shop.Card, shop.Parking,
		time.Now().UnixNano(),
	)
	// Reload even on failure: the mirror must reflect what actually
	// persisted, never the optimistic state of a write that did not land.
	s.reloadLocked()
	s.publish()
	if err != nil {
		s.logger.Error().Err(err).Str("id", shop.ID).Msg("favorite insert failed")
		return fmt.Errorf("inserting favorite: %w", err)
	}
	return nil
}

// Remove deletes the favorite with the given id; no-op when absent.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM favorites WHERE id = ?`, id)
	s.reloadLocked()
	s.publish()
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("favorite delete failed")
		return fmt.Errorf("deleting favorite: %w", err)
	}
	return nil
}

// RemoveMany removes each id independently; one failure does not roll back
// the others.
func (s *Store) RemoveMany(ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := s.Remove(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Toggle removes the shop when it is a favorite, adds it otherwise.
// Returns true when the shop is a favorite after the call.
func (s *Store) Toggle(shop model.Shop) (bool, error) {
	if s.IsFavorite(shop.ID) {
		return false, s.Remove(shop.ID)
	}
	return true, s.Add(shop)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// reloadLocked refreshes the mirror from the database. Caller holds s.mu.
// On read failure the mirror degrades to empty.
func (s *Store) reloadLocked() {
	rows, err := s.db.Query(`
		SELECT id, name, address, station_name, lat, lng, access, open_hours,
		       catch, genre_name, budget_name, capacity, capacity_is_int,
		       photo_url, thumb_url, website_url, card, parking
		FROM favorites ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		s.logger.Error().Err(err).Msg("favorite reload failed")
		s.mirror = nil
		s.byID = make(map[string]bool)
		return
	}
	defer rows.Close()

	var mirror []model.Shop
	byID := make(map[string]bool)
	for rows.Next() {
		var shop model.Shop
		var capacity string
		var capacityIsInt bool
		if err := rows.Scan(
			&shop.ID, &shop.Name, &shop.Address, &shop.StationName,
			&shop.Lat, &shop.Lng, &shop.Access, &shop.Open, &shop.Catch,
			&shop.GenreName, &shop.BudgetName, &capacity, &capacityIsInt,
			&shop.PhotoURL, &shop.ThumbURL, &shop.WebsiteURL,
			&shop.Card, &shop.Parking,
		); err != nil {
			continue
		}
		shop.Capacity = model.Capacity{Str: capacity}
		if capacityIsInt {
			if n, err := strconv.Atoi(capacity); err == nil {
				shop.Capacity = model.Capacity{Int: n, IsInt: true}
			}
		}
		mirror = append(mirror, shop)
		byID[shop.ID] = true
	}

	s.mirror = mirror
	s.byID = byID
}

func (s *Store) publish() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
