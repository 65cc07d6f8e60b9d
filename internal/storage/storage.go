package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGameSeq     = "seq/game"
	gamePrefix     = "game/"
)

// ErrNotFound is returned when a requested game is not in the archive.
var ErrNotFound = errors.New("not found")

// Game results as written by the GUI.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultUnknown   = "*"
)

// Preferences stores engine settings that outlive a session.
type Preferences struct {
	Depth      int       `json:"depth"`
	Threads    int       `json:"threads"`
	RenderDir  string    `json:"render_dir"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default engine preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:   4,
		Threads: 1,
	}
}

// GameStats stores game statistics from the engine's point of view.
type GameStats struct {
	GamesPlayed    int           `json:"games_played"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	Draws          int           `json:"draws"`
	TotalPlayTime  time.Duration `json:"total_play_time"`
	LongestWinStrk int           `json:"longest_win_streak"`
	CurrentStreak  int           `json:"current_streak"`
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// GameRecord is one archived game.
type GameRecord struct {
	ID         uint64    `json:"id"`
	EngineSide string    `json:"engine_side"` // "white" or "black"
	StartFEN   string    `json:"start_fen"`
	Moves      []string  `json:"moves"`
	Result     string    `json:"result"`
	Reason     string    `json:"reason,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the game lasted.
func (g *GameRecord) Duration() time.Duration {
	if g.StartedAt.IsZero() || g.FinishedAt.Before(g.StartedAt) {
		return 0
	}
	return g.FinishedAt.Sub(g.StartedAt)
}

// outcome returns +1, 0 or -1 for an engine win, draw or loss, and false
// for an unfinished game.
func (g *GameRecord) outcome() (int, bool) {
	switch g.Result {
	case ResultDraw:
		return 0, true
	case ResultWhiteWins:
		if g.EngineSide == "white" {
			return 1, true
		}
		return -1, true
	case ResultBlackWins:
		if g.EngineSide == "black" {
			return 1, true
		}
		return -1, true
	}
	return 0, false
}

func gameKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", gamePrefix, id))
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens the archive in dir, or in the platform database directory
// when dir is empty.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens an archive that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("game sequence: %w", err)
	}

	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.db.Close()
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves engine preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads engine preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(keyPreferences), prefs)
	})
	if errors.Is(err, ErrNotFound) {
		err = nil
	}

	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(keyStats), stats)
	})
	if errors.Is(err, ErrNotFound) {
		err = nil
	}

	return stats, err
}

// SaveGame stores rec, assigning it the next ID when it has none.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == 0 {
		next, err := s.seq.Next()
		if err != nil {
			return fmt.Errorf("next game id: %w", err)
		}
		rec.ID = next + 1
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame returns the game with the given ID.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	rec := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, gameKey(id), rec)
	})
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", id, err)
	}
	return rec, nil
}

// ListGames returns every archived game in ID order.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}

// RecordResult folds a finished game into the statistics. Unfinished games
// are ignored.
func (s *Storage) RecordResult(rec *GameRecord) error {
	outcome, finished := rec.outcome()
	if !finished {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats := &GameStats{}
		if err := getJSON(txn, []byte(keyStats), stats); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		stats.GamesPlayed++
		stats.TotalPlayTime += rec.Duration()

		switch outcome {
		case 1:
			stats.Wins++
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestWinStrk {
				stats.LongestWinStrk = stats.CurrentStreak
			}
		case 0:
			stats.Draws++
			stats.CurrentStreak = 0
		default:
			stats.Losses++
			stats.CurrentStreak = 0
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// getJSON decodes the value under key into v, or returns ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
