package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tsukino/aniwatch/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketProgress  = []byte("progress")
	bucketWatchlist = []byte("watchlist")
	bucketComments  = []byte("comments")
	bucketRatings   = []byte("ratings")
)

// Fixed keys inside the progress bucket. Both mappings are stored as a single
// blob each, so every update is a read-modify-write of the whole mapping.
const (
	keyWatchedMap  = "watched"
	keyProgressMap = "records"
	keyWatchlist   = "list"
)

// Store implements the local durable key-value cache on BoltDB.
// All values are JSON blobs; a memory cache promotes hot keys on access.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	cache map[string][]byte
}

// New opens (or creates) the store under baseDir. An empty baseDir selects
// memory-only mode with no persistence, used by tests.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(baseDir, "aniwatch.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketProgress, bucketWatchlist, bucketComments, bucketRatings} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

// === Progress & watched mappings (whole-blob granularity) ===

func (s *Store) GetWatchedMap() (map[string][]string, bool) {
	var m map[string][]string
	ok := s.get(bucketProgress, keyWatchedMap, &m)
	return m, ok
}

func (s *Store) SaveWatchedMap(m map[string][]string) error {
	return s.set(bucketProgress, keyWatchedMap, m)
}

func (s *Store) GetProgressMap() (map[string]domain.EpisodeProgress, bool) {
	var m map[string]domain.EpisodeProgress
	ok := s.get(bucketProgress, keyProgressMap, &m)
	return m, ok
}

func (s *Store) SaveProgressMap(m map[string]domain.EpisodeProgress) error {
	return s.set(bucketProgress, keyProgressMap, m)
}

// === Watchlist ===

func (s *Store) GetWatchlist() ([]domain.WatchlistEntry, bool) {
	var entries []domain.WatchlistEntry
	ok := s.get(bucketWatchlist, keyWatchlist, &entries)
	return entries, ok
}

func (s *Store) SaveWatchlist(entries []domain.WatchlistEntry) error {
	return s.set(bucketWatchlist, keyWatchlist, entries)
}

// === Comments (keyed per episode) ===

func (s *Store) GetComments(animeID, episodeID string) ([]domain.Comment, bool) {
	var comments []domain.Comment
	ok := s.get(bucketComments, commentKey(animeID, episodeID), &comments)
	return comments, ok
}

func (s *Store) SaveComments(animeID, episodeID string, comments []domain.Comment) error {
	return s.set(bucketComments, commentKey(animeID, episodeID), comments)
}

func commentKey(animeID, episodeID string) string {
	return fmt.Sprintf("ep:%s:%s", animeID, episodeID)
}

// === Ratings (author -> value per anime; aggregation happens in the service) ===

func (s *Store) GetRatings(animeID string) (map[string]float64, bool) {
	var ratings map[string]float64
	ok := s.get(bucketRatings, animeID, &ratings)
	return ratings, ok
}

func (s *Store) SaveRatings(animeID string, ratings map[string]float64) error {
	return s.set(bucketRatings, animeID, ratings)
}
