package cache

import (
	"fmt"
	"strings"

	"github.com/coocood/freecache"
)

const (
	recommendationsCacheSize = 20 * 1024 * 1024
	// recommendations are cheap to recompute; keep them briefly so bursts
	// of identical requests from the mobile app hit the cache
	recommendationExpireSeconds = 5 * 60
)

// Recommendations caches marshaled workout recommendation responses per
// user/exercise key.
type Recommendations struct {
	cache *freecache.Cache
}

func NewRecommendations() *Recommendations {
	return &Recommendations{
		cache: freecache.NewCache(recommendationsCacheSize),
	}
}

func WorkoutKey(userID string) string {
	return fmt.Sprintf("workout::%s", userID)
}

func ExerciseKey(userID, exerciseID string) string {
	return fmt.Sprintf("exercise::%s::%s", userID, exerciseID)
}

func (r *Recommendations) Get(key string) ([]byte, bool) {
	value, err := r.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

func (r *Recommendations) Set(key string, value []byte) error {
	return r.cache.Set([]byte(key), value, recommendationExpireSeconds)
}

// InvalidateUser drops the user's cached workout recommendation along
// with every per-exercise entry, so stale suggestions never outlive
// fresh training data.
// TODO: call this from the session ingest path once workout writes move
// into this service; today only expiry retires entries.
func (r *Recommendations) InvalidateUser(userID string) {
	exercisePrefix := ExerciseKey(userID, "")

	keys := [][]byte{[]byte(WorkoutKey(userID))}
	it := r.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		if strings.HasPrefix(string(entry.Key), exercisePrefix) {
			keys = append(keys, append([]byte(nil), entry.Key...))
		}
	}
	for _, key := range keys {
		r.cache.Del(key)
	}
}

func (r *Recommendations) Clear() {
	r.cache.Clear()
}
