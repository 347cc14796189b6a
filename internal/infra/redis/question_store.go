package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-arena/internal/domain"
)

// QuestionLoader fetches questions from a backing store (e.g., Postgres).
type QuestionLoader interface {
	FindByID(ctx context.Context, id int64) (domain.Question, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Question, error)
	FindRandom(ctx context.Context, n int) ([]domain.Question, error)
	Count(ctx context.Context) (int, error)
}

// QuestionStore caches individual questions as JSON in Redis
// (SET question:{id} {json} with TTL) and falls back to the loader on a miss.
// Random draws, category filters, and counts pass through to the loader.
type QuestionStore struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionStore(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionStore {
	return &QuestionStore{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *QuestionStore) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	key := s.key(id)

	if raw, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err == nil {
			return q, nil
		}
		// corrupt entry: fall through and reload
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := s.client.Get(ctx, key).Bytes(); err == nil {
			var q domain.Question
			if err := json.Unmarshal(raw, &q); err == nil {
				return q, nil
			}
		}

		q, err := s.loader.FindByID(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		if raw, err := json.Marshal(q); err == nil {
			_ = s.client.Set(ctx, key, raw, s.ttlWithJitter()).Err()
		}
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (s *QuestionStore) FindByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	return s.loader.FindByCategory(ctx, category)
}

func (s *QuestionStore) FindRandom(ctx context.Context, n int) ([]domain.Question, error) {
	return s.loader.FindRandom(ctx, n)
}

func (s *QuestionStore) Count(ctx context.Context) (int, error) {
	return s.loader.Count(ctx)
}

func (s *QuestionStore) key(id int64) string {
	return "question:" + strconv.FormatInt(id, 10)
}

// ttlWithJitter takes its own lock: concurrent misses on different
// singleflight keys reach the shared rand together.
func (s *QuestionStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	jitterMax := int64(s.ttl) / 10
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
