package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

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

// CachedQuestionStore caches per-id lookups with TTL to avoid repeated DB
// hits. Random draws, category filters, and counts pass through to the
// loader since their results change between calls.
type CachedQuestionStore struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[int64]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewCachedQuestionStore(loader QuestionLoader, ttl time.Duration) *CachedQuestionStore {
	return &CachedQuestionStore{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuestion),
	}
}

func (s *CachedQuestionStore) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	now := s.clock()

	s.mu.RLock()
	if entry, ok := s.cache[id]; ok && entry.expiresAt.After(now) {
		s.mu.RUnlock()
		return entry.question, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.sf.Do(keyForID(id), func() (interface{}, error) {
		now := s.clock()
		s.mu.RLock()
		if entry, ok := s.cache[id]; ok && entry.expiresAt.After(now) {
			s.mu.RUnlock()
			return entry.question, nil
		}
		s.mu.RUnlock()

		question, err := s.loader.FindByID(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		s.mu.Lock()
		s.cache[id] = cachedQuestion{
			question:  question,
			expiresAt: now.Add(s.ttlWithJitter()),
		}
		s.mu.Unlock()
		return question, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (s *CachedQuestionStore) FindByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	return s.loader.FindByCategory(ctx, category)
}

func (s *CachedQuestionStore) FindRandom(ctx context.Context, n int) ([]domain.Question, error) {
	return s.loader.FindRandom(ctx, n)
}

func (s *CachedQuestionStore) Count(ctx context.Context) (int, error) {
	return s.loader.Count(ctx)
}

func keyForID(id int64) string {
	return "question:" + strconv.FormatInt(id, 10)
}

func (s *CachedQuestionStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
