package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quiz-arena/internal/domain"
)

// StaticQuestionStore is an in-memory question catalog (tests/demo fallback
// when no database is configured).
type StaticQuestionStore struct {
	mu        sync.RWMutex
	rnd       *rand.Rand
	nextID    int64
	questions map[int64]domain.Question
	order     []int64
}

func NewStaticQuestionStore(questions []domain.Question) *StaticQuestionStore {
	s := &StaticQuestionStore{
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		questions: make(map[int64]domain.Question),
	}
	for _, q := range questions {
		s.Add(q)
	}
	return s
}

// Add registers a question, assigning an id when none is set. Returns the
// stored question.
func (s *StaticQuestionStore) Add(q domain.Question) domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == 0 {
		s.nextID++
		q.ID = s.nextID
	} else if q.ID > s.nextID {
		s.nextID = q.ID
	}
	if _, exists := s.questions[q.ID]; !exists {
		s.order = append(s.order, q.ID)
	}
	s.questions[q.ID] = q
	return q
}

func (s *StaticQuestionStore) FindByID(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.questions[id]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *StaticQuestionStore) FindByCategory(_ context.Context, category string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for _, id := range s.order {
		if q := s.questions[id]; q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *StaticQuestionStore) FindRandom(_ context.Context, n int) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, len(s.order))
	copy(ids, s.order)
	s.rnd.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if n > len(ids) {
		n = len(ids)
	}
	out := make([]domain.Question, 0, n)
	for _, id := range ids[:n] {
		out = append(out, s.questions[id])
	}
	return out, nil
}

func (s *StaticQuestionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

// Create stores a question and assigns an id.
func (s *StaticQuestionStore) Create(_ context.Context, q domain.Question) (domain.Question, error) {
	return s.Add(q), nil
}

// List returns every question in insertion order.
func (s *StaticQuestionStore) List(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.questions[id])
	}
	return out, nil
}

// Update replaces a stored question by id.
func (s *StaticQuestionStore) Update(_ context.Context, q domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	s.questions[q.ID] = q
	return q, nil
}

// Delete removes a question by id.
func (s *StaticQuestionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
