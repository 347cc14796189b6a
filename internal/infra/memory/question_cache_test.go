package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"quiz-arena/internal/domain"
)

type countingLoader struct {
	QuestionLoader
	byIDCalls   int
	randomCalls int
}

func (l *countingLoader) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	l.byIDCalls++
	return l.QuestionLoader.FindByID(ctx, id)
}

func (l *countingLoader) FindRandom(ctx context.Context, n int) ([]domain.Question, error) {
	l.randomCalls++
	return l.QuestionLoader.FindRandom(ctx, n)
}

func TestCachedStoreCachesByID(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionStore(sampleQuestions())}
	cache := NewCachedQuestionStore(loader, time.Minute)

	if _, err := cache.FindByID(context.Background(), 1); err != nil {
		t.Fatalf("find: %v", err)
	}
	if loader.byIDCalls != 1 {
		t.Fatalf("expected loader once, got %d", loader.byIDCalls)
	}

	if _, err := cache.FindByID(context.Background(), 1); err != nil {
		t.Fatalf("find 2: %v", err)
	}
	if loader.byIDCalls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.byIDCalls)
	}
}

func TestCachedStoreConcurrentMisses(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionStore(sampleQuestions())}
	cache := NewCachedQuestionStore(loader, time.Minute)

	var wg sync.WaitGroup
	for id := int64(1); id <= 3; id++ {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				if _, err := cache.FindByID(context.Background(), id); err != nil {
					t.Errorf("find %d: %v", id, err)
				}
			}(id)
		}
	}
	wg.Wait()
}

func TestCachedStoreRandomPassesThrough(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionStore(sampleQuestions())}
	cache := NewCachedQuestionStore(loader, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cache.FindRandom(context.Background(), 2); err != nil {
			t.Fatalf("random: %v", err)
		}
	}
	if loader.randomCalls != 3 {
		t.Fatalf("random draws must not be cached, loader calls %d", loader.randomCalls)
	}
}
