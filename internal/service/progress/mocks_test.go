package progress

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

var (
	_ progressRepo = &progressRepoMock{}
	_ setSizer     = &setSizerMock{}
	_ txManager    = &txManagerMock{}
)

type progressRepoMock struct {
	UpsertFunc       func(ctx context.Context, p domain.Progress) error
	ListLearnedFunc  func(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) ([]string, error)
	CountLearnedFunc func(ctx context.Context, learnerID uuid.UUID, set domain.SetKey, family domain.CardFamily) (int, error)
	DeleteSetFunc    func(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) (int, error)

	mu          sync.Mutex
	upsertCalls []domain.Progress
}

func (m *progressRepoMock) Upsert(ctx context.Context, p domain.Progress) error {
	if m.UpsertFunc == nil {
		panic("progressRepoMock.UpsertFunc: method is nil but progressRepo.Upsert was just called")
	}
	m.mu.Lock()
	m.upsertCalls = append(m.upsertCalls, p)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, p)
}

func (m *progressRepoMock) UpsertCalls() []domain.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCalls
}

func (m *progressRepoMock) ListLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) ([]string, error) {
	if m.ListLearnedFunc == nil {
		panic("progressRepoMock.ListLearnedFunc: method is nil but progressRepo.ListLearned was just called")
	}
	return m.ListLearnedFunc(ctx, learnerID, set)
}

func (m *progressRepoMock) CountLearned(ctx context.Context, learnerID uuid.UUID, set domain.SetKey, family domain.CardFamily) (int, error) {
	if m.CountLearnedFunc == nil {
		panic("progressRepoMock.CountLearnedFunc: method is nil but progressRepo.CountLearned was just called")
	}
	return m.CountLearnedFunc(ctx, learnerID, set, family)
}

func (m *progressRepoMock) DeleteSet(ctx context.Context, learnerID uuid.UUID, set domain.SetKey) (int, error) {
	if m.DeleteSetFunc == nil {
		panic("progressRepoMock.DeleteSetFunc: method is nil but progressRepo.DeleteSet was just called")
	}
	return m.DeleteSetFunc(ctx, learnerID, set)
}

type setSizerMock struct {
	SetSizeFunc func(ctx context.Context, lang domain.Language, level domain.Level) (int, domain.CardFamily, error)
}

func (m *setSizerMock) SetSize(ctx context.Context, lang domain.Language, level domain.Level) (int, domain.CardFamily, error) {
	if m.SetSizeFunc == nil {
		panic("setSizerMock.SetSizeFunc: method is nil but setSizer.SetSize was just called")
	}
	return m.SetSizeFunc(ctx, lang, level)
}

// txManagerMock runs fn directly and counts the calls.
type txManagerMock struct {
	mu    sync.Mutex
	calls int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *txManagerMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
