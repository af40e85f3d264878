package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/chat"
	"github.com/heartmarshall/lingua-cards/internal/service/progress"
	"github.com/heartmarshall/lingua-cards/internal/service/vocabulary"
)

var (
	_ vocabularyService = &vocabularyServiceMock{}
	_ progressService   = &progressServiceMock{}
	_ chatService       = &chatServiceMock{}
)

type vocabularyServiceMock struct {
	LevelsFunc      func() []vocabulary.SetInfo
	LoadFunc        func(ctx context.Context, lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, error)
	LoadTopicalFunc func(ctx context.Context, lang domain.Language, level domain.Level) (*domain.TopicMap, error)
	FlashcardsFunc  func(ctx context.Context, lang domain.Language, level domain.Level) (*vocabulary.Deck, error)
}

func (mock *vocabularyServiceMock) Levels() []vocabulary.SetInfo {
	if mock.LevelsFunc == nil {
		panic("vocabularyServiceMock.LevelsFunc: method is nil but vocabularyService.Levels was just called")
	}
	return mock.LevelsFunc()
}

func (mock *vocabularyServiceMock) Load(ctx context.Context, lang domain.Language, level domain.Level) ([]domain.VocabularyEntry, error) {
	if mock.LoadFunc == nil {
		panic("vocabularyServiceMock.LoadFunc: method is nil but vocabularyService.Load was just called")
	}
	return mock.LoadFunc(ctx, lang, level)
}

func (mock *vocabularyServiceMock) LoadTopical(ctx context.Context, lang domain.Language, level domain.Level) (*domain.TopicMap, error) {
	if mock.LoadTopicalFunc == nil {
		panic("vocabularyServiceMock.LoadTopicalFunc: method is nil but vocabularyService.LoadTopical was just called")
	}
	return mock.LoadTopicalFunc(ctx, lang, level)
}

func (mock *vocabularyServiceMock) Flashcards(ctx context.Context, lang domain.Language, level domain.Level) (*vocabulary.Deck, error) {
	if mock.FlashcardsFunc == nil {
		panic("vocabularyServiceMock.FlashcardsFunc: method is nil but vocabularyService.Flashcards was just called")
	}
	return mock.FlashcardsFunc(ctx, lang, level)
}

type progressServiceMock struct {
	SetLearnedFunc  func(ctx context.Context, in progress.SetLearnedInput) (*domain.Progress, error)
	ListLearnedFunc func(ctx context.Context, lang domain.Language, level domain.Level) ([]string, error)
	SummaryFunc     func(ctx context.Context, lang domain.Language, level domain.Level) (*domain.ProgressSummary, error)
	ResetFunc       func(ctx context.Context, lang domain.Language, level domain.Level) (int, error)
	SyncFunc        func(ctx context.Context, in progress.SyncInput) (*progress.SyncResult, error)

	calls struct {
		SetLearned []progress.SetLearnedInput
		Sync       []progress.SyncInput
	}
	lock sync.RWMutex
}

func (mock *progressServiceMock) SetLearned(ctx context.Context, in progress.SetLearnedInput) (*domain.Progress, error) {
	if mock.SetLearnedFunc == nil {
		panic("progressServiceMock.SetLearnedFunc: method is nil but progressService.SetLearned was just called")
	}
	mock.lock.Lock()
	mock.calls.SetLearned = append(mock.calls.SetLearned, in)
	mock.lock.Unlock()
	return mock.SetLearnedFunc(ctx, in)
}

func (mock *progressServiceMock) SetLearnedCalls() []progress.SetLearnedInput {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SetLearned
}

func (mock *progressServiceMock) ListLearned(ctx context.Context, lang domain.Language, level domain.Level) ([]string, error) {
	if mock.ListLearnedFunc == nil {
		panic("progressServiceMock.ListLearnedFunc: method is nil but progressService.ListLearned was just called")
	}
	return mock.ListLearnedFunc(ctx, lang, level)
}

func (mock *progressServiceMock) Summary(ctx context.Context, lang domain.Language, level domain.Level) (*domain.ProgressSummary, error) {
	if mock.SummaryFunc == nil {
		panic("progressServiceMock.SummaryFunc: method is nil but progressService.Summary was just called")
	}
	return mock.SummaryFunc(ctx, lang, level)
}

func (mock *progressServiceMock) Reset(ctx context.Context, lang domain.Language, level domain.Level) (int, error) {
	if mock.ResetFunc == nil {
		panic("progressServiceMock.ResetFunc: method is nil but progressService.Reset was just called")
	}
	return mock.ResetFunc(ctx, lang, level)
}

func (mock *progressServiceMock) Sync(ctx context.Context, in progress.SyncInput) (*progress.SyncResult, error) {
	if mock.SyncFunc == nil {
		panic("progressServiceMock.SyncFunc: method is nil but progressService.Sync was just called")
	}
	mock.lock.Lock()
	mock.calls.Sync = append(mock.calls.Sync, in)
	mock.lock.Unlock()
	return mock.SyncFunc(ctx, in)
}

func (mock *progressServiceMock) SyncCalls() []progress.SyncInput {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Sync
}

type chatServiceMock struct {
	ScenariosFunc func(lang domain.Language) ([]chat.ScenarioInfo, error)
	ReplyFunc     func(ctx context.Context, in chat.ReplyInput) (*chat.Reply, error)

	calls struct {
		Reply []chat.ReplyInput
	}
	lock sync.RWMutex
}

func (mock *chatServiceMock) Scenarios(lang domain.Language) ([]chat.ScenarioInfo, error) {
	if mock.ScenariosFunc == nil {
		panic("chatServiceMock.ScenariosFunc: method is nil but chatService.Scenarios was just called")
	}
	return mock.ScenariosFunc(lang)
}

func (mock *chatServiceMock) Reply(ctx context.Context, in chat.ReplyInput) (*chat.Reply, error) {
	if mock.ReplyFunc == nil {
		panic("chatServiceMock.ReplyFunc: method is nil but chatService.Reply was just called")
	}
	mock.lock.Lock()
	mock.calls.Reply = append(mock.calls.Reply, in)
	mock.lock.Unlock()
	return mock.ReplyFunc(ctx, in)
}

func (mock *chatServiceMock) ReplyCalls() []chat.ReplyInput {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Reply
}
