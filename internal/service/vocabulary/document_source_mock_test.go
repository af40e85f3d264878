package vocabulary

import (
	"context"
	"sync"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

var _ documentSource = &documentSourceMock{}

type documentSourceMock struct {
	FetchFunc func(ctx context.Context, lang domain.Language, level domain.Level) (string, error)

	calls struct {
		Fetch []struct {
			Ctx   context.Context
			Lang  domain.Language
			Level domain.Level
		}
	}
	lockFetch sync.RWMutex
}

func (mock *documentSourceMock) Fetch(ctx context.Context, lang domain.Language, level domain.Level) (string, error) {
	if mock.FetchFunc == nil {
		panic("documentSourceMock.FetchFunc: method is nil but documentSource.Fetch was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Lang  domain.Language
		Level domain.Level
	}{Ctx: ctx, Lang: lang, Level: level}
	mock.lockFetch.Lock()
	mock.calls.Fetch = append(mock.calls.Fetch, callInfo)
	mock.lockFetch.Unlock()
	return mock.FetchFunc(ctx, lang, level)
}

func (mock *documentSourceMock) FetchCalls() []struct {
	Ctx   context.Context
	Lang  domain.Language
	Level domain.Level
} {
	mock.lockFetch.RLock()
	calls := mock.calls.Fetch
	mock.lockFetch.RUnlock()
	return calls
}
