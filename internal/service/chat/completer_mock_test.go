package chat

import (
	"context"
	"sync"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

var _ completer = &completerMock{}

type completerMock struct {
	CompleteFunc func(ctx context.Context, system string, turns []domain.ChatTurn) (string, error)

	calls struct {
		Complete []struct {
			Ctx    context.Context
			System string
			Turns  []domain.ChatTurn
		}
	}
	lockComplete sync.RWMutex
}

func (mock *completerMock) Complete(ctx context.Context, system string, turns []domain.ChatTurn) (string, error) {
	if mock.CompleteFunc == nil {
		panic("completerMock.CompleteFunc: method is nil but completer.Complete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		System string
		Turns  []domain.ChatTurn
	}{Ctx: ctx, System: system, Turns: turns}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, callInfo)
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, system, turns)
}

func (mock *completerMock) CompleteCalls() []struct {
	Ctx    context.Context
	System string
	Turns  []domain.ChatTurn
} {
	mock.lockComplete.RLock()
	calls := mock.calls.Complete
	mock.lockComplete.RUnlock()
	return calls
}
