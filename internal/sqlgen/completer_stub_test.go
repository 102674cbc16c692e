package sqlgen

import (
	"context"
	"sync"

	"github.com/querysmith/backend/internal/llm"
)

// stubCompleter answers every Complete call through the respond
// function. Safe for the refiner's concurrent fan-out.
type stubCompleter struct {
	mu      sync.Mutex
	calls   int
	respond func(req llm.CompletionRequest) (string, error)
}

func (s *stubCompleter) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	content, err := s.respond(req)
	if err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{Content: content}, nil
}

func (s *stubCompleter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func factoryFor(s *stubCompleter) CompleterFactory {
	return func(string) Completer { return s }
}
