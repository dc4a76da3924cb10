package agent

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse scripts one RunStructuredCall outcome.
type MockResponse struct {
	// Value is marshalled and decoded into the caller's out argument
	// when Err is nil.
	Value any
	Err   error

	// Block, when set, makes the call wait for the context or the
	// channel before returning. Used to exercise timeout paths.
	Block <-chan struct{}
}

// Mock is a scripted Agent for tests. Responses are consumed in FIFO
// order; when the script is exhausted the Default response is used. A
// Handler, when set, takes precedence and picks the response from the
// call itself, which keeps concurrent callers deterministic.
type Mock struct {
	AgentID string
	Default MockResponse
	Handler func(Call) MockResponse

	mu     sync.Mutex
	script []MockResponse
	calls  []Call
}

var _ Agent = (*Mock)(nil)

func NewMock(id string, script ...MockResponse) *Mock {
	return &Mock{AgentID: id, script: script}
}

func (m *Mock) ID() string { return m.AgentID }

func (m *Mock) RunStructuredCall(ctx context.Context, call Call, out any) error {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	resp := m.Default
	switch {
	case m.Handler != nil:
		resp = m.Handler(call)
	case len(m.script) > 0:
		resp = m.script[0]
		m.script = m.script[1:]
	}
	m.mu.Unlock()

	if resp.Block != nil {
		select {
		case <-ctx.Done():
			return ErrTimeout
		case <-resp.Block:
		}
	}

	if resp.Err != nil {
		return resp.Err
	}

	buf, err := json.Marshal(resp.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

// Calls returns a copy of every Call received so far.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
