package runs

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusError    Status = "error"
)

// ErrActiveRun means the client already has a pipeline run in flight. The
// progress channel is single-shot, so a second run for the same client could
// never deliver; triggers for an active client are rejected, not queued.
var ErrActiveRun = errors.New("client already has an active run")

// Run is one pipeline execution bound to one progress-channel client.
type Run struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
	Artist   string `json:"artist"`
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
}

// Registry tracks runs in-memory, keyed by client ID.
type Registry struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Run)}
}

// Begin registers a run for clientID. Fails with ErrActiveRun while a
// previous run for the same client is still running.
func (r *Registry) Begin(clientID, artist string) (*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.runs[clientID]; ok && existing.Status == StatusRunning {
		return nil, ErrActiveRun
	}

	run := &Run{
		ID:       uuid.NewString(),
		ClientID: clientID,
		Artist:   artist,
		Status:   StatusRunning,
	}
	r.runs[clientID] = run
	return run, nil
}

// Finish records the terminal status of a client's run, if one exists.
func (r *Registry) Finish(clientID string, status Status, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run, ok := r.runs[clientID]; ok {
		run.Status = status
		run.Error = errMsg
	}
}

// Get returns a client's latest run.
func (r *Registry) Get(clientID string) (*Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[clientID]
	return run, ok
}
