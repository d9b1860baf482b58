package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Operation names a kind of request that must not run twice at once.
type Operation string

const (
	AIChat        Operation = "ai-chat"
	GenerateCode  Operation = "generate-code"
	EnhancePrompt Operation = "enhance-prompt"
	CreateProject Operation = "create-project"
)

// ErrInProgress is returned when an operation is started while it is
// still in flight.
var ErrInProgress = errors.New("request already in progress")

// RequestState tells if an operation is in flight.
type RequestState struct {
	Loading   bool
	RequestID string
}

// Requests tracks in-flight operations to reject duplicate submissions.
type Requests struct {
	mx    sync.Mutex
	state map[Operation]RequestState
}

func NewRequests() *Requests {
	return &Requests{
		state: make(map[Operation]RequestState),
	}
}

// Begin marks an operation as in flight and returns a new request id.
func (r *Requests) Begin(op Operation) (string, error) {
	r.mx.Lock()
	defer r.mx.Unlock()

	if r.state[op].Loading {
		return "", fmt.Errorf("%v: %w", op, ErrInProgress)
	}

	id := "req_" + uuid.New().String()
	r.state[op] = RequestState{Loading: true, RequestID: id}
	return id, nil
}

// End marks the request as done.
// Ids of requests that are no longer current are ignored.
func (r *Requests) End(op Operation, id string) {
	r.mx.Lock()
	defer r.mx.Unlock()

	if r.state[op].RequestID == id {
		r.state[op] = RequestState{}
	}
}

// InProgress tells if the operation is in flight.
func (r *Requests) InProgress(op Operation) bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.state[op].Loading
}

func (r *Requests) State(op Operation) RequestState {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.state[op]
}

// Do runs fn as the given operation.
func (r *Requests) Do(op Operation, fn func() error) error {
	id, err := r.Begin(op)
	if err != nil {
		return err
	}
	defer r.End(op, id)
	return fn()
}
