package orchestrator

import (
	"sync"
)

// DefaultUserID is the identity used when Default creates the process-wide instance.
const DefaultUserID = "default-user"

var (
	defaultMu       sync.Mutex
	defaultInstance *Orchestrator
)

// Initialize returns the process-wide orchestrator, creating it for userID on first use.
// Later calls return the existing instance regardless of userID.
//
// Prefer New and pass the orchestrator explicitly; the shared instance only
// serves callers that hold a single session per process, such as the chat REPL.
func Initialize(userID string, opts ...Option) *Orchestrator {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultInstance == nil {
		defaultInstance = New(userID, opts...)
	}
	return defaultInstance
}

// Default returns the process-wide orchestrator, creating it for DefaultUserID if needed.
func Default() *Orchestrator {
	return Initialize(DefaultUserID)
}
