package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library-agent/internal/agent"
	"github.com/mrlokans/library-agent/internal/console"
	"github.com/mrlokans/library-agent/internal/store"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Store implementations
var _ agent.Store = (*store.Store)(nil)

// =============================================================================
// Console
// =============================================================================

// Responder implementations
var _ console.Responder = (*agent.Agent)(nil)
