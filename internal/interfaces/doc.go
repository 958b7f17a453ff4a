// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - agent.Store: the read views handlers query (internal/agent/agent.go),
//     implemented by store.Store over the single SQLite connection
//
// ## Console Interfaces
//
//   - console.Responder: answers one question per input line
//     (internal/console/console.go), implemented by agent.Agent
//
// # Adding a New Question
//
// To teach the agent a new kind of question:
//
//  1. Add a read view in internal/store/ and to the agent.Store interface:
//
//     func (s *Store) BooksByYear(ctx context.Context, year int) ([]BookRecord, error)
//
//  2. Add an intent and its patterns to defaultPatterns in
//     internal/agent/patterns.go. Order matters: the first matching pattern
//     wins, so place it above any broader pattern that would swallow it.
//
//  3. Add a handler in internal/agent/handlers.go and map the intent to it in
//     Agent.handler.
//
//  4. Pin the routing with a case in TestRoute_Precedence.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
