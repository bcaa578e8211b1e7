// Package store persists conversation logs and the users that own them.
//
// Three backends implement both Log and Users: Memory for tests and
// short-lived processes, JSONFile for a directory of JSON array files, and
// SQLite for a single database file.
package store

import (
	"context"
	"errors"

	ai "github.com/spetersoncode/aiagent"
)

// ErrSessionNotFound is returned when reading a session that was never created.
var ErrSessionNotFound = errors.New("store: session not found")

// Log is an ordered, append-only store of conversation records keyed by session.
// Records are returned in append order. Implementations must be thread-safe.
type Log interface {
	// Create makes key an empty session, discarding any records it held.
	Create(ctx context.Context, key string) error

	// Append validates rec and adds it to the session, creating the session if needed.
	Append(ctx context.Context, key string, rec ai.ConversationRecord) error

	// Records returns every record of the session, or ErrSessionNotFound.
	Records(ctx context.Context, key string) ([]ai.ConversationRecord, error)

	// Exists reports whether the session has been created.
	Exists(ctx context.Context, key string) (bool, error)
}

// Users is a registry of session owners. Identities match when they share
// any non-empty field.
type Users interface {
	// Register stores u unless a matching identity is already registered, and
	// returns the stored identity.
	Register(ctx context.Context, u ai.UserIdentity) (ai.UserIdentity, error)

	// Find returns the registered identity matching u.
	Find(ctx context.Context, u ai.UserIdentity) (ai.UserIdentity, bool, error)
}

// Backend combines a log with its user registry.
type Backend interface {
	Log
	Users
}

func checkUser(u ai.UserIdentity) error {
	if u.IsZero() {
		return &ai.ValidationError{Field: "user", Reason: "at least one identity field is required"}
	}
	return nil
}

func checkKey(key string) error {
	if key == "" {
		return &ai.ValidationError{Field: "key", Reason: "must not be empty"}
	}
	return nil
}
