// Package storage provides the key-value persistence boundary for the
// workout planner. State is serialized per namespace as a versioned JSON
// snapshot; backends are a local SQLite file (the default) and Postgres.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Namespaces used by the services. Kept stable so snapshots survive upgrades.
const (
	NSChallenges      = "workout-challenges"
	NSProgress        = "challenge-progress"
	NSWorkouts        = "workout-planner-workouts"
	NSCustomExercises = "workout-planner-custom-exercises"
	NSFavorites       = "workout-planner-favorites"
	NSProfile         = "workout-planner-user-profile"
	NSAchievements    = "workout-planner-achievements"
	NSNotifSettings   = "workout-planner-notification-settings"
	NSNotifications   = "workout-planner-notifications"
	NSSharedWorkouts  = "shared_workouts"
	NSReceivedWorkouts = "received_workouts"
	NSShareHistory    = "share_history"
)

// ErrNotFound is returned by Load when a namespace has never been saved.
var ErrNotFound = errors.New("storage: namespace not found")

// Store is the persistence collaborator. Save is fire-and-forget from the
// engine's point of view: a failed save is logged and the in-memory state
// stays authoritative for the session.
type Store interface {
	Load(ctx context.Context, namespace string) ([]byte, error)
	Save(ctx context.Context, namespace string, data []byte) error
	Close() error
}

// PersistenceError reports a storage read/write failure, including malformed
// persisted payloads discovered during revival.
type PersistenceError struct {
	Namespace string
	Op        string // "load", "save", "decode", "encode"
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Namespace, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
