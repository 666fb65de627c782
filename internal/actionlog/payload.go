// Package actionlog implements the bundled append-only action store
// (C5): StoredAction/ActionBundle/ActionList over an abstract
// key-value backend, with byte-size-triggered bundle rotation and a
// length-prefixed binary wire format that tolerates unknown action
// tags for forward compatibility.
package actionlog

import (
	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/domain"
)

// Payload is one of the six action kinds a StoredAction can carry.
type Payload interface {
	payloadTag() tag
}

type tag byte

const (
	tagNewSolve tag = iota
	tagPenalty
	tagChangeSession
	tagMergeSessions
	tagRenameSession
	tagDeleteSolve
)

// NewSolve records a freshly completed solve.
type NewSolve struct {
	Solve domain.Solve
}

func (NewSolve) payloadTag() tag { return tagNewSolve }

// Penalty overwrites a solve's penalty.
type Penalty struct {
	SolveID uuid.UUID
	Penalty domain.Penalty
}

func (Penalty) payloadTag() tag { return tagPenalty }

// ChangeSession moves a solve to a different session.
type ChangeSession struct {
	SolveID   uuid.UUID
	SessionID uuid.UUID
}

func (ChangeSession) payloadTag() tag { return tagChangeSession }

// MergeSessions moves every solve of Second into First, then deletes Second.
type MergeSessions struct {
	First  uuid.UUID
	Second uuid.UUID
}

func (MergeSessions) payloadTag() tag { return tagMergeSessions }

// RenameSession sets or clears (Name == nil) a session's display name.
type RenameSession struct {
	SessionID uuid.UUID
	Name      *string
}

func (RenameSession) payloadTag() tag { return tagRenameSession }

// DeleteSolve removes a solve permanently.
type DeleteSolve struct {
	SolveID uuid.UUID
}

func (DeleteSolve) payloadTag() tag { return tagDeleteSolve }

// StoredAction pairs a unique id with its payload. Ids are unique
// within a logical ActionList; replay is idempotent on id.
type StoredAction struct {
	ID      uuid.UUID
	Payload Payload
}
