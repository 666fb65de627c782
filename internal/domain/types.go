// Package domain holds the data model shared by the action log (C5)
// and history engine (C6): solves, sessions and penalties. It is kept
// separate from both so neither has to import the other for types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/cube"
)

// PenaltyKind is the outcome category applied to a solve's raw time.
type PenaltyKind int

const (
	PenaltyNone PenaltyKind = iota
	PenaltyPlusTime
	PenaltyDNF
)

// Penalty is a solve's penalty state. TimeMs only applies to PenaltyPlusTime.
type Penalty struct {
	Kind   PenaltyKind
	TimeMs uint32
}

// Solve is a single timed attempt.
type Solve struct {
	ID        uuid.UUID
	SolveType string
	SessionID uuid.UUID
	Scramble  []cube.Move
	Created   time.Time
	TimeMs    uint32
	Penalty   Penalty
	Device    string // empty means "no device"
	Moves     []cube.TimedMove
}

// FinalTimeMs returns the solve's scored time: TimeMs for no penalty,
// TimeMs+Penalty.TimeMs for a +time penalty, and ok=false for a DNF
// (whose final time is undefined).
func (s Solve) FinalTimeMs() (ms uint32, ok bool) {
	switch s.Penalty.Kind {
	case PenaltyNone:
		return s.TimeMs, true
	case PenaltyPlusTime:
		return s.TimeMs + s.Penalty.TimeMs, true
	default:
		return 0, false
	}
}

// Before orders solves by Created then by ID, matching the reference
// ordering used for display and for average-of-N calculations.
func (s Solve) Before(o Solve) bool {
	if !s.Created.Equal(o.Created) {
		return s.Created.Before(o.Created)
	}
	return s.ID.String() < o.ID.String()
}

// Session groups solves under an optional display name.
type Session struct {
	ID       uuid.UUID
	Name     *string
	SolveIDs map[uuid.UUID]struct{}
	UpdateID uint64
}

// NewSession returns an empty session with the given id.
func NewSession(id uuid.UUID) *Session {
	return &Session{ID: id, SolveIDs: make(map[uuid.UUID]struct{})}
}
