package history

import (
	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/actionlog"
	"github.com/D0ntPanic/tpscube/internal/domain"
)

// projection is the in-memory state produced by replaying an ordered
// sequence of actions: the solve and session maps, plus the set of
// action ids already applied (duplicate ids are rejected).
type projection struct {
	Solves   map[uuid.UUID]domain.Solve
	Sessions map[uuid.UUID]*domain.Session
	Seen     map[uuid.UUID]struct{}
}

func newProjection() projection {
	return projection{
		Solves:   make(map[uuid.UUID]domain.Solve),
		Sessions: make(map[uuid.UUID]*domain.Session),
		Seen:     make(map[uuid.UUID]struct{}),
	}
}

func (p projection) clone() projection {
	out := newProjection()
	for k, v := range p.Solves {
		out.Solves[k] = v
	}
	for k, v := range p.Sessions {
		cp := *v
		cp.SolveIDs = make(map[uuid.UUID]struct{}, len(v.SolveIDs))
		for id := range v.SolveIDs {
			cp.SolveIDs[id] = struct{}{}
		}
		out.Sessions[k] = &cp
	}
	for k := range p.Seen {
		out.Seen[k] = struct{}{}
	}
	return out
}

func (p *projection) session(id uuid.UUID) *domain.Session {
	s, ok := p.Sessions[id]
	if !ok {
		s = domain.NewSession(id)
		p.Sessions[id] = s
	}
	return s
}

// resolveAction applies a single action to p in place and reports
// whether it had any effect. Duplicate ids (seen already) and
// dangling references (penalty/rename/delete of a solve or session
// that doesn't exist, merge of a nonexistent "second" session) are
// rejected: p is left unchanged and false is returned.
func resolveAction(p *projection, a actionlog.StoredAction) bool {
	if _, dup := p.Seen[a.ID]; dup {
		return false
	}

	applied := false
	switch v := a.Payload.(type) {
	case actionlog.NewSolve:
		if _, exists := p.Solves[v.Solve.ID]; !exists {
			p.Solves[v.Solve.ID] = v.Solve
			p.session(v.Solve.SessionID).SolveIDs[v.Solve.ID] = struct{}{}
			applied = true
		}

	case actionlog.Penalty:
		if s, ok := p.Solves[v.SolveID]; ok {
			s.Penalty = v.Penalty
			p.Solves[v.SolveID] = s
			applied = true
		}

	case actionlog.ChangeSession:
		if s, ok := p.Solves[v.SolveID]; ok {
			if old, ok := p.Sessions[s.SessionID]; ok {
				delete(old.SolveIDs, s.ID)
			}
			s.SessionID = v.SessionID
			p.Solves[v.SolveID] = s
			p.session(v.SessionID).SolveIDs[s.ID] = struct{}{}
			applied = true
		}

	case actionlog.MergeSessions:
		// Per the spec's literal text: if "a" (First) did not exist, it
		// is created; rejection only happens when "b" (Second) is missing.
		if second, ok := p.Sessions[v.Second]; ok {
			first := p.session(v.First)
			for solveID := range second.SolveIDs {
				first.SolveIDs[solveID] = struct{}{}
				s := p.Solves[solveID]
				s.SessionID = v.First
				p.Solves[solveID] = s
			}
			delete(p.Sessions, v.Second)
			applied = true
		}

	case actionlog.RenameSession:
		if s, ok := p.Sessions[v.SessionID]; ok {
			s.Name = v.Name
			applied = true
		}

	case actionlog.DeleteSolve:
		if s, ok := p.Solves[v.SolveID]; ok {
			if sess, ok := p.Sessions[s.SessionID]; ok {
				delete(sess.SolveIDs, s.ID)
			}
			delete(p.Solves, s.ID)
			applied = true
		}
	}

	if applied {
		p.Seen[a.ID] = struct{}{}
	}
	return applied
}
