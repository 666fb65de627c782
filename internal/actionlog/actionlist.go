package actionlog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/D0ntPanic/tpscube/internal/kv"
)

// Position is an append-order cursor into an ActionList: ArchiveIdx
// equal to the number of archived bundles means "the current bundle".
type Position struct {
	ArchiveIdx int
	ActionIdx  int
}

// ActionList is an ordered list of bundles under a logical name (e.g.
// "local" or "synced"). The last bundle is always open for append.
type ActionList struct {
	name     string
	archived []uuid.UUID
	current  ActionBundle
	dirty    bool
}

// Load reconstructs a list from its persisted index, or returns an
// empty list if the index is absent.
func Load(store kv.Store, name string) (*ActionList, error) {
	data, ok, err := store.Get(name)
	if err != nil {
		return nil, fmt.Errorf("actionlog: load %q: %w", name, err)
	}
	if !ok {
		return &ActionList{name: name, current: newBundle()}, nil
	}
	ids, err := decodeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("actionlog: load %q: %w", name, err)
	}
	if len(ids) == 0 {
		return &ActionList{name: name, current: newBundle()}, nil
	}

	currentID := ids[len(ids)-1]
	currentData, ok, err := store.Get(currentID.String())
	if err != nil {
		return nil, fmt.Errorf("actionlog: load %q: %w", name, err)
	}
	var current ActionBundle
	if ok {
		current, err = decodeBundle(currentID, currentData)
		if err != nil {
			return nil, err
		}
	} else {
		current = ActionBundle{BundleID: currentID}
	}

	return &ActionList{name: name, archived: ids[:len(ids)-1], current: current}, nil
}

// Name returns the logical name this list is persisted under.
func (l *ActionList) Name() string { return l.name }

// Push appends to the in-memory current bundle; not durable until Commit.
func (l *ActionList) Push(a StoredAction) {
	l.current.Actions = append(l.current.Actions, a)
	l.dirty = true
}

// Commit persists the current bundle (if changed since the last
// commit) and, once its serialised size reaches the rotation
// threshold, closes it and opens a fresh one. The index is rewritten
// whenever a bundle was added, or unconditionally when alwaysWrite is set.
func (l *ActionList) Commit(store kv.Store, alwaysWrite bool) error {
	if l.dirty {
		if err := store.Put(l.current.BundleID.String(), encodeBundle(l.current)); err != nil {
			return fmt.Errorf("actionlog: commit %q: %w", l.name, err)
		}
		l.current.PresentInIndex = true
		l.dirty = false
	}

	rotated := false
	if len(encodeBundle(l.current)) >= bundleRotationThreshold {
		l.archived = append(l.archived, l.current.BundleID)
		l.current = newBundle()
		rotated = true
	}

	if rotated || alwaysWrite {
		if err := l.writeIndex(store); err != nil {
			return err
		}
	}
	return nil
}

func (l *ActionList) writeIndex(store kv.Store) error {
	ids := make([]uuid.UUID, 0, len(l.archived)+1)
	ids = append(ids, l.archived...)
	ids = append(ids, l.current.BundleID)
	if err := store.Put(l.name, encodeIndex(ids)); err != nil {
		return fmt.Errorf("actionlog: write index %q: %w", l.name, err)
	}
	return nil
}

// Iterate yields every StoredAction in append order: archived bundles
// first, then the current bundle. fn returns cont=false to stop early.
func (l *ActionList) Iterate(store kv.Store, fn func(pos Position, a StoredAction) (cont bool, err error)) error {
	for ai, bundleID := range l.archived {
		data, ok, err := store.Get(bundleID.String())
		if err != nil {
			return fmt.Errorf("actionlog: iterate %q: %w", l.name, err)
		}
		if !ok {
			continue
		}
		bundle, err := decodeBundle(bundleID, data)
		if err != nil {
			return err
		}
		for idx, a := range bundle.Actions {
			cont, err := fn(Position{ArchiveIdx: ai, ActionIdx: idx}, a)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
	}
	for idx, a := range l.current.Actions {
		cont, err := fn(Position{ArchiveIdx: len(l.archived), ActionIdx: idx}, a)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// All collects every action via Iterate, for callers that don't need
// streaming or early exit.
func (l *ActionList) All(store kv.Store) ([]StoredAction, error) {
	var out []StoredAction
	err := l.Iterate(store, func(_ Position, a StoredAction) (bool, error) {
		out = append(out, a)
		return true, nil
	})
	return out, err
}

// RemoveStartingAt truncates the list at pos: the bundle containing
// pos is cut down to its actions before ActionIdx and rewritten (or
// deleted and replaced with a fresh empty current bundle, if that
// leaves it empty); every later bundle is deleted.
func (l *ActionList) RemoveStartingAt(store kv.Store, pos Position) error {
	if pos.ArchiveIdx < len(l.archived) {
		targetID := l.archived[pos.ArchiveIdx]
		data, ok, err := store.Get(targetID.String())
		if err != nil {
			return fmt.Errorf("actionlog: truncate %q: %w", l.name, err)
		}
		var target ActionBundle
		if ok {
			target, err = decodeBundle(targetID, data)
			if err != nil {
				return err
			}
		} else {
			target = ActionBundle{BundleID: targetID}
		}
		if pos.ActionIdx < len(target.Actions) {
			target.Actions = target.Actions[:pos.ActionIdx]
		}

		for i := pos.ArchiveIdx + 1; i < len(l.archived); i++ {
			if err := store.Delete(l.archived[i].String()); err != nil {
				return fmt.Errorf("actionlog: truncate %q: %w", l.name, err)
			}
		}
		if err := store.Delete(l.current.BundleID.String()); err != nil {
			return fmt.Errorf("actionlog: truncate %q: %w", l.name, err)
		}
		l.archived = append([]uuid.UUID{}, l.archived[:pos.ArchiveIdx]...)

		if len(target.Actions) == 0 {
			if err := store.Delete(targetID.String()); err != nil {
				return fmt.Errorf("actionlog: truncate %q: %w", l.name, err)
			}
			l.current = newBundle()
		} else {
			if err := store.Put(targetID.String(), encodeBundle(target)); err != nil {
				return fmt.Errorf("actionlog: truncate %q: %w", l.name, err)
			}
			l.current = target
		}
	} else {
		if pos.ActionIdx < len(l.current.Actions) {
			l.current.Actions = l.current.Actions[:pos.ActionIdx]
		}
		if len(l.current.Actions) == 0 {
			if l.current.PresentInIndex {
				if err := store.Delete(l.current.BundleID.String()); err != nil {
					return fmt.Errorf("actionlog: truncate %q: %w", l.name, err)
				}
			}
			l.current = newBundle()
		} else {
			if err := store.Put(l.current.BundleID.String(), encodeBundle(l.current)); err != nil {
				return fmt.Errorf("actionlog: truncate %q: %w", l.name, err)
			}
			l.current.PresentInIndex = true
		}
	}

	l.dirty = true
	return l.writeIndex(store)
}

// Prepend moves all of other's content to the front of l, leaving
// other empty. Used on sync-key rotation to preserve pre-rotation
// unsynced data rather than discard it.
func (l *ActionList) Prepend(store kv.Store, other *ActionList) error {
	if err := other.Commit(store, true); err != nil {
		return err
	}
	if err := l.Commit(store, true); err != nil {
		return err
	}

	otherTail := other.archived
	if len(other.current.Actions) > 0 || other.current.PresentInIndex {
		otherTail = append(append([]uuid.UUID{}, otherTail...), other.current.BundleID)
	}

	selfTail := l.archived
	selfHasCurrentContent := len(l.current.Actions) > 0 || l.current.PresentInIndex
	if selfHasCurrentContent {
		selfTail = append(append([]uuid.UUID{}, selfTail...), l.current.BundleID)
	}

	merged := append(append([]uuid.UUID{}, otherTail...), selfTail...)
	l.archived = merged
	if selfHasCurrentContent {
		l.current = newBundle()
	}
	l.dirty = false
	if err := l.writeIndex(store); err != nil {
		return err
	}

	other.archived = nil
	other.current = newBundle()
	other.dirty = false
	return other.writeIndex(store)
}

// DeleteBundles deletes every bundle key this list owns, plus the
// index itself.
func (l *ActionList) DeleteBundles(store kv.Store) error {
	for _, id := range l.archived {
		if err := store.Delete(id.String()); err != nil {
			return fmt.Errorf("actionlog: delete bundles %q: %w", l.name, err)
		}
	}
	if err := store.Delete(l.current.BundleID.String()); err != nil {
		return fmt.Errorf("actionlog: delete bundles %q: %w", l.name, err)
	}
	if err := store.Delete(l.name); err != nil {
		return fmt.Errorf("actionlog: delete bundles %q: %w", l.name, err)
	}
	l.archived = nil
	l.current = newBundle()
	return nil
}
