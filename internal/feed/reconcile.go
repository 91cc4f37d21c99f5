package feed

import (
	"fmt"

	"newsfeed/internal/domain"
)

// Reconciler settles the local liked set once a like or unlike report
// completes. liked is the membership the toggle applied; err is nil on success.
type Reconciler interface {
	Reconcile(state *State, id domain.ID, liked bool, err error)
}

// NoRollback keeps the optimistic state whatever the report outcome.
// Local and server state may diverge for the rest of the session.
type NoRollback struct{}

func (NoRollback) Reconcile(*State, domain.ID, bool, error) {}

// Rollback restores the pre-toggle membership when the report failed,
// unless a later toggle already changed it.
type Rollback struct{}

func (Rollback) Reconcile(state *State, id domain.ID, liked bool, err error) {
	if err == nil || state.IsLiked(id) != liked {
		return
	}
	_ = state.SetLiked(id, !liked)
}

// ReconcilerByName maps a config value to a Reconciler
func ReconcilerByName(name string) (Reconciler, error) {
	switch name {
	case "", "none":
		return NoRollback{}, nil
	case "rollback":
		return Rollback{}, nil
	default:
		return nil, fmt.Errorf("unknown like reconcile policy %q", name)
	}
}
