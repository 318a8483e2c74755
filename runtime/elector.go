package runtime

import (
	"math/rand/v2"

	"chat-relay/contract"
)

// Elector maintains the at-most-one coordinator invariant. It is a plain
// state machine with no locking of its own: the Router mutates it under
// the same mutex that serializes registry joins and leaves, so a
// leave-then-reassign sequence is atomic with respect to concurrent
// joins/leaves and a disconnecting user can never be transiently elected.
type Elector struct {
	coordinatorID string
}

func NewElector() *Elector {
	return &Elector{}
}

// Coordinator returns the current coordinator id, if any.
func (e *Elector) Coordinator() (string, bool) {
	return e.coordinatorID, e.coordinatorID != ""
}

// OnJoin elects the joining user when no coordinator exists. In the
// common case this makes the first user of an otherwise-empty room the
// coordinator. Reports whether the user was elected.
func (e *Elector) OnJoin(userID string) bool {
	if e.coordinatorID != "" {
		return false
	}
	e.coordinatorID = userID
	return true
}

// OnLeave reassigns the coordinator after a departure. When the leaving
// user held the role, a replacement is picked uniformly at random from
// the remaining online sessions; with nobody left the state goes back to
// no-coordinator. Reports the new coordinator id (empty for none) and
// whether a transition happened at all.
func (e *Elector) OnLeave(userID string, remaining []contract.Session) (string, bool) {
	if e.coordinatorID != userID {
		return e.coordinatorID, false
	}

	if len(remaining) == 0 {
		e.coordinatorID = ""
		return "", true
	}

	e.coordinatorID = remaining[rand.IntN(len(remaining))].User.ID
	return e.coordinatorID, true
}
