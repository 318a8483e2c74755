//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"chat-relay/domain"
)

// Worker doesn't protect itself.
// Can be silly, focused. Supervision lives elsewhere.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker
// interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EnvelopeSink is the outbound side of a connection. Send enqueues one
// line for transmission and reports a failed write so the caller can
// treat the recipient as likely dead.
type EnvelopeSink interface {
	Send(e domain.Envelope) error
}

// Session binds a User to a live connection. Owned exclusively by the
// session registry; created on successful join, destroyed on disconnect.
type Session struct {
	User       domain.User
	Sink       EnvelopeSink
	RemoteAddr string
	Since      time.Time
}

// SessionRegistry is the authoritative concurrent directory of online
// users.
type SessionRegistry interface {
	Add(user domain.User, sink EnvelopeSink, remoteAddr string) (Session, error)
	Remove(userID string) (Session, bool)
	Get(userID string) (Session, bool)
	ListOnline() []Session
	ResolveSocketInfo(userID string) (string, bool)
	MarkCoordinator(userID string)
}

// Broadcaster delivers one envelope to every registered session.
type Broadcaster interface {
	Broadcast(e domain.Envelope)
}
