package domain

import (
	"time"

	"github.com/google/uuid"
)

// EnvelopeKind is the top-level wire discriminator.
type EnvelopeKind string

const (
	KindText       EnvelopeKind = "TEXT"
	KindUserUpdate EnvelopeKind = "USER_UPDATE"
	KindSystem     EnvelopeKind = "SYSTEM"
)

type Status string

const (
	StatusOnline  Status = "ONLINE"
	StatusOffline Status = "OFFLINE"
)

// SystemSubtype is the nested discriminator of SYSTEM envelopes. Values
// outside the known set are carried verbatim so that peers with version
// skew still decode each other's traffic.
type SystemSubtype string

const (
	SystemIDTransition            SystemSubtype = "ID_TRANSITION"
	SystemIPTransition            SystemSubtype = "IP_TRANSITION"
	SystemIPRequest               SystemSubtype = "IP_REQUEST"
	SystemCoordinatorIDTransition SystemSubtype = "COORDINATOR_ID_TRANSITION"
	SystemServerShutdown          SystemSubtype = "SERVER_SHUTDOWN"
	SystemHeartbeat               SystemSubtype = "HEARTBEAT"
)

// Known reports whether the subtype belongs to the enumerated set.
func (s SystemSubtype) Known() bool {
	switch s {
	case SystemIDTransition, SystemIPTransition, SystemIPRequest,
		SystemCoordinatorIDTransition, SystemServerShutdown, SystemHeartbeat:
		return true
	}
	return false
}

// Payload is the variant part of an Envelope. Exactly one concrete type
// is carried per envelope.
type Payload interface {
	Kind() EnvelopeKind
}

// Envelope is the wire-level message wrapper. Every envelope gets a
// generated id and a creation timestamp at construction time.
type Envelope struct {
	ID        string
	CreatedAt time.Time
	Payload   Payload
}

func NewEnvelope(p Payload) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Payload:   p,
	}
}

func (e Envelope) Kind() EnvelopeKind {
	return e.Payload.Kind()
}

// TextMessage carries the target chat by value, including the participant
// set as known to the sender.
type TextMessage struct {
	Chat    Chat
	Sender  User
	Content string
}

func (TextMessage) Kind() EnvelopeKind { return KindText }

type UserStatusUpdate struct {
	Subject User
	Status  Status
}

func (UserStatusUpdate) Kind() EnvelopeKind { return KindUserUpdate }

// SystemMessage carries an opaque string payload whose interpretation
// depends on the subtype.
type SystemMessage struct {
	Subtype SystemSubtype
	Payload string
}

func (SystemMessage) Kind() EnvelopeKind { return KindSystem }
