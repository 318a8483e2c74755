// Package runtime owns the server-side session core: registry, elector,
// routing and connection lifecycle. It orchestrates delivery without
// containing any wire-format or presentation logic.
package runtime

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/samber/lo"
)

// Router resolves an envelope's target audience and delivers it through
// the session registry.
//
// Its mutex is the single serialization point for registry and elector
// mutations: join, leave and coordinator reassignment are atomic with
// respect to each other. Recipient sets are computed under the lock and
// the (potentially slow) per-recipient writes happen outside it, so one
// dead socket cannot stall joins and leaves of unrelated connections.
type Router struct {
	mu       sync.Mutex
	log      *slog.Logger
	registry contract.SessionRegistry
	elector  *Elector
}

func NewRouter(log *slog.Logger, registry contract.SessionRegistry, elector *Elector) *Router {
	return &Router{
		log:      log,
		registry: registry,
		elector:  elector,
	}
}

// delivery is one pending write, resolved under the router lock and
// performed after it is released.
type delivery struct {
	to   string
	sink contract.EnvelopeSink
	env  domain.Envelope
}

// Join registers a session for an Online status update and delivers the
// welcome sequence: the Online broadcast to every session including the
// new one, the General chat id transition, and one Online update per
// already-present user so the newcomer can populate its roster. The
// whole sequence is resolved atomically, so a user joining concurrently
// is either fully in the roster or fully in the broadcast, never both or
// neither.
//
// A duplicate identity is rejected with errors.ErrDuplicateUser; the
// offending connection alone is told, with an Offline update for the
// identity it asked for.
func (rt *Router) Join(env domain.Envelope, upd domain.UserStatusUpdate, sink contract.EnvelopeSink, remoteAddr string) error {
	rt.mu.Lock()

	existing := rt.registry.ListOnline()
	if _, err := rt.registry.Add(upd.Subject, sink, remoteAddr); err != nil {
		rt.mu.Unlock()
		rejection := domain.NewEnvelope(domain.UserStatusUpdate{
			Subject: upd.Subject,
			Status:  domain.StatusOffline,
		})
		rt.deliver([]delivery{{to: upd.Subject.ID, sink: sink, env: rejection}})
		return err
	}

	all := rt.registry.ListOnline()
	deliveries := make([]delivery, 0, 2*len(all)+1)

	for _, s := range all {
		deliveries = append(deliveries, delivery{to: s.User.ID, sink: s.Sink, env: env})
	}

	deliveries = append(deliveries, delivery{
		to:   upd.Subject.ID,
		sink: sink,
		env: domain.NewEnvelope(domain.SystemMessage{
			Subtype: domain.SystemIDTransition,
			Payload: domain.GeneralChatID,
		}),
	})

	for _, s := range existing {
		deliveries = append(deliveries, delivery{
			to:   upd.Subject.ID,
			sink: sink,
			env: domain.NewEnvelope(domain.UserStatusUpdate{
				Subject: s.User,
				Status:  domain.StatusOnline,
			}),
		})
	}

	if rt.elector.OnJoin(upd.Subject.ID) {
		deliveries = append(deliveries, rt.coordinatorTransition(upd.Subject.ID, all)...)
	}

	rt.mu.Unlock()

	rt.log.Info("user joined", "user", upd.Subject.ID, "name", upd.Subject.Name, "remote", remoteAddr)
	rt.deliver(deliveries)
	return nil
}

// Leave deregisters a session, broadcasts the Offline update to the
// remaining sessions and reassigns the coordinator when the departing
// user held the role. Removing an already-absent session is a no-op,
// not an error: disconnect races are expected.
func (rt *Router) Leave(userID string) {
	rt.mu.Lock()

	removed, ok := rt.registry.Remove(userID)
	if !ok {
		rt.mu.Unlock()
		return
	}

	remaining := rt.registry.ListOnline()
	offline := domain.NewEnvelope(domain.UserStatusUpdate{
		Subject: removed.User,
		Status:  domain.StatusOffline,
	})

	deliveries := make([]delivery, 0, 2*len(remaining))
	for _, s := range remaining {
		deliveries = append(deliveries, delivery{to: s.User.ID, sink: s.Sink, env: offline})
	}

	if newID, changed := rt.elector.OnLeave(userID, remaining); changed {
		deliveries = append(deliveries, rt.coordinatorTransition(newID, remaining)...)
	}

	rt.mu.Unlock()

	rt.log.Info("user left", "user", userID)
	rt.deliver(deliveries)
}

// coordinatorTransition flags the new coordinator in the registry and
// queues a CoordinatorIdTransition for every given session. Callers must
// hold the router lock.
func (rt *Router) coordinatorTransition(newID string, sessions []contract.Session) []delivery {
	rt.registry.MarkCoordinator(newID)

	env := domain.NewEnvelope(domain.SystemMessage{
		Subtype: domain.SystemCoordinatorIDTransition,
		Payload: newID,
	})
	rt.log.Info("coordinator transition", "coordinator", newID)

	return lo.Map(sessions, func(s contract.Session, _ int) delivery {
		return delivery{to: s.User.ID, sink: s.Sink, env: env}
	})
}

// HandleText delivers a text message to the participant set embedded in
// the sender's copy of the chat, intersected with the currently
// registered users. The sender is not special-cased and absent
// participants are silently skipped. The server keeps no membership
// bookkeeping of its own and trusts the embedded set.
func (rt *Router) HandleText(env domain.Envelope, msg domain.TextMessage) {
	recipients := lo.Filter(rt.registry.ListOnline(), func(s contract.Session, _ int) bool {
		return msg.Chat.HasParticipant(s.User.ID)
	})

	rt.deliver(lo.Map(recipients, func(s contract.Session, _ int) delivery {
		return delivery{to: s.User.ID, sink: s.Sink, env: env}
	}))
}

// HandleSystem reacts to inbound system envelopes. Only IpRequest needs
// a server-side answer: its payload carries "<requesterID> <targetID>",
// and the reply is an IpTransition to the requester with
// "<targetID> <addr>" (no address part when the target is offline).
// Every other inbound subtype is an acknowledgement or server-originated
// traffic and is only logged.
func (rt *Router) HandleSystem(env domain.Envelope, msg domain.SystemMessage) {
	switch msg.Subtype {
	case domain.SystemIPRequest:
		fields := strings.Fields(msg.Payload)
		if len(fields) != 2 {
			rt.log.Warn("ip request with malformed payload", "payload", msg.Payload)
			return
		}
		requesterID, targetID := fields[0], fields[1]

		requester, ok := rt.registry.Get(requesterID)
		if !ok {
			rt.log.Warn("ip request from unregistered user", "requester", requesterID)
			return
		}

		addr, _ := rt.registry.ResolveSocketInfo(targetID)
		reply := domain.NewEnvelope(domain.SystemMessage{
			Subtype: domain.SystemIPTransition,
			Payload: strings.TrimSpace(targetID + " " + addr),
		})
		rt.deliver([]delivery{{to: requesterID, sink: requester.Sink, env: reply}})
	default:
		rt.log.Debug("inbound system envelope needs no reaction", "subtype", string(msg.Subtype), "id", env.ID)
	}
}

// Broadcast sends one envelope to every registered session, operating on
// a snapshot of the registry.
func (rt *Router) Broadcast(env domain.Envelope) {
	rt.deliver(lo.Map(rt.registry.ListOnline(), func(s contract.Session, _ int) delivery {
		return delivery{to: s.User.ID, sink: s.Sink, env: env}
	}))
}

// deliver performs the per-recipient writes. A failed write means the
// recipient is likely dead; it is logged and the fanout continues with
// the remaining recipients.
func (rt *Router) deliver(deliveries []delivery) {
	for _, d := range deliveries {
		if err := d.sink.Send(d.env); err != nil {
			rt.log.Warn("dropping recipient from fanout",
				"user", d.to,
				"error", fmt.Errorf("%w: %v", errors.ErrDelivery, err))
		}
	}
}
