package e2e

import (
	"testing"
	"time"

	"chat-relay/domain"

	"github.com/stretchr/testify/suite"
)

type RelayScenarioSuite struct {
	BaseRelaySuite
}

func TestRelayScenarios(t *testing.T) {
	suite.Run(t, new(RelayScenarioSuite))
}

// Two users join in sequence; each side must observe the exact welcome
// traffic the protocol promises.
func (s *RelayScenarioSuite) TestJoinSequence() {
	s.Step("First user joins an empty relay")
	p1 := s.Dial()
	u1 := p1.Join("alice")

	p1.Await("its own Online broadcast", statusOf(u1.ID, domain.StatusOnline))
	p1.Await("the General chat id", systemOf(domain.SystemIDTransition, domain.GeneralChatID))
	p1.Await("a coordinator transition naming itself", systemOf(domain.SystemCoordinatorIDTransition, u1.ID))

	s.Step("Second user joins")
	p2 := s.Dial()
	u2 := p2.Join("bob")

	p2.Await("its own Online broadcast", statusOf(u2.ID, domain.StatusOnline))
	p2.Await("the General chat id", systemOf(domain.SystemIDTransition, domain.GeneralChatID))
	p2.Await("the prior user in the roster burst", statusOf(u1.ID, domain.StatusOnline))

	s.Step("The earlier user sees the newcomer")
	p1.Await("the newcomer coming online", statusOf(u2.ID, domain.StatusOnline))
}

// The coordinator vanishes without an Offline announcement; the relay
// must detect it, announce the departure and elect the survivor.
func (s *RelayScenarioSuite) TestCoordinatorFailover() {
	p1 := s.Dial()
	u1 := p1.Join("alice")
	p1.Await("election of the first user", systemOf(domain.SystemCoordinatorIDTransition, u1.ID))

	p2 := s.Dial()
	u2 := p2.Join("bob")
	p1.Await("the second user online", statusOf(u2.ID, domain.StatusOnline))

	s.Step("Coordinator connection drops abruptly")
	s.Require().NoError(p1.conn.Close())

	s.Step("Survivor observes the departure and the succession")
	p2.Await("the Offline update for the coordinator", statusOf(u1.ID, domain.StatusOffline))
	p2.Await("a coordinator transition naming itself", systemOf(domain.SystemCoordinatorIDTransition, u2.ID))
}

// A private chat between two of three users must stay invisible to the
// third, and both recipients must share one envelope identity.
func (s *RelayScenarioSuite) TestPrivateChatAudience() {
	p1, p2, p3 := s.Dial(), s.Dial(), s.Dial()
	u1 := p1.Join("alice")
	u2 := p2.Join("bob")
	u3 := p3.Join("carol")

	p1.Await("full roster", statusOf(u3.ID, domain.StatusOnline))
	p2.Await("full roster", statusOf(u3.ID, domain.StatusOnline))
	p3.Await("its own broadcast", statusOf(u3.ID, domain.StatusOnline))

	s.Step("Alice posts into a private chat with Bob")
	sent := domain.NewEnvelope(domain.TextMessage{
		Chat: domain.Chat{
			ID:           "c-private",
			Name:         "alice+bob",
			Kind:         domain.ChatPrivate,
			Participants: []domain.User{u1, u2},
		},
		Sender:  u1,
		Content: "psst",
	})
	p1.Send(sent)

	s.Step("Both participants receive the same envelope")
	got1 := p1.Await("the private text echoed back", textWith("psst"))
	got2 := p2.Await("the private text", textWith("psst"))
	s.Require().Equal(sent.ID, got1.ID)
	s.Require().Equal(got1.ID, got2.ID)

	s.Step("The third user hears a heartbeat but never the text")
	p3.Await("a heartbeat as a sync point", anySystem(domain.SystemHeartbeat))
	for _, env := range p3.seen {
		_, isText := env.Payload.(domain.TextMessage)
		s.Require().False(isText, "private message leaked to a non-participant")
	}
}

// Garbage on one connection must not disturb the others, and the
// offending connection keeps working afterwards.
func (s *RelayScenarioSuite) TestMalformedLineIsolated() {
	p1 := s.Dial()
	u1 := p1.Join("alice")
	p1.Await("its own broadcast", statusOf(u1.ID, domain.StatusOnline))

	s.Step("A second connection sends garbage before joining")
	p2 := s.Dial()
	p2.SendRaw("not-json\n")
	p2.SendRaw(`{"kind":"VIDEO","id":"x"}` + "\n")

	s.Step("The healthy session keeps receiving heartbeats")
	p1.Await("a heartbeat", anySystem(domain.SystemHeartbeat))

	s.Step("The offender can still join on the same connection")
	u2 := p2.Join("bob")
	p2.Await("its own Online broadcast", statusOf(u2.ID, domain.StatusOnline))
	p1.Await("the late joiner", statusOf(u2.ID, domain.StatusOnline))
}

// A second connection claiming an identity already online is refused
// and dropped, while the original session stays untouched.
func (s *RelayScenarioSuite) TestDuplicateIdentityRefused() {
	p1 := s.Dial()
	u1 := p1.Join("alice")
	p1.Await("its own broadcast", statusOf(u1.ID, domain.StatusOnline))

	s.Step("An impostor claims the same identity")
	p2 := s.Dial()
	p2.Send(domain.NewEnvelope(domain.UserStatusUpdate{
		Subject: u1,
		Status:  domain.StatusOnline,
	}))

	p2.Await("a rejection shaped as an Offline update", statusOf(u1.ID, domain.StatusOffline))
	p2.AwaitClosed()

	s.Step("The original session is still served")
	p1.Await("a heartbeat", anySystem(domain.SystemHeartbeat))
}

// Stopping the relay announces the shutdown to every session before
// the sockets go away.
func (s *RelayScenarioSuite) TestGracefulShutdownAnnounced() {
	p1 := s.Dial()
	u1 := p1.Join("alice")
	p1.Await("its own broadcast", statusOf(u1.ID, domain.StatusOnline))

	s.Step("Relay shuts down while the session is live")
	stopped := make(chan struct{})
	go func() {
		s.server.Stop()
		close(stopped)
	}()

	p1.Await("the shutdown announcement", anySystem(domain.SystemServerShutdown))

	select {
	case <-stopped:
	case <-time.After(s.Config.WaitTimeout):
		s.Require().Fail("relay never finished stopping")
	}
}
