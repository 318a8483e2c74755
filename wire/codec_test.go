package wire

import (
	"testing"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip_TextMessage(t *testing.T) {
	req := require.New(t)
	alice := domain.User{ID: "u-alice", Name: "alice"}
	bob := domain.User{ID: "u-bob", Name: "bob"}

	// Given a text message targeting a private chat
	env := domain.NewEnvelope(domain.TextMessage{
		Chat: domain.Chat{
			ID:           "c-1",
			Name:         "alice+bob",
			Kind:         domain.ChatPrivate,
			Participants: []domain.User{alice, bob},
		},
		Sender:  alice,
		Content: "hello bob",
	})

	// When it is encoded and decoded again
	line, err := Encode(env)
	req.NoError(err)
	req.Equal(byte('\n'), line[len(line)-1])

	decoded, err := Decode(line[:len(line)-1])
	req.NoError(err)

	// Then discriminator, id, timestamp and variant fields survive
	req.Equal(domain.KindText, decoded.Kind())
	req.Equal(env.ID, decoded.ID)
	req.WithinDuration(env.CreatedAt, decoded.CreatedAt, time.Millisecond)

	msg, ok := decoded.Payload.(domain.TextMessage)
	req.True(ok)
	req.Equal("hello bob", msg.Content)
	req.Equal(alice, msg.Sender)
	req.Equal(domain.ChatPrivate, msg.Chat.Kind)
	req.ElementsMatch([]domain.User{alice, bob}, msg.Chat.Participants)
}

func TestCodec_RoundTrip_UserStatusUpdate(t *testing.T) {
	req := require.New(t)

	env := domain.NewEnvelope(domain.UserStatusUpdate{
		Subject: domain.User{ID: "u-1", Name: "carol", Coordinator: true},
		Status:  domain.StatusOnline,
	})

	line, err := Encode(env)
	req.NoError(err)

	decoded, err := Decode(line)
	req.NoError(err)

	req.Equal(domain.KindUserUpdate, decoded.Kind())
	req.Equal(env.ID, decoded.ID)
	req.WithinDuration(env.CreatedAt, decoded.CreatedAt, time.Millisecond)

	upd, ok := decoded.Payload.(domain.UserStatusUpdate)
	req.True(ok)
	req.Equal(domain.StatusOnline, upd.Status)
	req.True(upd.Subject.Coordinator)
	req.Equal("carol", upd.Subject.Name)
}

func TestCodec_RoundTrip_SystemMessage(t *testing.T) {
	req := require.New(t)

	env := domain.NewEnvelope(domain.SystemMessage{
		Subtype: domain.SystemCoordinatorIDTransition,
		Payload: "u-42",
	})

	line, err := Encode(env)
	req.NoError(err)

	decoded, err := Decode(line)
	req.NoError(err)

	sys, ok := decoded.Payload.(domain.SystemMessage)
	req.True(ok)
	req.Equal(domain.SystemCoordinatorIDTransition, sys.Subtype)
	req.Equal("u-42", sys.Payload)
}

func TestCodec_Timestamp_NoZoneOffset(t *testing.T) {
	req := require.New(t)

	env := domain.NewEnvelope(domain.SystemMessage{Subtype: domain.SystemHeartbeat})
	line, err := Encode(env)
	req.NoError(err)

	// The wire timestamp is a plain local wall clock rendering,
	// no offset, millisecond precision.
	req.Contains(string(line), env.CreatedAt.Format(TimeLayout))
	req.NotContains(string(line), "Z\"")
	req.NotContains(string(line), "+00:00")
}

func TestCodec_Decode_NotJSON(t *testing.T) {
	req := require.New(t)

	_, err := Decode([]byte("not-json"))

	req.ErrorIs(err, errors.ErrDecode)
}

func TestCodec_Decode_MissingDiscriminator(t *testing.T) {
	req := require.New(t)

	_, err := Decode([]byte(`{"id":"x","created_at":"2024-01-01 10:00:00.000"}`))

	req.ErrorIs(err, errors.ErrDecode)
}

func TestCodec_Decode_UnknownDiscriminator(t *testing.T) {
	req := require.New(t)

	_, err := Decode([]byte(`{"kind":"VIDEO","id":"x","created_at":"2024-01-01 10:00:00.000"}`))

	req.ErrorIs(err, errors.ErrDecode)
}

func TestCodec_Decode_MissingVariantFields(t *testing.T) {
	req := require.New(t)

	// A TEXT envelope without the text variant must fail
	_, err := Decode([]byte(`{"kind":"TEXT","id":"x","created_at":"2024-01-01 10:00:00.000"}`))
	req.ErrorIs(err, errors.ErrDecode)

	// A USER_UPDATE with an unknown status must fail too
	_, err = Decode([]byte(`{"kind":"USER_UPDATE","id":"x","created_at":"2024-01-01 10:00:00.000",` +
		`"user_update":{"subject":{"id":"u-1"},"status":"AWAY"}}`))
	req.ErrorIs(err, errors.ErrDecode)
}

func TestCodec_Decode_UnknownSystemSubtype_Tolerated(t *testing.T) {
	req := require.New(t)

	// Given a subtype this version has never heard of
	line := []byte(`{"kind":"SYSTEM","id":"x","created_at":"2024-01-01 10:00:00.000",` +
		`"system":{"subtype":"FUTURE_THING","payload":"whatever"}}`)

	// When decoding
	decoded, err := Decode(line)

	// Then it succeeds and carries the tag verbatim
	req.NoError(err)
	sys, ok := decoded.Payload.(domain.SystemMessage)
	req.True(ok)
	req.Equal(domain.SystemSubtype("FUTURE_THING"), sys.Subtype)
	req.False(sys.Subtype.Known())
	req.Equal("whatever", sys.Payload)
}
