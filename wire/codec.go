// Package wire converts envelopes to and from their line-delimited JSON
// representation. One envelope is exactly one newline-terminated UTF-8
// line; the message boundary is the newline, there is no length prefix.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// TimeLayout is the fixed, locale-independent timestamp format. Local
// wall-clock semantics, no zone offset, millisecond precision.
const TimeLayout = "2006-01-02 15:04:05.000"

var validate = validator.New()

type envelopeDTO struct {
	Kind       string         `json:"kind" validate:"required,oneof=TEXT USER_UPDATE SYSTEM"`
	ID         string         `json:"id" validate:"required"`
	CreatedAt  string         `json:"created_at" validate:"required"`
	Text       *textDTO       `json:"text,omitempty" validate:"required_if=Kind TEXT"`
	UserUpdate *userUpdateDTO `json:"user_update,omitempty" validate:"required_if=Kind USER_UPDATE"`
	System     *systemDTO     `json:"system,omitempty" validate:"required_if=Kind SYSTEM"`
}

type userDTO struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name"`
	Coordinator bool   `json:"coordinator,omitempty"`
}

type chatDTO struct {
	ID           string    `json:"id" validate:"required"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind" validate:"required,oneof=GROUP PRIVATE"`
	Participants []userDTO `json:"participants" validate:"min=1,dive"`
}

type textDTO struct {
	Chat    chatDTO `json:"chat"`
	Sender  userDTO `json:"sender"`
	Content string  `json:"content"`
}

type userUpdateDTO struct {
	Subject userDTO `json:"subject"`
	Status  string  `json:"status" validate:"required,oneof=ONLINE OFFLINE"`
}

type systemDTO struct {
	Subtype string `json:"subtype" validate:"required"`
	Payload string `json:"payload"`
}

// Encode renders one envelope as a newline-terminated JSON line. It is
// total for well-formed in-memory values; the only failure mode is an
// envelope carrying no payload variant.
func Encode(e domain.Envelope) ([]byte, error) {
	dto := envelopeDTO{
		ID:        e.ID,
		CreatedAt: e.CreatedAt.Format(TimeLayout),
	}

	switch p := e.Payload.(type) {
	case domain.TextMessage:
		dto.Kind = string(domain.KindText)
		dto.Text = &textDTO{
			Chat:    toChatDTO(p.Chat),
			Sender:  toUserDTO(p.Sender),
			Content: p.Content,
		}
	case domain.UserStatusUpdate:
		dto.Kind = string(domain.KindUserUpdate)
		dto.UserUpdate = &userUpdateDTO{
			Subject: toUserDTO(p.Subject),
			Status:  string(p.Status),
		}
	case domain.SystemMessage:
		dto.Kind = string(domain.KindSystem)
		dto.System = &systemDTO{
			Subtype: string(p.Subtype),
			Payload: p.Payload,
		}
	default:
		return nil, fmt.Errorf("envelope %s has no payload variant", e.ID)
	}

	line, err := json.Marshal(dto)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}

// Decode parses one line back into an envelope. It fails with a wrapped
// errors.ErrDecode when the line is not valid JSON, when the top-level
// discriminator is missing or unrecognized, or when a variant's required
// fields are absent. Unknown SYSTEM subtypes are carried through verbatim
// instead of failing, to tolerate version skew between peers.
func Decode(line []byte) (domain.Envelope, error) {
	var dto envelopeDTO
	if err := json.Unmarshal(line, &dto); err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %v", errors.ErrDecode, err)
	}

	if err := validate.Struct(dto); err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %v", errors.ErrDecode, err)
	}

	at, err := time.ParseInLocation(TimeLayout, dto.CreatedAt, time.Local)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: bad timestamp %q", errors.ErrDecode, dto.CreatedAt)
	}

	env := domain.Envelope{ID: dto.ID, CreatedAt: at}

	switch domain.EnvelopeKind(dto.Kind) {
	case domain.KindText:
		env.Payload = domain.TextMessage{
			Chat:    fromChatDTO(dto.Text.Chat),
			Sender:  fromUserDTO(dto.Text.Sender),
			Content: dto.Text.Content,
		}
	case domain.KindUserUpdate:
		env.Payload = domain.UserStatusUpdate{
			Subject: fromUserDTO(dto.UserUpdate.Subject),
			Status:  domain.Status(dto.UserUpdate.Status),
		}
	case domain.KindSystem:
		env.Payload = domain.SystemMessage{
			Subtype: domain.SystemSubtype(dto.System.Subtype),
			Payload: dto.System.Payload,
		}
	}
	return env, nil
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Coordinator: u.Coordinator}
}

func fromUserDTO(u userDTO) domain.User {
	return domain.User{ID: u.ID, Name: u.Name, Coordinator: u.Coordinator}
}

func toChatDTO(c domain.Chat) chatDTO {
	return chatDTO{
		ID:           c.ID,
		Name:         c.Name,
		Kind:         string(c.Kind),
		Participants: lo.Map(c.Participants, func(u domain.User, _ int) userDTO { return toUserDTO(u) }),
	}
}

func fromChatDTO(c chatDTO) domain.Chat {
	return domain.Chat{
		ID:           c.ID,
		Name:         c.Name,
		Kind:         domain.ChatKind(c.Kind),
		Participants: lo.Map(c.Participants, func(u userDTO, _ int) domain.User { return fromUserDTO(u) }),
	}
}
