package domain

type ChatKind string

const (
	ChatGroup   ChatKind = "GROUP"
	ChatPrivate ChatKind = "PRIVATE"
)

// GeneralChatID is the fixed, well-known id of the server-wide group chat.
// Conceptually it contains every online user, so the server never keeps an
// explicit participant list for it.
const GeneralChatID = "general-chat"

// Chat is a named conversation. Participants are unique and unordered;
// the set is never empty once the chat exists.
type Chat struct {
	ID           string
	Name         string
	Kind         ChatKind
	Participants []User
}

func NewGeneralChat(participants ...User) Chat {
	return Chat{
		ID:           GeneralChatID,
		Name:         "General",
		Kind:         ChatGroup,
		Participants: participants,
	}
}

// HasParticipant reports whether the user id belongs to the chat.
// The General chat implicitly contains everyone.
func (c Chat) HasParticipant(userID string) bool {
	if c.ID == GeneralChatID {
		return true
	}
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
