package notification

import (
	"messenger-fixtures/internal/domain/contact"
	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/domain/interaction"
)

const (
	RouteGroup    = "Chat.Group"
	RouteOneToOne = "Chat.OneToOne"

	TypeMessage = "message"
)

// PushData is a decoded push payload.
type PushData struct {
	ConversationPublicKey string `json:"conversationPublicKey"`
	MessageID             string `json:"messageId"`
	AlreadyReceived       bool   `json:"alreadyReceived"`
}

// Route is the navigation target opened when a notification is tapped.
type Route struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params"`
}

type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Route   Route  `json:"route"`
	Type    string `json:"type"`
}

// Store is the read side of a fixture batch needed to build notifications.
type Store interface {
	Conversation(pk string) (conversation.Conversation, bool)
	ContactByConversation(pk string) (contact.Contact, bool)
	Interaction(conversationPK, cid string) (interaction.Interaction, bool)
}

type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve builds the notification for push. It reports false when nothing should be shown.
func (r *Resolver) Resolve(store Store, push PushData) (*Notification, bool) {
	if push.AlreadyReceived || push.ConversationPublicKey == "" || store == nil {
		return nil, false
	}
	convPK := push.ConversationPublicKey
	conv, _ := store.Conversation(convPK)

	n := &Notification{
		Route: Route{
			Name:   RouteOneToOne,
			Params: map[string]string{"convId": convPK},
		},
		Type: TypeMessage,
	}
	if conv.IsMultiMember() {
		n.Title = conv.DisplayName
		n.Route.Name = RouteGroup
	} else if c, ok := store.ContactByConversation(convPK); ok {
		n.Title = c.DisplayName
	}

	if inte, ok := store.Interaction(convPK, push.MessageID); ok && inte.Type == interaction.TypeUserMessage {
		n.Message = inte.Payload.Body
	}
	return n, true
}
