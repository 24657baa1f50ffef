package notification

import (
	"testing"

	"messenger-fixtures/internal/domain/contact"
	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/domain/interaction"
	"messenger-fixtures/internal/faker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBatch() *faker.Batch {
	b := faker.NewBatch()
	b.Contacts["c1"] = contact.Contact{PublicKey: "c1", DisplayName: "Grace", ConversationPublicKey: "conv1", State: contact.StateAccepted}
	b.Conversations["conv1"] = conversation.Conversation{PublicKey: "conv1", Type: conversation.TypeContact, ContactPublicKey: "c1"}
	b.Conversations["group1"] = conversation.Conversation{PublicKey: "group1", Type: conversation.TypeMultiMember, DisplayName: "Ada's Party"}
	b.Interactions["conv1"] = []interaction.Interaction{
		{CID: "i1", Type: interaction.TypeUserMessage, ConversationPublicKey: "conv1", Payload: interaction.Payload{Body: "hello"}},
		{CID: "i2", Type: interaction.TypeUndefined, ConversationPublicKey: "conv1", Payload: interaction.Payload{Body: "ignored"}},
	}
	b.Interactions["group1"] = []interaction.Interaction{
		{CID: "g1", Type: interaction.TypeUserMessage, ConversationPublicKey: "group1", Payload: interaction.Payload{Body: "party time"}},
	}
	return b
}

func TestResolveOneToOne(t *testing.T) {
	n, ok := NewResolver().Resolve(testBatch(), PushData{ConversationPublicKey: "conv1", MessageID: "i1"})
	require.True(t, ok)
	assert.Equal(t, "Grace", n.Title)
	assert.Equal(t, "hello", n.Message)
	assert.Equal(t, RouteOneToOne, n.Route.Name)
	assert.Equal(t, "conv1", n.Route.Params["convId"])
	assert.Equal(t, TypeMessage, n.Type)
}

func TestResolveGroup(t *testing.T) {
	n, ok := NewResolver().Resolve(testBatch(), PushData{ConversationPublicKey: "group1", MessageID: "g1"})
	require.True(t, ok)
	assert.Equal(t, "Ada's Party", n.Title)
	assert.Equal(t, "party time", n.Message)
	assert.Equal(t, RouteGroup, n.Route.Name)
}

func TestResolveNonUserMessageHasNoBody(t *testing.T) {
	n, ok := NewResolver().Resolve(testBatch(), PushData{ConversationPublicKey: "conv1", MessageID: "i2"})
	require.True(t, ok)
	assert.Empty(t, n.Message)
}

func TestResolveUnknownConversation(t *testing.T) {
	n, ok := NewResolver().Resolve(testBatch(), PushData{ConversationPublicKey: "nope", MessageID: "x"})
	require.True(t, ok)
	assert.Empty(t, n.Title)
	assert.Empty(t, n.Message)
	assert.Equal(t, RouteOneToOne, n.Route.Name)
}

func TestResolveSuppressed(t *testing.T) {
	r := NewResolver()

	_, ok := r.Resolve(testBatch(), PushData{ConversationPublicKey: "conv1", MessageID: "i1", AlreadyReceived: true})
	assert.False(t, ok)

	_, ok = r.Resolve(testBatch(), PushData{MessageID: "i1"})
	assert.False(t, ok)

	_, ok = r.Resolve(nil, PushData{ConversationPublicKey: "conv1"})
	assert.False(t, ok)
}
