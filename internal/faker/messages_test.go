package faker

import (
	"math"
	"testing"

	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/domain/interaction"
	fixture_errors "messenger-fixtures/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMessagesSkipsEmptyMultiMember(t *testing.T) {
	g := newSeededGenerator(5)

	conv0 := conversation.Conversation{PublicKey: MultiMemberKey(0), Type: conversation.TypeMultiMember}
	conv1 := conversation.Conversation{PublicKey: ContactConversationKey(0), Type: conversation.TypeContact}

	msgs, err := g.GenerateMessages(3, []conversation.Conversation{conv0, conv1}, [][]conversation.Member{{}, {}}, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// conv0 is skipped but still consumes its index range.
	for idx, m := range msgs {
		assert.Equal(t, conv1.PublicKey, m.ConversationPublicKey)
		assert.Equal(t, InteractionKey(3+idx), m.CID)
		assert.Equal(t, interaction.TypeUserMessage, m.Type)
		assert.Empty(t, m.MemberPublicKey)
		assert.NotEmpty(t, m.Payload.Body)
		assert.True(t, m.Fake)
		assertInWindow(t, m.SentDate)
	}
}

func TestGenerateMessagesMultiMemberSenders(t *testing.T) {
	g := newSeededGenerator(9)

	res, err := g.GenerateMultiMemberConversations(1, 0)
	require.NoError(t, err)
	convPK := MultiMemberKey(0)
	members := []conversation.Member{
		{PublicKey: MemberKey(0, 0), ConversationPublicKey: convPK},
		{PublicKey: MemberKey(0, 1), ConversationPublicKey: convPK},
	}

	msgs, err := g.GenerateMessages(200, []conversation.Conversation{res.Conversations[convPK]}, [][]conversation.Member{members}, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 200)

	senders := map[string]int{}
	for _, m := range msgs {
		if m.IsMine {
			assert.Empty(t, m.MemberPublicKey)
		} else {
			assert.Contains(t, []string{MemberKey(0, 0), MemberKey(0, 1)}, m.MemberPublicKey)
		}
		senders[m.MemberPublicKey]++
	}
	// Three-way uniform choice over 200 draws hits every sender.
	assert.Len(t, senders, 3)
}

func TestGenerateMessagesSenderSelectionIndex(t *testing.T) {
	conv := conversation.Conversation{PublicKey: MultiMemberKey(0), Type: conversation.TypeMultiMember}
	members := []conversation.Member{{PublicKey: "m0"}, {PublicKey: "m1"}}

	// The last index of the N+1 way choice is the local user.
	mine, err := newStubGenerator(last, 0).GenerateMessages(1, []conversation.Conversation{conv}, [][]conversation.Member{members}, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsMine)
	assert.Empty(t, mine[0].MemberPublicKey)

	theirs, err := newStubGenerator(first, 0).GenerateMessages(1, []conversation.Conversation{conv}, [][]conversation.Member{members}, 0)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.False(t, theirs[0].IsMine)
	assert.Equal(t, "m0", theirs[0].MemberPublicKey)
}

func TestGenerateMessagesOneToOneCoinFlip(t *testing.T) {
	conv := conversation.Conversation{PublicKey: ContactConversationKey(1), Type: conversation.TypeContact}

	heads, err := newStubGenerator(last, 0).GenerateMessages(2, []conversation.Conversation{conv}, [][]conversation.Member{nil}, 0)
	require.NoError(t, err)
	for _, m := range heads {
		assert.True(t, m.IsMine)
		assert.True(t, m.Acknowledged)
	}

	tails, err := newStubGenerator(first, 0).GenerateMessages(2, []conversation.Conversation{conv}, [][]conversation.Member{nil}, 0)
	require.NoError(t, err)
	for _, m := range tails {
		assert.False(t, m.IsMine)
		assert.False(t, m.Acknowledged)
		assert.Empty(t, m.MemberPublicKey)
	}
}

func TestGenerateMessagesTotalLength(t *testing.T) {
	g := newSeededGenerator(21)

	contacts, err := g.GenerateContacts(15, 0)
	require.NoError(t, err)
	multi, err := g.GenerateMultiMemberConversations(15, 0)
	require.NoError(t, err)

	b := NewBatch()
	b.Conversations = contacts.Conversations
	for pk, c := range multi.Conversations {
		b.Conversations[pk] = c
	}
	b.Members = multi.Members
	convs := b.ConversationList()
	lists := b.MemberLists(convs)

	eligible := 0
	for i, c := range convs {
		if !c.IsMultiMember() || len(lists[i]) > 0 {
			eligible++
		}
	}

	msgs, err := g.GenerateMessages(4, convs, lists, 100)
	require.NoError(t, err)
	assert.Len(t, msgs, 4*eligible)

	cids := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		_, dup := cids[m.CID]
		require.False(t, dup, m.CID)
		cids[m.CID] = struct{}{}
		_, ok := b.Conversations[m.ConversationPublicKey]
		assert.True(t, ok)
		if m.MemberPublicKey != "" {
			_, ok := b.Members[m.ConversationPublicKey][m.MemberPublicKey]
			assert.True(t, ok)
		}
	}
}

func TestGenerateMessagesPreservesConversationOrder(t *testing.T) {
	convs := []conversation.Conversation{
		{PublicKey: "b", Type: conversation.TypeContact},
		{PublicKey: "a", Type: conversation.TypeContact},
	}
	msgs, err := newSeededGenerator(2).GenerateMessages(2, convs, [][]conversation.Member{nil, nil}, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, []string{"b", "b", "a", "a"}, []string{
		msgs[0].ConversationPublicKey, msgs[1].ConversationPublicKey,
		msgs[2].ConversationPublicKey, msgs[3].ConversationPublicKey,
	})
}

func TestGenerateMessagesInvalidInput(t *testing.T) {
	g := newSeededGenerator(1)
	convs := []conversation.Conversation{{PublicKey: "a", Type: conversation.TypeContact}}

	_, err := g.GenerateMessages(-1, convs, [][]conversation.Member{nil}, 0)
	assert.ErrorIs(t, err, fixture_errors.ErrInvalidArgument)

	_, err = g.GenerateMessages(1, convs, nil, 0)
	assert.ErrorIs(t, err, fixture_errors.ErrInvalidArgument)

	msgs, err := g.GenerateMessages(5, nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestGenerateMessagesRejectsKeyOverflow(t *testing.T) {
	g := newSeededGenerator(1)
	convs := []conversation.Conversation{
		{PublicKey: "a", Type: conversation.TypeMultiMember},
		{PublicKey: "b", Type: conversation.TypeMultiMember},
	}

	_, err := g.GenerateMessages(1<<62, convs, [][]conversation.Member{nil, nil}, 0)
	assert.ErrorIs(t, err, fixture_errors.ErrInvalidArgument)

	_, err = g.GenerateMessages(1, convs[:1], [][]conversation.Member{nil}, math.MaxInt)
	assert.ErrorIs(t, err, fixture_errors.ErrInvalidArgument)

	msgs, err := g.GenerateMessages(1, convs[:1], [][]conversation.Member{nil}, math.MaxInt-1)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
