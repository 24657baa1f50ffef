package faker

import (
	"fmt"
	"sort"

	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/pkg/metrics"

	"go.uber.org/zap"
)

// MultiMemberResult holds generated group conversations and their members,
// keyed by conversation key then member key.
type MultiMemberResult struct {
	Conversations map[string]conversation.Conversation      `json:"conversations"`
	Members       map[string]map[string]conversation.Member `json:"members"`
}

func MultiMemberKey(i int) string {
	return fmt.Sprintf("fake_pk_multi_%d", i)
}

// MemberKey namespaces member m of conversation i so keys never collide across conversations.
func MemberKey(i, m int) string {
	return fmt.Sprintf("fake_pk_multi_member_%d", i*MaxMembers+m)
}

func InviteLink(i int) string {
	return fmt.Sprintf("fake://fake-multi-%d", i)
}

// GenerateMultiMemberConversations produces count group conversations keyed from start,
// each with a uniformly random number of members in [0, MaxMembers].
func (g *Generator) GenerateMultiMemberConversations(count, start int) (*MultiMemberResult, error) {
	if err := checkNonNegative("count", count); err != nil {
		return nil, err
	}
	if err := checkNonNegative("start", start); err != nil {
		return nil, err
	}
	if err := checkKeySpace("multi-member conversations", count, start, MaxMembers); err != nil {
		return nil, err
	}

	res := &MultiMemberResult{
		Conversations: make(map[string]conversation.Conversation, count),
		Members:       make(map[string]map[string]conversation.Member, count),
	}
	memberCount := 0
	for i := 0; i < count; i++ {
		idx := i + start
		convPK := MultiMemberKey(idx)

		n := g.rnd.IntN(MaxMembers + 1)
		members := make(map[string]conversation.Member, n)
		for m := 0; m < n; m++ {
			memberPK := MemberKey(idx, m)
			members[memberPK] = conversation.Member{
				PublicKey:             memberPK,
				DisplayName:           g.text.Name(),
				ConversationPublicKey: convPK,
				Fake:                  true,
			}
		}
		memberCount += n

		res.Conversations[convPK] = conversation.Conversation{
			PublicKey:   convPK,
			Type:        conversation.TypeMultiMember,
			DisplayName: g.text.Name() + "'s Party",
			Link:        InviteLink(idx),
			CreatedDate: g.pastMillis(),
			Fake:        true,
		}
		res.Members[convPK] = members
	}

	metrics.FixturesGeneratedTotal.WithLabelValues(metrics.KindConversation).Add(float64(count))
	metrics.FixturesGeneratedTotal.WithLabelValues(metrics.KindMember).Add(float64(memberCount))
	g.log.Info("generated fake multi-member conversations",
		zap.Int("conversations", count),
		zap.Int("members", memberCount),
	)
	return res, nil
}

// MemberList returns the members of a conversation ordered by key.
func (r *MultiMemberResult) MemberList(conversationPK string) []conversation.Member {
	return sortedMembers(r.Members[conversationPK])
}

func sortedMembers(members map[string]conversation.Member) []conversation.Member {
	list := make([]conversation.Member, 0, len(members))
	for _, m := range members {
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PublicKey < list[j].PublicKey })
	return list
}
