package faker

import (
	"fmt"
	"math"

	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/domain/interaction"
	fixture_errors "messenger-fixtures/pkg/errors"
	"messenger-fixtures/pkg/metrics"

	"go.uber.org/zap"
)

// maxPrealloc caps the up-front capacity of the generated message slice.
const maxPrealloc = 1 << 16

func InteractionKey(i int) string {
	return fmt.Sprintf("fake_interaction_%d", i)
}

// GenerateMessages produces perConversation user messages for every conversation, in input
// order. members[i] lists the members of conversations[i]. A multi-member conversation
// with no members gets no messages.
//
// In a multi-member conversation the sender is drawn uniformly among the local user and
// each member; in a one-to-one conversation it is a coin flip between the local user and
// the other party, whose messages carry no member key.
func (g *Generator) GenerateMessages(perConversation int, conversations []conversation.Conversation, members [][]conversation.Member, start int) ([]interaction.Interaction, error) {
	if err := checkNonNegative("perConversation", perConversation); err != nil {
		return nil, err
	}
	if err := checkNonNegative("start", start); err != nil {
		return nil, err
	}
	if len(members) != len(conversations) {
		return nil, fmt.Errorf("got %d member lists for %d conversations: %w",
			len(members), len(conversations), fixture_errors.ErrInvalidArgument)
	}

	if perConversation > (math.MaxInt-start)/max(1, len(conversations)) {
		return nil, fmt.Errorf("%d messages for %d conversations from %d overflow the key space: %w",
			perConversation, len(conversations), start, fixture_errors.ErrInvalidArgument)
	}

	out := make([]interaction.Interaction, 0, min(perConversation*len(conversations), maxPrealloc))
	skipped := 0
	for i, conv := range conversations {
		convMembers := members[i]
		if conv.IsMultiMember() && len(convMembers) == 0 {
			skipped++
			continue
		}

		for idx := 0; idx < perConversation; idx++ {
			isMine := true
			memberPK := ""
			if conv.IsMultiMember() {
				pick := g.rnd.IntN(len(convMembers) + 1)
				if pick < len(convMembers) {
					isMine = false
					memberPK = convMembers[pick].PublicKey
				}
			} else {
				isMine = g.coin()
			}

			out = append(out, interaction.Interaction{
				CID:                   InteractionKey(i*perConversation + idx + start),
				Type:                  interaction.TypeUserMessage,
				ConversationPublicKey: conv.PublicKey,
				MemberPublicKey:       memberPK,
				Payload:               interaction.Payload{Body: g.sentences()},
				IsMine:                isMine,
				SentDate:              g.pastMillis(),
				Acknowledged:          g.coin(),
				Fake:                  true,
			})
		}
	}

	metrics.FixturesGeneratedTotal.WithLabelValues(metrics.KindInteraction).Add(float64(len(out)))
	metrics.FixturesSkippedConversationsTotal.Add(float64(skipped))
	g.log.Info("generated fake messages",
		zap.Int("count", len(out)),
		zap.Int("skipped_conversations", skipped),
	)
	return out, nil
}
