package faker

import (
	"fmt"

	"messenger-fixtures/internal/domain/contact"
	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/pkg/metrics"

	"go.uber.org/zap"
)

// ContactsResult holds generated contacts and the one-to-one conversations of the accepted ones.
type ContactsResult struct {
	Contacts      map[string]contact.Contact           `json:"contacts"`
	Conversations map[string]conversation.Conversation `json:"conversations"`
}

func ContactKey(i int) string {
	return fmt.Sprintf("fake_pk_contact_%d", i)
}

func ContactConversationKey(i int) string {
	return fmt.Sprintf("fake_pk_contact_conv_%d", i)
}

// GenerateContacts produces count contacts keyed from start. Every contact in the
// Accepted state gets a companion one-to-one conversation sharing its index.
func (g *Generator) GenerateContacts(count, start int) (*ContactsResult, error) {
	if err := checkNonNegative("count", count); err != nil {
		return nil, err
	}
	if err := checkNonNegative("start", start); err != nil {
		return nil, err
	}
	if err := checkKeySpace("contacts", count, start, 1); err != nil {
		return nil, err
	}

	res := &ContactsResult{
		Contacts:      make(map[string]contact.Contact, count),
		Conversations: make(map[string]conversation.Conversation),
	}
	for i := 0; i < count; i++ {
		idx := i + start
		state := contact.States[g.rnd.IntN(len(contact.States))]
		contactPK := ContactKey(idx)
		name := g.text.Name()
		createdDate := g.pastMillis()

		c := contact.Contact{
			PublicKey:   contactPK,
			DisplayName: name,
			State:       state,
			Fake:        true,
		}
		if state == contact.StateAccepted {
			convPK := ContactConversationKey(idx)
			c.ConversationPublicKey = convPK
			res.Conversations[convPK] = conversation.Conversation{
				PublicKey:        convPK,
				Type:             conversation.TypeContact,
				DisplayName:      name,
				ContactPublicKey: contactPK,
				CreatedDate:      createdDate,
				Fake:             true,
			}
		}
		res.Contacts[contactPK] = c
	}

	metrics.FixturesGeneratedTotal.WithLabelValues(metrics.KindContact).Add(float64(len(res.Contacts)))
	metrics.FixturesGeneratedTotal.WithLabelValues(metrics.KindConversation).Add(float64(len(res.Conversations)))
	g.log.Info("generated fake contacts",
		zap.Int("contacts", len(res.Contacts)),
		zap.Int("conversations", len(res.Conversations)),
	)
	return res, nil
}
