package faker

import (
	"fmt"
	"sort"

	"messenger-fixtures/internal/domain/contact"
	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/domain/interaction"
	fixture_errors "messenger-fixtures/pkg/errors"
)

// BatchOptions sizes and offsets a composed batch. Offsets let several batches be
// merged without key collisions.
type BatchOptions struct {
	Contacts                int `json:"contacts"`
	ContactsStart           int `json:"contactsStart"`
	MultiMember             int `json:"multiMember"`
	MultiMemberStart        int `json:"multiMemberStart"`
	MessagesPerConversation int `json:"messagesPerConversation"`
	MessagesStart           int `json:"messagesStart"`
}

func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Contacts:                20,
		MultiMember:             5,
		MessagesPerConversation: 10,
	}
}

// Batch is a full fixture set. Interactions are grouped by conversation key in
// generation order.
type Batch struct {
	Contacts      map[string]contact.Contact                `json:"contacts"`
	Conversations map[string]conversation.Conversation      `json:"conversations"`
	Members       map[string]map[string]conversation.Member `json:"members"`
	Interactions  map[string][]interaction.Interaction      `json:"interactions"`
}

type BatchCounts struct {
	Contacts      int `json:"contacts"`
	Conversations int `json:"conversations"`
	Members       int `json:"members"`
	Interactions  int `json:"interactions"`
}

func NewBatch() *Batch {
	return &Batch{
		Contacts:      make(map[string]contact.Contact),
		Conversations: make(map[string]conversation.Conversation),
		Members:       make(map[string]map[string]conversation.Member),
		Interactions:  make(map[string][]interaction.Interaction),
	}
}

// GenerateBatch runs the three generation operations and links their output:
// messages are generated over every conversation in ConversationList order.
func (g *Generator) GenerateBatch(opts BatchOptions) (*Batch, error) {
	contacts, err := g.GenerateContacts(opts.Contacts, opts.ContactsStart)
	if err != nil {
		return nil, fmt.Errorf("contacts: %w", err)
	}
	multi, err := g.GenerateMultiMemberConversations(opts.MultiMember, opts.MultiMemberStart)
	if err != nil {
		return nil, fmt.Errorf("multi-member conversations: %w", err)
	}

	b := NewBatch()
	b.Contacts = contacts.Contacts
	for pk, c := range contacts.Conversations {
		b.Conversations[pk] = c
	}
	for pk, c := range multi.Conversations {
		b.Conversations[pk] = c
	}
	b.Members = multi.Members

	convs := b.ConversationList()
	msgs, err := g.GenerateMessages(opts.MessagesPerConversation, convs, b.MemberLists(convs), opts.MessagesStart)
	if err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	for _, m := range msgs {
		b.Interactions[m.ConversationPublicKey] = append(b.Interactions[m.ConversationPublicKey], m)
	}
	return b, nil
}

// ConversationList returns one-to-one conversations then multi-member ones, each group
// ordered by key.
func (b *Batch) ConversationList() []conversation.Conversation {
	list := make([]conversation.Conversation, 0, len(b.Conversations))
	for _, c := range b.Conversations {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsMultiMember() != list[j].IsMultiMember() {
			return !list[i].IsMultiMember()
		}
		return list[i].PublicKey < list[j].PublicKey
	})
	return list
}

// MemberLists returns the member list of each conversation, aligned with convs.
func (b *Batch) MemberLists(convs []conversation.Conversation) [][]conversation.Member {
	lists := make([][]conversation.Member, len(convs))
	for i, c := range convs {
		lists[i] = sortedMembers(b.Members[c.PublicKey])
	}
	return lists
}

// AllInteractions flattens interactions in ConversationList order.
func (b *Batch) AllInteractions() []interaction.Interaction {
	var out []interaction.Interaction
	for _, c := range b.ConversationList() {
		out = append(out, b.Interactions[c.PublicKey]...)
	}
	return out
}

func (b *Batch) Conversation(pk string) (conversation.Conversation, bool) {
	c, ok := b.Conversations[pk]
	return c, ok
}

// ContactByConversation finds the contact whose one-to-one conversation is pk.
func (b *Batch) ContactByConversation(pk string) (contact.Contact, bool) {
	if pk == "" {
		return contact.Contact{}, false
	}
	for _, c := range b.Contacts {
		if c.ConversationPublicKey == pk {
			return c, true
		}
	}
	return contact.Contact{}, false
}

func (b *Batch) Interaction(conversationPK, cid string) (interaction.Interaction, bool) {
	for _, i := range b.Interactions[conversationPK] {
		if i.CID == cid {
			return i, true
		}
	}
	return interaction.Interaction{}, false
}

func (b *Batch) Counts() BatchCounts {
	counts := BatchCounts{
		Contacts:      len(b.Contacts),
		Conversations: len(b.Conversations),
	}
	for _, members := range b.Members {
		counts.Members += len(members)
	}
	for _, list := range b.Interactions {
		counts.Interactions += len(list)
	}
	return counts
}

// Merge returns a new batch holding both b and other. Any key present in both fails
// with ErrConflict.
func (b *Batch) Merge(other *Batch) (*Batch, error) {
	out := NewBatch()
	seenMembers := make(map[string]struct{})
	seenCIDs := make(map[string]struct{})

	for _, src := range []*Batch{b, other} {
		for pk, c := range src.Contacts {
			if _, dup := out.Contacts[pk]; dup {
				return nil, conflict("contact", pk)
			}
			out.Contacts[pk] = c
		}
		for pk, c := range src.Conversations {
			if _, dup := out.Conversations[pk]; dup {
				return nil, conflict("conversation", pk)
			}
			out.Conversations[pk] = c
		}
		for convPK, members := range src.Members {
			merged := make(map[string]conversation.Member, len(members))
			for pk, m := range members {
				if _, dup := seenMembers[pk]; dup {
					return nil, conflict("member", pk)
				}
				seenMembers[pk] = struct{}{}
				merged[pk] = m
			}
			out.Members[convPK] = merged
		}
		for convPK, list := range src.Interactions {
			for _, i := range list {
				if _, dup := seenCIDs[i.CID]; dup {
					return nil, conflict("interaction", i.CID)
				}
				seenCIDs[i.CID] = struct{}{}
			}
			out.Interactions[convPK] = append(out.Interactions[convPK], list...)
		}
	}
	return out, nil
}

func conflict(kind, key string) error {
	return fmt.Errorf("duplicate %s key %q: %w", kind, key, fixture_errors.ErrConflict)
}
