package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"messenger-fixtures/internal/domain/contact"
	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/domain/interaction"
	"messenger-fixtures/internal/faker"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

type PostgresFixtureRepository struct {
	db *gorm.DB
}

func NewFixtureRepository(db *gorm.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

func (r *PostgresFixtureRepository) SaveBatch(ctx context.Context, batch *faker.Batch) (faker.BatchCounts, error) {
	var inserted faker.BatchCounts
	rows := flatten(batch)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name  string
			value interface{}
			empty bool
			count *int
		}{
			{"contacts", &rows.contacts, len(rows.contacts) == 0, &inserted.Contacts},
			{"conversations", &rows.conversations, len(rows.conversations) == 0, &inserted.Conversations},
			{"members", &rows.members, len(rows.members) == 0, &inserted.Members},
			{"interactions", &rows.interactions, len(rows.interactions) == 0, &inserted.Interactions},
		}
		for _, step := range steps {
			if step.empty {
				continue
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(step.value, insertBatchSize)
			if res.Error != nil {
				return fmt.Errorf("insert %s: %w", step.name, mapError(res.Error))
			}
			*step.count = int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return faker.BatchCounts{}, err
	}
	return inserted, nil
}

func (r *PostgresFixtureRepository) LoadBatch(ctx context.Context) (*faker.Batch, error) {
	db := r.db.WithContext(ctx)

	var contacts []contact.Contact
	if err := db.Order("public_key").Find(&contacts).Error; err != nil {
		return nil, mapError(err)
	}
	var convs []conversation.Conversation
	if err := db.Order("public_key").Find(&convs).Error; err != nil {
		return nil, mapError(err)
	}
	var members []conversation.Member
	if err := db.Order("public_key").Find(&members).Error; err != nil {
		return nil, mapError(err)
	}
	var interactions []interaction.Interaction
	if err := db.Order("sent_date, cid").Find(&interactions).Error; err != nil {
		return nil, mapError(err)
	}

	return assemble(contacts, convs, members, interactions), nil
}

func (r *PostgresFixtureRepository) CountAll(ctx context.Context) (faker.BatchCounts, error) {
	db := r.db.WithContext(ctx)
	var counts faker.BatchCounts

	targets := []struct {
		model interface{}
		count *int
	}{
		{&contact.Contact{}, &counts.Contacts},
		{&conversation.Conversation{}, &counts.Conversations},
		{&conversation.Member{}, &counts.Members},
		{&interaction.Interaction{}, &counts.Interactions},
	}
	for _, target := range targets {
		var n int64
		if err := db.Model(target.model).Count(&n).Error; err != nil {
			return faker.BatchCounts{}, mapError(err)
		}
		*target.count = int(n)
	}
	return counts, nil
}

func (r *PostgresFixtureRepository) Truncate(ctx context.Context) error {
	stmt := "TRUNCATE TABLE " + strings.Join(TableNames(), ", ")
	return r.db.WithContext(ctx).Exec(stmt).Error
}

type batchRows struct {
	contacts      []contact.Contact
	conversations []conversation.Conversation
	members       []conversation.Member
	interactions  []interaction.Interaction
}

// flatten turns a batch into insert-ready slices with a stable order.
func flatten(batch *faker.Batch) batchRows {
	var rows batchRows
	for _, pk := range sortedKeys(batch.Contacts) {
		rows.contacts = append(rows.contacts, batch.Contacts[pk])
	}
	convs := batch.ConversationList()
	rows.conversations = convs
	for _, members := range batch.MemberLists(convs) {
		rows.members = append(rows.members, members...)
	}
	rows.interactions = batch.AllInteractions()
	return rows
}

func assemble(contacts []contact.Contact, convs []conversation.Conversation, members []conversation.Member, interactions []interaction.Interaction) *faker.Batch {
	b := faker.NewBatch()
	for _, c := range contacts {
		b.Contacts[c.PublicKey] = c
	}
	for _, c := range convs {
		b.Conversations[c.PublicKey] = c
		if c.IsMultiMember() {
			b.Members[c.PublicKey] = make(map[string]conversation.Member)
		}
	}
	for _, m := range members {
		if _, ok := b.Members[m.ConversationPublicKey]; !ok {
			b.Members[m.ConversationPublicKey] = make(map[string]conversation.Member)
		}
		b.Members[m.ConversationPublicKey][m.PublicKey] = m
	}
	for _, i := range interactions {
		b.Interactions[i.ConversationPublicKey] = append(b.Interactions[i.ConversationPublicKey], i)
	}
	return b
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
