package repository

import (
	"fmt"

	"messenger-fixtures/internal/domain/contact"
	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/domain/interaction"

	"gorm.io/gorm"
)

// Models lists the persisted fixture records in dependency order.
func Models() []interface{} {
	return []interface{}{
		&contact.Contact{},
		&conversation.Conversation{},
		&conversation.Member{},
		&interaction.Interaction{},
	}
}

// TableNames lists the fixture tables in the same order as Models.
func TableNames() []string {
	return []string{
		contact.Contact{}.TableName(),
		conversation.Conversation{}.TableName(),
		conversation.Member{}.TableName(),
		interaction.Interaction{}.TableName(),
	}
}

// InitSchema creates or updates the fixture tables.
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate fixture tables: %w", err)
	}
	return nil
}
