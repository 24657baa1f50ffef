package conversation

// Type is the kind of a conversation
type Type int32

const (
	TypeUndefined   Type = 0
	TypeAccount     Type = 1
	TypeContact     Type = 2
	TypeMultiMember Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeAccount:
		return "AccountType"
	case TypeContact:
		return "ContactType"
	case TypeMultiMember:
		return "MultiMemberType"
	default:
		return "Undefined"
	}
}

// Conversation mirrors the messenger client's conversation record.
// ContactPublicKey is only set on one-to-one conversations, Link only on multi-member ones.
type Conversation struct {
	PublicKey        string `gorm:"primaryKey" json:"publicKey"`
	Type             Type   `gorm:"not null;index" json:"type"`
	DisplayName      string `gorm:"not null" json:"displayName"`
	ContactPublicKey string `json:"contactPublicKey,omitempty"`
	Link             string `json:"link,omitempty"`
	CreatedDate      int64  `gorm:"not null" json:"createdDate"`
	Fake             bool   `gorm:"not null;default:false" json:"fake"`
}

func (Conversation) TableName() string {
	return "fixture_conversations"
}

// IsMultiMember reports whether the conversation is a group conversation
func (c Conversation) IsMultiMember() bool {
	return c.Type == TypeMultiMember
}

// Member represents a participant of a multi-member conversation
type Member struct {
	PublicKey             string `gorm:"primaryKey" json:"publicKey"`
	DisplayName           string `gorm:"not null" json:"displayName"`
	ConversationPublicKey string `gorm:"primaryKey" json:"conversationPublicKey"`
	Fake                  bool   `gorm:"not null;default:false" json:"fake"`
}

func (Member) TableName() string {
	return "fixture_members"
}
