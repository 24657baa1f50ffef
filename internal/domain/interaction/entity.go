package interaction

// Type is the application message type of an interaction
type Type int32

const (
	TypeUndefined   Type = 0
	TypeUserMessage Type = 1
)

func (t Type) String() string {
	if t == TypeUserMessage {
		return "TypeUserMessage"
	}
	return "TypeUndefined"
}

// Payload holds the content of a user message
type Payload struct {
	Body string `json:"body"`
}

// Interaction is a timeline event inside a conversation.
// MemberPublicKey is empty when the local user authored it.
type Interaction struct {
	CID                   string  `gorm:"column:cid;primaryKey" json:"cid"`
	Type                  Type    `gorm:"not null" json:"type"`
	ConversationPublicKey string  `gorm:"not null;index" json:"conversationPublicKey"`
	MemberPublicKey       string  `json:"memberPublicKey"`
	Payload               Payload `gorm:"embedded;embeddedPrefix:payload_" json:"payload"`
	IsMine                bool    `gorm:"not null" json:"isMine"`
	SentDate              int64   `gorm:"not null;index" json:"sentDate"`
	Acknowledged          bool    `gorm:"not null" json:"acknowledged"`
	Fake                  bool    `gorm:"not null;default:false" json:"fake"`
}

func (Interaction) TableName() string {
	return "fixture_interactions"
}
