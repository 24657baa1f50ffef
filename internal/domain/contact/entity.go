package contact

// State is the lifecycle state of a contact request
type State int32

const (
	StateUndefined               State = 0
	StateIncomingRequest         State = 1
	StateOutgoingRequestEnqueued State = 2
	StateOutgoingRequestSent     State = 3
	StateAccepted                State = 4
)

// States lists the states a generated contact may be in.
var States = []State{
	StateAccepted,
	StateOutgoingRequestSent,
	StateOutgoingRequestEnqueued,
	StateIncomingRequest,
}

func (s State) String() string {
	switch s {
	case StateIncomingRequest:
		return "IncomingRequest"
	case StateOutgoingRequestEnqueued:
		return "OutgoingRequestEnqueued"
	case StateOutgoingRequestSent:
		return "OutgoingRequestSent"
	case StateAccepted:
		return "Accepted"
	default:
		return "Undefined"
	}
}

// Contact mirrors the messenger client's contact record
type Contact struct {
	PublicKey             string `gorm:"primaryKey" json:"publicKey"`
	DisplayName           string `gorm:"not null" json:"displayName"`
	ConversationPublicKey string `gorm:"index" json:"conversationPublicKey"`
	State                 State  `gorm:"not null" json:"state"`
	Fake                  bool   `gorm:"not null;default:false" json:"fake"`
}

func (Contact) TableName() string {
	return "fixture_contacts"
}
