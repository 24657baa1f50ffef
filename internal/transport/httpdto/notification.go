package httpdto

// PushRequest is used for POST /v1/notifications/push
type PushRequest struct {
	ConversationPublicKey string `json:"conversationPublicKey"`
	MessageID             string `json:"messageId"`
	AlreadyReceived       bool   `json:"alreadyReceived"`
}
