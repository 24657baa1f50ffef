package websocket

import (
	"strings"

	"messenger-fixtures/internal/notification"
)

const conversationPrefix = "notifications:"

// ChannelAuthorizer decides which notification channels a feed client may follow.
type ChannelAuthorizer struct {
	store func() notification.Store
}

// NewChannelAuthorizer checks conversation channels against the batch returned
// by store. A nil store allows every conversation.
func NewChannelAuthorizer(store func() notification.Store) *ChannelAuthorizer {
	return &ChannelAuthorizer{store: store}
}

func (a *ChannelAuthorizer) CanSubscribe(channel string) bool {
	if channel == AllChannel {
		return true
	}
	if !strings.HasPrefix(channel, conversationPrefix) {
		return false
	}
	convPK := strings.TrimPrefix(channel, conversationPrefix)
	if convPK == "" {
		return false
	}
	if a == nil || a.store == nil {
		return true
	}
	s := a.store()
	if s == nil {
		return false
	}
	_, ok := s.Conversation(convPK)
	return ok
}
