package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"messenger-fixtures/internal/domain/conversation"
	"messenger-fixtures/internal/faker"
	"messenger-fixtures/internal/notification"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupNotification(conv string) notification.Notification {
	return notification.Notification{
		Title: "Ada's Party",
		Route: notification.Route{Name: notification.RouteGroup, Params: map[string]string{"convId": conv}},
		Type:  notification.TypeMessage,
	}
}

func runHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func registered(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.GetClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHubDeliverRoutesByConversation(t *testing.T) {
	hub := runHub(t)
	all := &Client{ID: "all", Send: make(chan []byte, 4), channels: map[string]bool{}}
	one := &Client{ID: "one", Send: make(chan []byte, 4), channels: map[string]bool{}}
	both := &Client{ID: "both", Send: make(chan []byte, 4), channels: map[string]bool{}}

	hub.Register(all, AllChannel)
	hub.Register(one, "notifications:conv_a")
	hub.Register(both, AllChannel, "notifications:conv_a")
	registered(t, hub, 3)

	hub.Deliver(groupNotification("conv_b"))
	hub.Deliver(groupNotification("conv_a"))

	assert.Len(t, all.Send, 2)
	assert.Len(t, one.Send, 1)
	assert.Len(t, both.Send, 2)

	var got notification.Notification
	require.NoError(t, json.Unmarshal(<-one.Send, &got))
	assert.Equal(t, "conv_a", got.Route.Params["convId"])
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := runHub(t)
	c := &Client{ID: "c", Send: make(chan []byte, 1), channels: map[string]bool{}}
	hub.Register(c, AllChannel)
	registered(t, hub, 1)
	assert.Equal(t, 1, hub.GetChannelSubscriberCount(AllChannel))

	hub.Unregister(c)
	registered(t, hub, 0)
	assert.Equal(t, 0, hub.GetChannelSubscriberCount(AllChannel))
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := runHub(t)
	c := &Client{ID: "c", Send: make(chan []byte, 4), channels: map[string]bool{}}
	hub.Register(c)
	registered(t, hub, 1)

	hub.Subscribe(c, "notifications:conv_a")
	require.Eventually(t, func() bool { return c.IsSubscribed("notifications:conv_a") }, time.Second, 5*time.Millisecond)
	hub.Deliver(groupNotification("conv_a"))
	assert.Len(t, c.Send, 1)

	hub.Unsubscribe(c, "notifications:conv_a")
	require.Eventually(t, func() bool { return !c.IsSubscribed("notifications:conv_a") }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.GetChannelSubscriberCount("notifications:conv_a"))
}

func TestChannelAuthorizer(t *testing.T) {
	batch := faker.NewBatch()
	batch.Conversations["fake_pk_multi_0"] = conversation.Conversation{PublicKey: "fake_pk_multi_0", Type: conversation.TypeMultiMember}
	withBatch := NewChannelAuthorizer(func() notification.Store { return batch })
	noBatch := NewChannelAuthorizer(func() notification.Store { return nil })
	open := NewChannelAuthorizer(nil)

	assert.True(t, withBatch.CanSubscribe(AllChannel))
	assert.True(t, withBatch.CanSubscribe("notifications:fake_pk_multi_0"))
	assert.False(t, withBatch.CanSubscribe("notifications:unknown"))
	assert.False(t, withBatch.CanSubscribe("notifications:"))
	assert.False(t, withBatch.CanSubscribe("channel:system:all"))

	assert.True(t, noBatch.CanSubscribe(AllChannel))
	assert.False(t, noBatch.CanSubscribe("notifications:fake_pk_multi_0"))
	assert.True(t, open.CanSubscribe("notifications:anything"))
}

func TestHandlerStreamsNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := runHub(t)
	engine := gin.New()
	engine.GET("/ws", NewHandler(hub, NewChannelAuthorizer(nil)).Connect)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?conversation=conv_a"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	registered(t, hub, 1)

	hub.Listener()(groupNotification("conv_b"))
	hub.Listener()(groupNotification("conv_a"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got notification.Notification
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "conv_a", got.Route.Params["convId"])
	assert.Equal(t, "Ada's Party", got.Title)
}

func TestHandlerControlMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := runHub(t)
	batch := faker.NewBatch()
	batch.Conversations["conv_a"] = conversation.Conversation{PublicKey: "conv_a", Type: conversation.TypeMultiMember}
	engine := gin.New()
	engine.GET("/ws", NewHandler(hub, NewChannelAuthorizer(func() notification.Store { return batch })).Connect)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?conversation=conv_a"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	registered(t, hub, 1)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	require.NoError(t, conn.WriteJSON(controlMessage{Type: "subscribe", Conversation: "conv_unknown"}))
	var frame errorFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
	assert.Contains(t, frame.Message, "conv_unknown")

	require.NoError(t, conn.WriteJSON(controlMessage{Type: "subscribe"}))
	require.Eventually(t, func() bool { return hub.GetChannelSubscriberCount(AllChannel) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteJSON(controlMessage{Type: "unsubscribe", Conversation: "conv_a"}))
	require.Eventually(t, func() bool { return hub.GetChannelSubscriberCount("notifications:conv_a") == 0 }, time.Second, 5*time.Millisecond)

	hub.Deliver(groupNotification("conv_b"))
	var got notification.Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "conv_b", got.Route.Params["convId"])
}

func TestHandlerRejectsUnknownConversation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := runHub(t)
	engine := gin.New()
	engine.GET("/ws", NewHandler(hub, NewChannelAuthorizer(func() notification.Store { return nil })).Connect)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?conversation=conv_a"
	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}

type fakeSubscriber struct {
	notifications []notification.Notification
}

func (f *fakeSubscriber) SubscribeNotifications(_ context.Context, handler func(string, notification.Notification)) error {
	for _, n := range f.notifications {
		handler("notifications:"+n.Route.Params["convId"], n)
	}
	return nil
}

func TestRedisBridgeDeliversToHub(t *testing.T) {
	hub := runHub(t)
	c := &Client{ID: "c", Send: make(chan []byte, 4), channels: map[string]bool{}}
	hub.Register(c, AllChannel)
	registered(t, hub, 1)

	sub := &fakeSubscriber{notifications: []notification.Notification{groupNotification("conv_a"), groupNotification("conv_b")}}
	require.NoError(t, NewRedisBridge(sub, hub).Run(context.Background()))
	assert.Len(t, c.Send, 2)
}
