package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"messenger-fixtures/internal/redis"
	"messenger-fixtures/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub        *Hub
	authorizer *ChannelAuthorizer
	upgrader   websocket.Upgrader
}

func NewHandler(hub *Hub, authorizer *ChannelAuthorizer) *Handler {
	return &Handler{
		hub:        hub,
		authorizer: authorizer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// requestedChannels maps ?conversation= values to channels; none means AllChannel.
func requestedChannels(c *gin.Context) []string {
	var channels []string
	for _, pk := range c.QueryArray("conversation") {
		pk = strings.TrimSpace(pk)
		if pk != "" {
			channels = append(channels, redis.NotificationChannel(pk))
		}
	}
	if len(channels) == 0 {
		channels = append(channels, AllChannel)
	}
	return channels
}

// Connect upgrades the request and streams notifications until the peer leaves.
func (h *Handler) Connect(c *gin.Context) {
	channels := requestedChannels(c)
	for _, channel := range channels {
		if !h.authorizer.CanSubscribe(channel) {
			c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("unknown conversation channel "+channel, "FORBIDDEN"))
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client, channels...)
	go client.WriteLoop(ctx)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handleControl(client, data)
	}

	h.hub.Unregister(client)
}

// controlMessage lets a connected client change the conversations it follows.
// An empty conversation means AllChannel.
type controlMessage struct {
	Type         string `json:"type"`
	Conversation string `json:"conversation"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (h *Handler) handleControl(client *Client, data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		sendError(client, "invalid message")
		return
	}

	channel := AllChannel
	if pk := strings.TrimSpace(msg.Conversation); pk != "" {
		channel = redis.NotificationChannel(pk)
	}

	switch msg.Type {
	case "subscribe":
		if !h.authorizer.CanSubscribe(channel) {
			sendError(client, "unknown conversation channel "+channel)
			return
		}
		h.hub.Subscribe(client, channel)
	case "unsubscribe":
		h.hub.Unsubscribe(client, channel)
	default:
		sendError(client, "unknown message type "+msg.Type)
	}
}

func sendError(client *Client, message string) {
	frame, err := json.Marshal(errorFrame{Type: "error", Message: message})
	if err != nil {
		return
	}
	client.SendMessage(frame)
}
