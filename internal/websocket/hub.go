package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"messenger-fixtures/internal/notification"
	"messenger-fixtures/internal/redis"
	"messenger-fixtures/pkg/logger"
	"messenger-fixtures/pkg/metrics"
)

// AllChannel receives every notification regardless of conversation.
const AllChannel = "notifications:all"

type subscriptionRequest struct {
	client    *Client
	channel   string
	subscribe bool
}

// Hub tracks feed clients and the notification channels they follow.
type Hub struct {
	mu sync.RWMutex

	clients  map[string]*Client
	channels map[string]map[*Client]struct{}

	register     chan *Client
	unregister   chan *Client
	subscription chan subscriptionRequest

	log *logger.Logger
}

func NewHub(l *logger.Logger) *Hub {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &Hub{
		clients:      make(map[string]*Client),
		channels:     make(map[string]map[*Client]struct{}),
		register:     make(chan *Client, 256),
		unregister:   make(chan *Client, 256),
		subscription: make(chan subscriptionRequest, 512),
		log:          l,
	}
}

// Run processes registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case req := <-h.subscription:
			if req.subscribe {
				h.subscribeToChannel(req.client, req.channel)
			} else {
				h.unsubscribeFromChannel(req.client, req.channel)
			}
		}
	}
}

// Register adds client already following channels.
func (h *Hub) Register(client *Client, channels ...string) {
	for _, channel := range channels {
		client.Subscribe(channel)
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe adds channel to a registered client.
func (h *Hub) Subscribe(client *Client, channel string) {
	h.subscription <- subscriptionRequest{client: client, channel: channel, subscribe: true}
}

func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.subscription <- subscriptionRequest{client: client, channel: channel, subscribe: false}
}

// Deliver sends n once to each client following its conversation or AllChannel.
func (h *Hub) Deliver(n notification.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.log.Warnf("failed to encode notification: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[*Client]struct{})
	for _, channel := range []string{redis.NotificationChannel(n.Route.Params["convId"]), AllChannel} {
		for c := range h.channels[channel] {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			c.SendMessage(payload)
		}
	}
}

// Listener adapts the hub to the in-process notification bridge.
func (h *Hub) Listener() notification.Listener {
	return h.Deliver
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) GetChannelSubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	for _, channel := range client.GetChannels() {
		if _, ok := h.channels[channel]; !ok {
			h.channels[channel] = make(map[*Client]struct{})
		}
		h.channels[channel][client] = struct{}{}
	}
	h.mu.Unlock()
	metrics.FixturesWebSocketClients.Inc()
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	for _, channel := range client.GetChannels() {
		if subscribers, ok := h.channels[channel]; ok {
			delete(subscribers, client)
			if len(subscribers) == 0 {
				delete(h.channels, channel)
			}
		}
	}
	delete(h.clients, client.ID)
	close(client.Send)
	metrics.FixturesWebSocketClients.Dec()
}

func (h *Hub) subscribeToChannel(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]struct{})
	}
	h.channels[channel][client] = struct{}{}
	client.Subscribe(channel)
}

func (h *Hub) unsubscribeFromChannel(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subscribers, ok := h.channels[channel]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.channels, channel)
		}
	}
	client.Unsubscribe(channel)
}
