package redis

import (
	"context"
	"testing"
	"time"

	"messenger-fixtures/internal/faker"
	"messenger-fixtures/internal/notification"
	"messenger-fixtures/pkg/events"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestFixtureCacheRoundTrip(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()
	cache := NewFixtureCache(c, 10*time.Minute)

	batch, err := faker.New(7).GenerateBatch(faker.BatchOptions{Contacts: 4, MultiMember: 2, MessagesPerConversation: 3})
	require.NoError(t, err)

	require.NoError(t, cache.SetBatch(ctx, "demo", batch))
	assert.True(t, mr.Exists("fixtures:demo"))
	assert.Equal(t, 10*time.Minute, mr.TTL("fixtures:demo"))

	got, err := cache.GetBatch(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, batch.Counts(), got.Counts())
	assert.Equal(t, batch.Contacts, got.Contacts)
	assert.Equal(t, batch.Interactions, got.Interactions)

	require.NoError(t, cache.Invalidate(ctx, "demo"))
	got, err = cache.GetBatch(ctx, "demo")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFixtureCacheMiss(t *testing.T) {
	_, c := newTestClient(t)
	got, err := NewFixtureCache(c, 0).GetBatch(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFixtureCacheExpires(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()
	cache := NewFixtureCache(c, time.Minute)

	require.NoError(t, cache.SetBatch(ctx, "short", faker.NewBatch()))
	mr.FastForward(2 * time.Minute)

	got, err := cache.GetBatch(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSettingsStore(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()
	store := NewSettingsStore(c)

	_, ok, err := store.Get(ctx, "global-storage_display-name")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "global-storage_display-name", "Ada"))
	v, err := mr.Get("settings:global-storage_display-name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)

	got, ok, err := store.Get(ctx, "global-storage_display-name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ada", got)
}

func TestPublishNotification(t *testing.T) {
	_, c := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := events.NewRedisBroker(c, nil)
	got := make(chan notification.Notification, 1)
	channels := make(chan string, 1)
	require.NoError(t, NewSubscriber(broker).SubscribeNotifications(ctx, func(channel string, n notification.Notification) {
		channels <- channel
		got <- n
	}))

	n := notification.Notification{
		Title:   "Ada's Party",
		Message: "Lorem ipsum.",
		Route:   notification.Route{Name: notification.RouteGroup, Params: map[string]string{"convId": "fake_pk_multi_0"}},
		Type:    notification.TypeMessage,
	}
	require.NoError(t, NewPublisher(broker).PublishNotification(ctx, n))

	select {
	case received := <-got:
		assert.Equal(t, n, received)
		assert.Equal(t, "notifications:fake_pk_multi_0", <-channels)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestPublishBatchEvent(t *testing.T) {
	_, c := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := events.NewRedisBroker(c, nil)
	got := make(chan BatchEvent, 1)
	require.NoError(t, NewSubscriber(broker).SubscribeBatches(ctx, func(e BatchEvent) {
		got <- e
	}))

	counts := faker.BatchCounts{Contacts: 3, Conversations: 2, Members: 1, Interactions: 6}
	require.NoError(t, NewPublisher(broker).PublishBatch(ctx, "demo", BatchGenerated, counts))

	select {
	case e := <-got:
		assert.Equal(t, BatchEvent{Name: "demo", Action: BatchGenerated, Counts: counts}, e)
	case <-time.After(2 * time.Second):
		t.Fatal("batch event not delivered")
	}
}

func TestPublishNotificationWithoutConversation(t *testing.T) {
	_, c := newTestClient(t)
	err := NewPublisher(events.NewRedisBroker(c, nil)).PublishNotification(context.Background(), notification.Notification{})
	assert.Error(t, err)
}

func TestRateLimiterGenerate(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()
	limiter := NewRateLimiter(c, RateLimitConfig{GenerateLimit: 2, GenerateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		res, err := limiter.AllowGenerate(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1-i, res.Remaining)
	}

	res, err := limiter.AllowGenerate(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 2, res.Limit)

	other, err := limiter.AllowGenerate(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	mr.FastForward(time.Minute + time.Second)
	res, err = limiter.AllowGenerate(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
