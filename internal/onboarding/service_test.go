package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	fixture_errors "messenger-fixtures/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockSettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newTestService(store SettingsStore) *Service {
	s := NewService(store, nil)
	s.newKey = func() string { return "9f2b7c6e1a4d8f3c5e0a9b2d7c6f4e1a" }
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestCreateAccountWithName(t *testing.T) {
	store := new(MockSettingsStore)
	ctx := context.Background()
	store.On("Set", ctx, KeyDisplayName, "Ada").Return(nil)

	acc, err := newTestService(store).CreateAccount(ctx, "  Ada ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", acc.DisplayName)
	assert.Equal(t, "9f2b7c6e1a4d8f3c5e0a9b2d7c6f4e1a", acc.PublicKey)
	assert.Equal(t, int64(1700000000000), acc.CreatedDate)

	store.AssertExpectations(t)
}

func TestCreateAccountFallbackName(t *testing.T) {
	store := new(MockSettingsStore)
	ctx := context.Background()
	store.On("Set", ctx, KeyDisplayName, "anon#9f2b").Return(nil)

	acc, err := newTestService(store).CreateAccount(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, "anon#9f2b", acc.DisplayName)

	store.AssertExpectations(t)
}

func TestCreateAccountStoreFailure(t *testing.T) {
	store := new(MockSettingsStore)
	ctx := context.Background()
	store.On("Set", ctx, KeyDisplayName, mock.Anything).Return(errors.New("boom"))

	_, err := newTestService(store).CreateAccount(ctx, "Ada")
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	store := new(MockSettingsStore)
	ctx := context.Background()
	store.On("Get", ctx, KeyDisplayName).Return("Ada", true, nil).Once()
	store.On("Get", ctx, KeyDisplayName).Return("", false, nil).Once()

	s := newTestService(store)
	name, err := s.DisplayName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	_, err = s.DisplayName(ctx)
	assert.ErrorIs(t, err, fixture_errors.ErrNotFound)
}

func TestDefaultDisplayName(t *testing.T) {
	assert.Equal(t, "anon#abcd", DefaultDisplayName("abcdef"))
	assert.Equal(t, "anon#ab", DefaultDisplayName("ab"))
	assert.Len(t, newAccountKey(), 32)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryStore())

	_, err := svc.DisplayName(ctx)
	assert.ErrorIs(t, err, fixture_errors.ErrNotFound)

	_, err = svc.CreateAccount(ctx, "Grace")
	require.NoError(t, err)

	name, err := svc.DisplayName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)
}
