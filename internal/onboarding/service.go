package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"messenger-fixtures/internal/domain/account"
	fixture_errors "messenger-fixtures/pkg/errors"
	"messenger-fixtures/pkg/logger"

	"github.com/google/uuid"
)

// KeyDisplayName is the settings key holding the account display name.
const KeyDisplayName = "global-storage_display-name"

// SettingsStore is a persistent key-value store for client options.
type SettingsStore interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
}

type Service struct {
	store  SettingsStore
	log    *logger.Logger
	newKey func() string
	now    func() time.Time
}

func NewService(store SettingsStore, l *logger.Logger) *Service {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &Service{
		store:  store,
		log:    l,
		newKey: newAccountKey,
		now:    time.Now,
	}
}

func newAccountKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// DefaultDisplayName is the name given to accounts created without one.
func DefaultDisplayName(publicKey string) string {
	prefix := publicKey
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return "anon#" + prefix
}

// CreateAccount creates the local account and stores its display name. A blank name
// falls back to DefaultDisplayName.
func (s *Service) CreateAccount(ctx context.Context, name string) (*account.Account, error) {
	acc := &account.Account{
		PublicKey:   s.newKey(),
		DisplayName: strings.TrimSpace(name),
		CreatedDate: s.now().UnixMilli(),
	}
	if acc.DisplayName == "" {
		acc.DisplayName = DefaultDisplayName(acc.PublicKey)
	}

	if err := s.store.Set(ctx, KeyDisplayName, acc.DisplayName); err != nil {
		return nil, fmt.Errorf("failed to store display name: %w", err)
	}
	s.log.WithContext(ctx).Sugar().Infof("account created: %s (%s)", acc.DisplayName, acc.PublicKey)
	return acc, nil
}

// DisplayName returns the stored display name.
func (s *Service) DisplayName(ctx context.Context) (string, error) {
	name, ok, err := s.store.Get(ctx, KeyDisplayName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fixture_errors.ErrNotFound
	}
	return name, nil
}
