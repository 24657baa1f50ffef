package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"messenger-fixtures/internal/faker"
	"messenger-fixtures/internal/notification"
	"messenger-fixtures/internal/redis"
	"messenger-fixtures/internal/repository"
	fixture_errors "messenger-fixtures/pkg/errors"
	"messenger-fixtures/pkg/logger"
	"messenger-fixtures/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const DefaultBatchName = "default"

type BatchCache interface {
	SetBatch(ctx context.Context, name string, batch *faker.Batch) error
	GetBatch(ctx context.Context, name string) (*faker.Batch, error)
	Invalidate(ctx context.Context, name string) error
}

type SnapshotStore interface {
	UploadSnapshot(ctx context.Context, name string, batch *faker.Batch) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n notification.Notification) error
}

// BatchEventPublisher announces batch lifecycle changes to other instances.
type BatchEventPublisher interface {
	PublishBatch(ctx context.Context, name, action string, counts faker.BatchCounts) error
}

// FixtureDeps wires optional collaborators. A nil collaborator disables the
// operations that need it.
type FixtureDeps struct {
	Cache        BatchCache
	Repo         repository.FixtureRepository
	Snapshots    SnapshotStore
	Publisher    NotificationPublisher
	Events       BatchEventPublisher
	Bridge       *notification.Bridge
	Logger       *logger.Logger
	NewGenerator func(seed uint64) *faker.Generator
}

type GenerateOptions struct {
	faker.BatchOptions
	Seed uint64 `json:"seed"`
}

type SnapshotResult struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

type FixtureService struct {
	deps     FixtureDeps
	resolver *notification.Resolver
	log      *logger.Logger

	mu          sync.RWMutex
	current     *faker.Batch
	currentName string
}

func NewFixtureService(deps FixtureDeps) *FixtureService {
	if deps.Logger == nil {
		deps.Logger = logger.GetGlobalLogger()
	}
	if deps.Bridge == nil {
		deps.Bridge = notification.NewBridge()
	}
	if deps.NewGenerator == nil {
		l := deps.Logger
		deps.NewGenerator = func(seed uint64) *faker.Generator {
			return faker.New(seed, faker.WithLogger(l))
		}
	}
	return &FixtureService{
		deps:     deps,
		resolver: notification.NewResolver(),
		log:      deps.Logger,
	}
}

func (s *FixtureService) Bridge() *notification.Bridge {
	return s.deps.Bridge
}

// BatchName trims name and falls back to DefaultBatchName.
func BatchName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultBatchName
	}
	return name
}

// Generate builds a batch, makes it current and caches it under name.
func (s *FixtureService) Generate(ctx context.Context, name string, opts GenerateOptions) (*faker.Batch, error) {
	name = BatchName(name)
	log := s.log.WithContext(ctx).With(zap.String("batch", name))

	timer := prometheus.NewTimer(metrics.FixturesBatchDuration.WithLabelValues("generate"))
	batch, err := s.deps.NewGenerator(opts.Seed).GenerateBatch(opts.BatchOptions)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = batch
	s.currentName = name
	s.mu.Unlock()

	counts := batch.Counts()
	log.Info("fixture batch generated",
		zap.Int("contacts", counts.Contacts),
		zap.Int("conversations", counts.Conversations),
		zap.Int("members", counts.Members),
		zap.Int("interactions", counts.Interactions),
	)

	if s.deps.Cache != nil {
		cacheTimer := prometheus.NewTimer(metrics.FixturesBatchDuration.WithLabelValues("cache"))
		err := s.deps.Cache.SetBatch(ctx, name, batch)
		cacheTimer.ObserveDuration()
		if err != nil {
			log.Warn("failed to cache fixture batch", zap.Error(err))
		}
	}
	s.publishBatch(ctx, name, redis.BatchGenerated, counts)
	return batch, nil
}

// Discard drops the batch called name from the cache and, when it is the
// current batch, from memory.
func (s *FixtureService) Discard(ctx context.Context, name string) error {
	name = BatchName(name)

	found := false
	s.mu.Lock()
	if s.current != nil && s.currentName == name {
		s.current = nil
		s.currentName = ""
		found = true
	}
	s.mu.Unlock()

	if s.deps.Cache != nil {
		cached, err := s.deps.Cache.GetBatch(ctx, name)
		if err != nil {
			return fmt.Errorf("discard batch %s: %w", name, err)
		}
		if cached != nil {
			if err := s.deps.Cache.Invalidate(ctx, name); err != nil {
				return fmt.Errorf("discard batch %s: %w", name, err)
			}
			found = true
		}
	}
	if !found {
		return fmt.Errorf("batch %s: %w", name, fixture_errors.ErrNotFound)
	}

	s.log.WithContext(ctx).Info("fixture batch discarded", zap.String("batch", name))
	s.publishBatch(ctx, name, redis.BatchDiscarded, faker.BatchCounts{})
	return nil
}

func (s *FixtureService) publishBatch(ctx context.Context, name, action string, counts faker.BatchCounts) {
	if s.deps.Events == nil {
		return
	}
	if err := s.deps.Events.PublishBatch(ctx, name, action, counts); err != nil {
		s.log.WithContext(ctx).Warn("failed to publish batch event",
			zap.String("batch", name),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// Current returns the most recently generated batch and its name.
func (s *FixtureService) Current() (*faker.Batch, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.currentName, s.current != nil
}

// Load returns the batch cached under name, falling back to the in-memory
// batch when it carries the same name.
func (s *FixtureService) Load(ctx context.Context, name string) (*faker.Batch, error) {
	name = BatchName(name)
	if s.deps.Cache != nil {
		batch, err := s.deps.Cache.GetBatch(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load batch %s: %w", name, err)
		}
		if batch != nil {
			return batch, nil
		}
	}

	if current, currentName, ok := s.Current(); ok && currentName == name {
		return current, nil
	}
	return nil, fmt.Errorf("batch %s: %w", name, fixture_errors.ErrNotFound)
}

func (s *FixtureService) batchOrCurrent(batch *faker.Batch) (*faker.Batch, error) {
	if batch != nil {
		return batch, nil
	}
	if current, _, ok := s.Current(); ok {
		return current, nil
	}
	return nil, fmt.Errorf("no fixture batch generated: %w", fixture_errors.ErrNotFound)
}

// Persist writes batch, or the current batch when nil, to the database.
func (s *FixtureService) Persist(ctx context.Context, batch *faker.Batch) (faker.BatchCounts, error) {
	if s.deps.Repo == nil {
		return faker.BatchCounts{}, fmt.Errorf("persistence disabled: %w", fixture_errors.ErrServiceUnavailable)
	}
	batch, err := s.batchOrCurrent(batch)
	if err != nil {
		return faker.BatchCounts{}, err
	}

	timer := prometheus.NewTimer(metrics.FixturesBatchDuration.WithLabelValues("persist"))
	inserted, err := s.deps.Repo.SaveBatch(ctx, batch)
	timer.ObserveDuration()
	if err != nil {
		return faker.BatchCounts{}, fmt.Errorf("persist batch: %w", err)
	}

	s.log.WithContext(ctx).Info("fixture batch persisted",
		zap.Int("contacts", inserted.Contacts),
		zap.Int("conversations", inserted.Conversations),
		zap.Int("members", inserted.Members),
		zap.Int("interactions", inserted.Interactions),
	)
	return inserted, nil
}

// Snapshot uploads batch, or the batch loaded under name when nil, to object storage.
func (s *FixtureService) Snapshot(ctx context.Context, name string, batch *faker.Batch) (*SnapshotResult, error) {
	if s.deps.Snapshots == nil {
		return nil, fmt.Errorf("object storage disabled: %w", fixture_errors.ErrServiceUnavailable)
	}
	name = BatchName(name)
	if batch == nil {
		loaded, err := s.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		batch = loaded
	}

	timer := prometheus.NewTimer(metrics.FixturesBatchDuration.WithLabelValues("snapshot"))
	key, err := s.deps.Snapshots.UploadSnapshot(ctx, name, batch)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	url, err := s.deps.Snapshots.PresignGet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot %s: %w", key, err)
	}

	s.log.WithContext(ctx).Info("fixture snapshot uploaded", zap.String("key", key))
	return &SnapshotResult{Key: key, URL: url}, nil
}

// Notify resolves a push payload against the current batch, emits it to in-app
// listeners and publishes it. A nil notification means the push was suppressed.
func (s *FixtureService) Notify(ctx context.Context, push notification.PushData) (*notification.Notification, error) {
	batch, err := s.batchOrCurrent(nil)
	if err != nil {
		return nil, err
	}

	n, ok := s.resolver.Resolve(batch, push)
	if !ok {
		metrics.FixturesNotificationsTotal.WithLabelValues("suppressed").Inc()
		return nil, nil
	}
	metrics.FixturesNotificationsTotal.WithLabelValues("shown").Inc()

	s.deps.Bridge.Emit(*n)
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PublishNotification(ctx, *n); err != nil {
			s.log.WithContext(ctx).Warn("failed to publish notification",
				zap.String("conversation", push.ConversationPublicKey),
				zap.Error(err),
			)
		}
	}
	return n, nil
}
