package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"messenger-fixtures/config"
	"messenger-fixtures/internal/faker"
	"messenger-fixtures/internal/notification"
	"messenger-fixtures/internal/redis"
	"messenger-fixtures/internal/repository"
	"messenger-fixtures/internal/services"
	"messenger-fixtures/internal/storage"
	"messenger-fixtures/pkg/database"
	"messenger-fixtures/pkg/events"
	"messenger-fixtures/pkg/logger"
)

const usage = `
Messenger Fixtures - CLI Tool

Usage:
  fixtures [flags] [command]

Commands:
  generate    Generate a batch and print it as JSON
  migrate     Create or update the fixture tables
  status      Show database connection status and row counts
  seed        Generate a batch and persist it to Postgres
  dump        Print the persisted fixtures as JSON
  truncate    Truncate all fixture tables (DANGEROUS)
  cache       Generate a batch and store it in Redis under -name
  discard     Remove the batch cached under -name from Redis
  upload      Generate a batch and upload a snapshot to S3
  watch       Print notifications and batch events published on Redis

Flags:
  -name string          Batch name (default "default")
  -contacts int         Number of contacts (default FIXTURE_CONTACTS)
  -contacts-start int   Key offset for contacts
  -multi int            Number of multi-member conversations (default FIXTURE_MULTI_MEMBER)
  -multi-start int      Key offset for multi-member conversations
  -messages int         Messages per conversation (default FIXTURE_MESSAGES)
  -messages-start int   Key offset for interactions
  -seed uint            Random seed, 0 for a random batch (default FIXTURE_SEED)

Examples:
  go run cmd/fixtures/main.go -contacts 50 -seed 42 generate
  go run cmd/fixtures/main.go migrate
  go run cmd/fixtures/main.go -contacts-start 100 -multi-start 100 -messages-start 10000 seed
  go run cmd/fixtures/main.go -name demo cache
`

func main() {
	cfg := config.LoadConfig()

	name := flag.String("name", services.DefaultBatchName, "Batch name")
	contacts := flag.Int("contacts", cfg.FixtureContacts, "Number of contacts")
	contactsStart := flag.Int("contacts-start", 0, "Key offset for contacts")
	multi := flag.Int("multi", cfg.FixtureMultiMember, "Number of multi-member conversations")
	multiStart := flag.Int("multi-start", 0, "Key offset for multi-member conversations")
	messages := flag.Int("messages", cfg.FixtureMessages, "Messages per conversation")
	messagesStart := flag.Int("messages-start", 0, "Key offset for interactions")
	seed := flag.Uint64("seed", cfg.FixtureSeed, "Random seed")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	// Logs go to stderr so generate output stays valid JSON.
	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	opts := services.GenerateOptions{
		BatchOptions: faker.BatchOptions{
			Contacts:                *contacts,
			ContactsStart:           *contactsStart,
			MultiMember:             *multi,
			MultiMemberStart:        *multiStart,
			MessagesPerConversation: *messages,
			MessagesStart:           *messagesStart,
		},
		Seed: *seed,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command := flag.Arg(0)
	switch command {
	case "generate":
		runGenerate(ctx, *name, opts)
	case "migrate":
		runMigrate(cfg)
	case "status":
		runStatus(ctx, cfg)
	case "seed":
		runSeed(ctx, cfg, *name, opts)
	case "dump":
		runDump(ctx, cfg)
	case "truncate":
		runTruncate(ctx, cfg)
	case "cache":
		runCache(ctx, cfg, *name, opts)
	case "discard":
		runDiscard(ctx, cfg, *name)
	case "upload":
		runUpload(ctx, cfg, *name, opts)
	case "watch":
		runWatch(ctx, cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func connectDB(cfg *config.Config) repository.FixtureRepository {
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	return repository.NewFixtureRepository(db)
}

func runGenerate(ctx context.Context, name string, opts services.GenerateOptions) {
	batch, err := services.NewFixtureService(services.FixtureDeps{}).Generate(ctx, name, opts)
	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}

	writeJSON(batch)
}

func writeJSON(batch *faker.Batch) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batch); err != nil {
		log.Fatalf("❌ Failed to encode batch: %v", err)
	}
}

func runMigrate(cfg *config.Config) {
	log.Println("🚀 Migrating fixture tables...")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer database.Close()

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func runStatus(ctx context.Context, cfg *config.Config) {
	log.Println("🔍 Checking database status...")

	repo := connectDB(cfg)
	defer database.Close()

	if err := database.Ping(ctx); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	for _, table := range repository.TableNames() {
		if database.TableExists(table) {
			log.Printf("✅ Table %-24s exists", table)
		} else {
			log.Printf("❌ Table %-24s does not exist", table)
		}
	}

	counts, err := repo.CountAll(ctx)
	if err != nil {
		log.Printf("⚠️  Could not count rows: %v", err)
		return
	}
	printCounts("Stored", counts)
}

func runSeed(ctx context.Context, cfg *config.Config, name string, opts services.GenerateOptions) {
	log.Println("🌱 Seeding fixture tables...")

	repo := connectDB(cfg)
	defer database.Close()

	svc := services.NewFixtureService(services.FixtureDeps{Repo: repo})
	batch, err := svc.Generate(ctx, name, opts)
	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}
	inserted, err := svc.Persist(ctx, batch)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	printCounts("Inserted", inserted)
	log.Println("✅ Seeding completed!")
}

func runDump(ctx context.Context, cfg *config.Config) {
	repo := connectDB(cfg)
	defer database.Close()

	batch, err := repo.LoadBatch(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to load fixtures: %v", err)
	}
	writeJSON(batch)
}

func runTruncate(ctx context.Context, cfg *config.Config) {
	log.Println("⚠️  WARNING: This will TRUNCATE all fixture tables!")

	repo := connectDB(cfg)
	defer database.Close()

	if err := repo.Truncate(ctx); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All fixture tables truncated!")
}

func connectRedis(ctx context.Context, cfg *config.Config) *redis.FixtureCache {
	redis.Initialize(redis.ConfigFrom(cfg))
	if err := redis.Ping(ctx, redis.GetClient()); err != nil {
		log.Fatalf("❌ %v", err)
	}
	return redis.NewFixtureCache(redis.GetClient(), cfg.FixtureCacheTTL)
}

func runCache(ctx context.Context, cfg *config.Config, name string, opts services.GenerateOptions) {
	cache := connectRedis(ctx, cfg)
	defer redis.GetClient().Close()

	svc := services.NewFixtureService(services.FixtureDeps{
		Cache:  cache,
		Events: redis.NewPublisher(events.NewRedisBroker(redis.GetClient(), logger.GetGlobalLogger())),
	})
	batch, err := svc.Generate(ctx, name, opts)
	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}
	if _, err := svc.Load(ctx, name); err != nil {
		log.Fatalf("❌ Batch not readable from cache: %v", err)
	}

	printCounts("Cached", batch.Counts())
	log.Printf("✅ Batch cached as fixtures:%s (ttl %s)", services.BatchName(name), cfg.FixtureCacheTTL)
}

func runDiscard(ctx context.Context, cfg *config.Config, name string) {
	cache := connectRedis(ctx, cfg)
	defer redis.GetClient().Close()

	svc := services.NewFixtureService(services.FixtureDeps{
		Cache:  cache,
		Events: redis.NewPublisher(events.NewRedisBroker(redis.GetClient(), logger.GetGlobalLogger())),
	})
	if err := svc.Discard(ctx, name); err != nil {
		log.Fatalf("❌ Discard failed: %v", err)
	}

	log.Printf("🗑️  Batch fixtures:%s removed from cache", services.BatchName(name))
}

func runUpload(ctx context.Context, cfg *config.Config, name string, opts services.GenerateOptions) {
	if !cfg.S3Enabled() {
		log.Fatalf("❌ S3_REGION and S3_BUCKET are required")
	}
	client, err := storage.NewClient(ctx, storage.ConfigFrom(cfg))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	svc := services.NewFixtureService(services.FixtureDeps{Snapshots: client})
	batch, err := svc.Generate(ctx, name, opts)
	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}
	res, err := svc.Snapshot(ctx, name, batch)
	if err != nil {
		log.Fatalf("❌ Upload failed: %v", err)
	}

	log.Printf("✅ Snapshot uploaded: %s", res.Key)
	log.Printf("🔗 %s", res.URL)
}

func runWatch(ctx context.Context, cfg *config.Config) {
	connectRedis(ctx, cfg)
	defer redis.GetClient().Close()

	broker := events.NewRedisBroker(redis.GetClient(), logger.GetGlobalLogger())
	subscriber := redis.NewSubscriber(broker)
	err := subscriber.SubscribeNotifications(ctx, func(channel string, n notification.Notification) {
		log.Printf("🔔 %s [%s] %s: %s", channel, n.Route.Name, n.Title, n.Message)
	})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	err = subscriber.SubscribeBatches(ctx, func(e redis.BatchEvent) {
		log.Printf("📦 batch %s %s", e.Name, e.Action)
		if e.Action == redis.BatchGenerated {
			printCounts("Generated "+e.Name, e.Counts)
		}
	})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Printf("👀 Watching %s and %s, Ctrl+C to stop", redis.NotificationPattern, redis.BatchChannel)
	<-ctx.Done()
}

func printCounts(label string, counts faker.BatchCounts) {
	log.Printf("📊 %s:", label)
	log.Printf("   - Contacts: %d", counts.Contacts)
	log.Printf("   - Conversations: %d", counts.Conversations)
	log.Printf("   - Members: %d", counts.Members)
	log.Printf("   - Interactions: %d", counts.Interactions)
}
