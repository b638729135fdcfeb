package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"duospace/client"
	"duospace/enrichment"
	"duospace/internal"
	"duospace/moderation"
	"duospace/observability"
	"duospace/repositories"
	"duospace/runtime/workers"
	"duospace/search"
	"duospace/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Shared store (BadgerDB) and search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 3. Repositories & domain services
	userRepo := repositories.NewUserRepository(db)
	spaceRepo := repositories.NewSpaceRepository(db, log)
	messageRepo := repositories.NewMessageRepository(db, log)
	reactionRepo := repositories.NewReactionRepository(db)

	maskRune, err := config.CharacterRune()
	if err != nil {
		return err
	}
	censor, err := moderation.NewCensor(config.BlockedWords, maskRune)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}
	enricher := enrichment.NewGeminiClient(log, config.GeminiModel, config.GeminiAPIKey, config.EnrichTimeout)

	authService := services.NewAuthService(userRepo, log, config.AuthTokenDuration)
	registryService := services.NewRegistryService(spaceRepo, messageRepo, reactionRepo, index, log, config.WriteRetries)
	gameService := services.NewGameService(spaceRepo, log, config.WriteRetries)
	messageService := services.NewMessageService(
		messageRepo, spaceRepo, userRepo, reactionRepo, index, censor, enricher, log)

	// 4. Client state & supervision
	holder := client.NewSessionHolder()
	view := client.NewView()
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewHeartbeatWorker(log, config.HeartbeatInterval, observability.NewCollector().Snapshot))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	repl := newREPL(replDeps{
		auth:     authService,
		registry: registryService,
		games:    gameService,
		messages: messageService,
		holder:   holder,
		view:     view,
		sup:      sup,
		config:   config,
		log:      log,
	})
	// The poll loop needs a user id, so the REPL starts it on login
	// under the supervision tree and it winds down with everything else.
	if err := repl.loop(ctx); err != nil {
		return err
	}

	stop()
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")
	return nil
}
