package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"
	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/cache"
	"github.com/proyectospoon/menuprog/internal/menu"
	"github.com/proyectospoon/menuprog/internal/mongo"
	"github.com/proyectospoon/menuprog/internal/program"
	"github.com/proyectospoon/menuprog/internal/scheduleapi"
	"github.com/proyectospoon/menuprog/pkg"
)

const (
	appNamespace = "MENUPROG"
	appName      = "menuprog"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	scopeID := menu.DefaultScopeID
	if raw := config.GetStringOrDef("schedule.scope", ""); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			log.Fatalf("Invalid schedule.scope %q: %v", raw, err)
		}
		scopeID = parsed
	}

	// Local cache: file-backed so a restart resumes an in-progress edit
	// session.
	cacheDir := config.GetStringOrDef("cache.dir", ".menuprog-cache")
	store, err := cache.NewFileStore(cacheDir)
	if err != nil {
		log.Fatalf("Cannot create cache store at %s: %v", cacheDir, err)
	}

	ttl := cache.DefaultTTL
	if raw := config.GetStringOrDef("cache.ttl", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid cache.ttl %q: %v", raw, err)
		}
		ttl = parsed
	}

	scheduleCache := cache.New(store, cache.KeyFor(scopeID), ttl, logger)

	// Remote store: direct MongoDB backend or the HTTP schedule service.
	var scheduleStore program.ScheduleStore
	var lifecycle []interface{}

	programRepo := mongo.NewProgramRepo(config, logger)
	backend := config.GetStringOrDef("schedule.backend", "mongo")
	switch backend {
	case "mongo":
		scheduleStore = programRepo
		seedHooks := apt.LifecycleHooks{
			OnStart: menu.SeedingFunc(appName, programRepo.GetDatabase, logger),
		}
		lifecycle = append(lifecycle, programRepo, seedHooks)
	case "http":
		apiURL := config.GetStringOrDef("schedule.api.url", "http://localhost:8090")
		scheduleStore = scheduleapi.NewHTTPClient(apiURL)
	default:
		log.Fatalf("Unknown schedule.backend %q (expected mongo or http)", backend)
	}

	// Notifications ride NATS; publish failures never block engine operations.
	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")
	publisher, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("Cannot connect to NATS at %s: %v", natsURL, err)
	}
	defer publisher.Close()

	notifier := program.NewEventNotifier(publisher, scopeID, logger)

	engine := program.NewEngine(scopeID, program.EngineDeps{
		Store:    scheduleStore,
		Cache:    scheduleCache,
		Strategy: program.NewUniformRandomStrategy(),
		Notifier: notifier,
	}, logger)

	hd := program.HandlerDeps{
		Engine:    engine,
		Publisher: publisher,
	}
	handler := program.NewHandler(hd, config, logger)

	loadHooks := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			if err := engine.GoToCurrentWeek(ctx); err != nil {
				logger.Error("cannot load current week on startup", "error", err)
			}
			return nil
		},
	}
	lifecycle = append(lifecycle, loadHooks)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycle...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
