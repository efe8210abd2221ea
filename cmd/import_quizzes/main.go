package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sync/atomic"

	"quizdeck/internal/adapter"
	"quizdeck/internal/cache"
	"quizdeck/internal/config"
	"quizdeck/internal/database"
	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"
	"quizdeck/internal/scanner"
	"quizdeck/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	repoRoot := flag.String("root", "", "local checkout of the quiz repository (overrides config)")
	workers := flag.Int("workers", 4, "concurrent topic imports")
	keepGoing := flag.Bool("keep-going", true, "continue past per-topic failures")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *repoRoot != "" {
		cfg.Import.RepoRoot = *repoRoot
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	store, err := database.NewQuizStore(cfg.DB.QuizPath)
	if err != nil {
		l.Fatal("Failed to open quiz store", zap.Error(err))
	}
	defer store.Close()

	if err := database.RunMigrations(store, "database/migrations"); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}

	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			l.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	}

	importRepo := repository.NewImportDatabaseAdapter(store.DB)
	txManager := repository.NewTransactionManagerAdapter(store.DB)
	importService := service.NewImportService(importRepo, txManager, cacheAdapter, cfg.Import, cfg.RepoURL())

	candidates, err := scanner.ScanRepo(cfg.Import.RepoRoot)
	if err != nil {
		l.Fatal("Failed to scan repository", zap.Error(err))
	}
	l.Info("Discovered quiz documents",
		zap.Int("count", len(candidates)),
		zap.String("root", cfg.Import.RepoRoot))

	var imported, failed atomic.Int64

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			raw, err := os.ReadFile(candidate.Path)
			if err != nil {
				l.Error("Failed to read quiz document",
					zap.String("slug", candidate.Slug), zap.Error(err))
				failed.Add(1)
				if *keepGoing {
					return nil
				}
				return err
			}

			result, err := importService.ImportDocument(ctx, service.ImportRequest{
				Slug:         candidate.Slug,
				Markdown:     string(raw),
				ProvidedName: candidate.Name,
				SourcePath:   candidate.Path,
			})
			if err != nil {
				l.Error("Import failed",
					zap.String("slug", candidate.Slug), zap.Error(err))
				failed.Add(1)
				if *keepGoing {
					return nil
				}
				return err
			}

			imported.Add(1)
			l.Info("Imported topic",
				zap.String("slug", candidate.Slug),
				zap.String("quiz_id", result.QuizID),
				zap.Int("questions", result.QuestionCount))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.Fatal("Bulk import aborted", zap.Error(err))
	}

	l.Info("Bulk import finished",
		zap.Int64("imported", imported.Load()),
		zap.Int64("failed", failed.Load()))
	if failed.Load() > 0 {
		os.Exit(1)
	}
}
