package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookvault/borrowing-service/config"
	"github.com/bookvault/borrowing-service/internal/catalog"
	"github.com/bookvault/borrowing-service/internal/events"
	"github.com/bookvault/borrowing-service/internal/handler"
	"github.com/bookvault/borrowing-service/internal/repository"
	"github.com/bookvault/borrowing-service/internal/scheduler"
	"github.com/bookvault/borrowing-service/internal/server"
	"github.com/bookvault/borrowing-service/internal/service"
	"github.com/bookvault/borrowing-service/migrations"
	"github.com/bookvault/borrowing-service/pkg/kafka"
	"github.com/bookvault/borrowing-service/pkg/logger"
	"github.com/bookvault/borrowing-service/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "borrowing")

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo loans %v", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka producer %v", err)
	}

	catalogClient := catalog.NewClient(log, cfg.Catalog)
	publisher := events.NewOutboxPublisher(repo, log)
	svc := service.NewService(repo, catalogClient, publisher, log)
	h := handler.New(svc, log)

	relay := events.NewRelay(repo, producer, cfg.Outbox.RelayInterval, log)
	sched := scheduler.New(repo, svc, cfg.Scheduler, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	g, workerCtx := errgroup.WithContext(workerCtx)
	g.Go(func() error { return relay.Run(workerCtx) })
	g.Go(func() error { return sched.Run(workerCtx) })

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	stopWorkers()
	if err = g.Wait(); err != nil {
		log.Error("workers stop", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
