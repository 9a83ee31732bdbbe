package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/proactivefit/proactive-server/config"
	"github.com/proactivefit/proactive-server/internal/application"
	pginfra "github.com/proactivefit/proactive-server/internal/infrastructure/postgres"
	"github.com/proactivefit/proactive-server/pkg/helpers"
)

// The reconcile worker replays the membership and capacity writes that the
// settlement flow could not apply. Both writes are idempotent under replay:
// membership is a set union and capacity retries only the class ids the
// event lists as unapplied.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-reconcile", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQReconcileQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	classes := pginfra.NewClassRepository(pool)
	payments := pginfra.NewPaymentRepository(pool)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(8, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQReconcileQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQReconcileQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev application.ReconcileEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				logger.WithError(err).Warn("bad reconcile message")
				_ = msg.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := replay(c, ev, users, classes, payments)
			cancel()
			if err != nil {
				logger.WithError(err).WithField("payment_id", ev.PaymentID).Warn("reconcile replay failed, requeueing")
				_ = msg.Nack(false, true)
				continue
			}
			logger.WithField("payment_id", ev.PaymentID).Info("reconcile applied")
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("reconcile worker listening on queue=%s", cfg.RabbitMQReconcileQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func replay(ctx context.Context, ev application.ReconcileEvent, users *pginfra.UserRepository, classes *pginfra.ClassRepository, payments *pginfra.PaymentRepository) error {
	if ev.Membership == string(application.StepFailed) {
		p, err := payments.GetByID(ctx, ev.PaymentID)
		if err != nil {
			return err
		}
		u, err := users.GetByEmail(ctx, ev.Email)
		if err != nil {
			return err
		}
		if err := users.SetBookedAndEnrolled(ctx, ev.Email, []string{}, mergeIDs(u.Enrolled, p.ClassIDs)); err != nil {
			return err
		}
	}
	if ev.Capacity == string(application.StepFailed) && len(ev.UnappliedClassIDs) > 0 {
		if _, _, err := classes.IncrementEnrolledCount(ctx, ev.UnappliedClassIDs); err != nil {
			return err
		}
	}
	return nil
}

func mergeIDs(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, id := range append(append([]string{}, base...), extra...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
