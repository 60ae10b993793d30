package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"
	"concursos_backend/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NotificationWorker drains the Redis notification queue and persists one
// Notification row per event.
type NotificationWorker struct {
	rdb              *redis.Client
	notificationRepo repository.NotificationRepository
}

func NewNotificationWorker(rdb *redis.Client, notificationRepo repository.NotificationRepository) *NotificationWorker {
	return &NotificationWorker{
		rdb:              rdb,
		notificationRepo: notificationRepo,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	log.Println("Notification worker started, listening to queue:", config.AppConfig.NotificationQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopping...")
			return
		default:
			// Blocking pop from Redis queue
			result, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.NotificationQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second) // Avoid busy-looping on certain errors
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.NotificationQueueName, err)
				time.Sleep(5 * time.Second) // Wait before retrying on other errors
				continue
			}

			// result is an array: [queueName, value]
			if len(result) < 2 || result[1] == "" {
				log.Println("WARN: BRPop returned empty event payload.")
				continue
			}
			w.processEvent(ctx, result[1])
		}
	}
}

func (w *NotificationWorker) processEvent(ctx context.Context, raw string) {
	var event model.NotificationEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		// Malformed payloads are dropped, not requeued: they would never parse.
		log.Printf("ERROR: Failed to unmarshal notification event, dropping: %v", err)
		return
	}

	notification := &model.Notification{
		ID:          uuid.NewString(),
		RecipientID: event.RecipientID,
		ContestID:   event.ContestID,
		Type:        event.Type,
		Payload:     event.Payload,
		DeliveredAt: time.Now().UTC(),
	}
	if err := w.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("ERROR: Failed to persist notification for event %s: %v. Re-queueing.", event.ID, err)
		w.requeueEvent(ctx, raw)
		return
	}
	log.Printf("Delivered notification %s (%s) to user %s", notification.ID, event.Type, event.RecipientID)
}

func (w *NotificationWorker) requeueEvent(ctx context.Context, raw string) {
	if err := w.rdb.LPush(ctx, config.AppConfig.NotificationQueueName, raw).Err(); err != nil {
		log.Printf("ERROR: Failed to re-queue notification event: %v", err)
	}
	time.Sleep(2 * time.Second) // Back off so a dead store does not spin the loop
}
