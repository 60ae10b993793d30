package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventEmitter publishes domain events for asynchronous delivery. Emission is
// best-effort: it runs after the owning transaction committed and must never
// fail the request.
type EventEmitter interface {
	Emit(ctx context.Context, eventType, recipientID, contestID string, payload interface{})
}

// NotificationService pushes events onto the Redis notification queue drained
// by the notification worker.
type NotificationService struct {
	rdb *redis.Client
}

func NewNotificationService(rdb *redis.Client) *NotificationService {
	return &NotificationService{rdb: rdb}
}

func (s *NotificationService) Emit(ctx context.Context, eventType, recipientID, contestID string, payload interface{}) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("ERROR: Failed to marshal payload for event %s: %v", eventType, err)
			return
		}
		raw = data
	}

	event := model.NotificationEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		RecipientID: recipientID,
		ContestID:   contestID,
		Payload:     raw,
		EmittedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: Failed to marshal event %s: %v", eventType, err)
		return
	}

	if err := s.rdb.LPush(ctx, config.AppConfig.NotificationQueueName, data).Err(); err != nil {
		// The owning transaction already committed; do not fail the request.
		log.Printf("ERROR: Failed to push event %s to Redis queue: %v", eventType, err)
	}
}
