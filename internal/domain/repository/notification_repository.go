package repository

import (
	"context"
	"database/sql"
	"fmt"

	"concursos_backend/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]model.Notification, error)
}

type pgNotificationRepository struct {
	db *sql.DB
}

func NewPgNotificationRepository(db *sql.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `INSERT INTO notifications (id, recipient_id, contest_id, type, payload, delivered_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, n.ID, n.RecipientID, n.ContestID, n.Type, n.Payload, n.DeliveredAt)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]model.Notification, error) {
	query := `SELECT id, recipient_id, contest_id, type, payload, delivered_at
	          FROM notifications WHERE recipient_id = $1
	          ORDER BY delivered_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListByRecipient query: %w", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ContestID, &n.Type, &n.Payload, &n.DeliveredAt); err != nil {
			return nil, fmt.Errorf("pgNotificationRepository.ListByRecipient scan: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListByRecipient rows.Err: %w", err)
	}
	return notifications, nil
}
