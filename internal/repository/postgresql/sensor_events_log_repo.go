package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
)

type pgSensorEventsLogRepository struct {
	db *sql.DB
}

func NewPgSensorEventsLogRepository(db *sql.DB) repository.SensorEventsLogRepository {
	return &pgSensorEventsLogRepository{db: db}
}

func (r *pgSensorEventsLogRepository) Create(ctx context.Context, event *domain.SensorEventLog) error {
	query := `INSERT INTO sensor_events_log 
                (received_at, source, payload, processed_status, processing_notes) 
               VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var payloadToStore []byte
	if event.Payload != nil {
		payloadToStore = event.Payload
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		event.ReceivedAt,
		sql.NullString{String: event.Source, Valid: event.Source != ""},
		payloadToStore,
		sql.NullString{String: event.ProcessedStatus, Valid: event.ProcessedStatus != ""},
		event.ProcessingNotes,
	).Scan(&id)

	if err != nil {
		return fmt.Errorf("SensorEventsLogRepository.Create: %w", err)
	}
	event.ID = id
	return nil
}

func (r *pgSensorEventsLogRepository) FindRecent(ctx context.Context, limit int) ([]domain.SensorEventLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, received_at, source, payload, processed_status, processing_notes 
	           FROM sensor_events_log ORDER BY id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("SensorEventsLogRepository.FindRecent: %w", err)
	}
	defer rows.Close()

	var events []domain.SensorEventLog
	for rows.Next() {
		var ev domain.SensorEventLog
		var source, status sql.NullString
		var payload []byte
		if err := rows.Scan(&ev.ID, &ev.ReceivedAt, &source, &payload, &status, &ev.ProcessingNotes); err != nil {
			return nil, fmt.Errorf("SensorEventsLogRepository.FindRecent (scanning row): %w", err)
		}
		ev.Source = source.String
		ev.ProcessedStatus = status.String
		ev.Payload = payload
		ev.ReceivedAt = ev.ReceivedAt.In(time.UTC)
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("SensorEventsLogRepository.FindRecent (rows error): %w", err)
	}
	return events, nil
}
