package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresEventRepository implements EventStore using PostgreSQL with pgxpool
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Create inserts a draft event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", event.ID),
		attribute.String("host_id", event.HostID),
	)

	query := `
		INSERT INTO events (
			id, host_id, name, venue_name, slot_duration_minutes,
			allow_consecutive_slots, max_consecutive_slots, allow_b2b,
			start_time, end_time, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12, $13
		)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.HostID,
		event.Name,
		event.VenueName,
		event.SlotDurationMinutes,
		event.AllowConsecutiveSlots,
		event.MaxConsecutiveSlots,
		event.AllowB2B,
		event.StartTime,
		event.EndTime,
		string(event.Status),
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", id))

	query := `
		SELECT
			id, host_id, name, venue_name, slot_duration_minutes,
			allow_consecutive_slots, max_consecutive_slots, allow_b2b,
			start_time, end_time, status, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	event := &domain.Event{}
	var status string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.HostID,
		&event.Name,
		&event.VenueName,
		&event.SlotDurationMinutes,
		&event.AllowConsecutiveSlots,
		&event.MaxConsecutiveSlots,
		&event.AllowB2B,
		&event.StartTime,
		&event.EndTime,
		&status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.Status = domain.EventStatus(status)
	span.SetStatus(codes.Ok, "")
	return event, nil
}

// Publish transitions a draft event to published and bulk-inserts its slots.
// The status flip is conditional on the row still being a draft, so a
// concurrent second publish loses and the slot plan is inserted exactly once.
func (r *PostgresEventRepository) Publish(ctx context.Context, eventID string, slots []*domain.TimeSlot) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("slot_count", len(slots)),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin publish transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE events SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		eventID, string(domain.EventStatusPublished), time.Now(), string(domain.EventStatusDraft),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)", eventID).Scan(&exists); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to check event existence: %w", err)
		}
		if !exists {
			span.SetStatus(codes.Error, "not found")
			return domain.ErrEventNotFound
		}
		span.SetStatus(codes.Error, "not draft")
		return domain.ErrEventNotDraft
	}

	insertSlot := `
		INSERT INTO time_slots (
			id, event_id, slot_index, start_time, end_time, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, slot := range slots {
		if _, err := tx.Exec(ctx, insertSlot,
			slot.ID,
			slot.EventID,
			slot.SlotIndex,
			slot.StartTime,
			slot.EndTime,
			string(slot.Status),
			slot.CreatedAt,
			slot.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to insert slot %d: %w", slot.SlotIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit publish transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListByHost retrieves events created by a host
func (r *PostgresEventRepository) ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.list_by_host")
	defer span.End()

	span.SetAttributes(
		attribute.String("host_id", hostID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	query := `
		SELECT
			id, host_id, name, venue_name, slot_duration_minutes,
			allow_consecutive_slots, max_consecutive_slots, allow_b2b,
			start_time, end_time, status, created_at, updated_at
		FROM events
		WHERE host_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, hostID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list events by host: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event := &domain.Event{}
		var status string
		if err := rows.Scan(
			&event.ID,
			&event.HostID,
			&event.Name,
			&event.VenueName,
			&event.SlotDurationMinutes,
			&event.AllowConsecutiveSlots,
			&event.MaxConsecutiveSlots,
			&event.AllowB2B,
			&event.StartTime,
			&event.EndTime,
			&status,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Status = domain.EventStatus(status)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	return events, nil
}

// Ensure PostgresEventRepository implements EventStore
var _ EventStore = (*PostgresEventRepository)(nil)
