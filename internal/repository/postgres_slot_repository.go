package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresSlotRepository implements SlotStore using PostgreSQL with pgxpool
type PostgresSlotRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSlotRepository creates a new PostgresSlotRepository
func NewPostgresSlotRepository(pool *pgxpool.Pool) *PostgresSlotRepository {
	return &PostgresSlotRepository{pool: pool}
}

const slotColumns = `id, event_id, slot_index, start_time, end_time, status, created_at, updated_at`

// GetByIDs retrieves slots by ID, in no particular order
func (r *PostgresSlotRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.TimeSlot, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.slot.get_by_ids")
	defer span.End()

	span.SetAttributes(attribute.Int("requested", len(ids)))

	if len(ids) == 0 {
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get slots: %w", err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(slots)))
	span.SetStatus(codes.Ok, "")
	return slots, nil
}

// ListByEvent retrieves an event's slots ordered by slot index
func (r *PostgresSlotRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.slot.list_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE event_id = $1 ORDER BY slot_index`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(slots)))
	span.SetStatus(codes.Ok, "")
	return slots, nil
}

func scanSlots(rows pgx.Rows) ([]*domain.TimeSlot, error) {
	var slots []*domain.TimeSlot
	for rows.Next() {
		slot := &domain.TimeSlot{}
		var status string
		if err := rows.Scan(
			&slot.ID,
			&slot.EventID,
			&slot.SlotIndex,
			&slot.StartTime,
			&slot.EndTime,
			&status,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slot.Status = domain.SlotStatus(status)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slots: %w", err)
	}
	return slots, nil
}

// Ensure PostgresSlotRepository implements SlotStore
var _ SlotStore = (*PostgresSlotRepository)(nil)
