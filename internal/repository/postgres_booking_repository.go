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

// PostgresBookingRepository implements BookingStore using PostgreSQL with
// pgxpool. Claim and cancel are single transactions: either every slot of a
// batch changes hands or none do.
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

const bookingColumns = `id, group_id, slot_id, event_id, performer_id, status, created_at, updated_at`

// ClaimSlots commits one claim batch. Each slot is flipped with a
// conditional update ("booked where available"); a zero-row update means a
// concurrent claim won that slot, so the whole transaction rolls back and
// ErrSlotUnavailable is returned. Two concurrent callers can never both
// succeed on an overlapping slot set.
func (r *PostgresBookingRepository) ClaimSlots(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.claim_slots")
	defer span.End()

	span.SetAttributes(
		attribute.String("group_id", group.ID),
		attribute.String("event_id", group.EventID),
		attribute.String("performer_id", group.PerformerID),
		attribute.Int("slot_count", len(bookings)),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	claimSlot := `
		UPDATE time_slots SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`
	now := time.Now()
	for _, booking := range bookings {
		result, err := tx.Exec(ctx, claimSlot,
			booking.SlotID,
			string(domain.SlotStatusBooked),
			now,
			string(domain.SlotStatusAvailable),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to claim slot %s: %w", booking.SlotID, err)
		}
		if result.RowsAffected() == 0 {
			span.SetAttributes(attribute.String("contested_slot_id", booking.SlotID))
			span.SetStatus(codes.Error, "slot unavailable")
			return domain.ErrSlotUnavailable
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO booking_groups (id, event_id, performer_id, created_at) VALUES ($1, $2, $3, $4)`,
		group.ID, group.EventID, group.PerformerID, group.CreatedAt,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to insert booking group: %w", err)
	}

	insertBooking := `
		INSERT INTO slot_bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, booking := range bookings {
		if _, err := tx.Exec(ctx, insertBooking,
			booking.ID,
			booking.GroupID,
			booking.SlotID,
			booking.EventID,
			booking.PerformerID,
			string(booking.Status),
			booking.CreatedAt,
			booking.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to insert booking for slot %s: %w", booking.SlotID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit claim transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// CancelBooking cancels one confirmed booking, releases its slot and cancels
// the booking's pending B2B requests, all in one transaction. Accepted
// requests are left untouched; partnership reads honor booking status.
func (r *PostgresBookingRepository) CancelBooking(ctx context.Context, bookingID string) (*CancelBookingResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.cancel")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to begin cancel transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	booking := &domain.SlotBooking{}
	var status string

	err = tx.QueryRow(ctx, `
		UPDATE slot_bookings SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING `+bookingColumns,
		bookingID,
		string(domain.BookingStatusCancelled),
		now,
		string(domain.BookingStatusConfirmed),
	).Scan(
		&booking.ID,
		&booking.GroupID,
		&booking.SlotID,
		&booking.EventID,
		&booking.PerformerID,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM slot_bookings WHERE id = $1)", bookingID).Scan(&exists); checkErr != nil {
				span.RecordError(checkErr)
				span.SetStatus(codes.Error, checkErr.Error())
				return nil, fmt.Errorf("failed to check booking existence: %w", checkErr)
			}
			if !exists {
				span.SetStatus(codes.Error, "not found")
				return nil, domain.ErrBookingNotFound
			}
			span.SetStatus(codes.Error, "already cancelled")
			return nil, domain.ErrBookingAlreadyCancelled
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	booking.Status = domain.BookingStatus(status)

	if _, err := tx.Exec(ctx,
		`UPDATE time_slots SET status = $2, updated_at = $3 WHERE id = $1`,
		booking.SlotID, string(domain.SlotStatusAvailable), now,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to release slot: %w", err)
	}

	rows, err := tx.Query(ctx, `
		UPDATE b2b_requests SET status = $2, updated_at = $3
		WHERE booking_id = $1 AND status = $4
		RETURNING id, booking_id, requester_id, requestee_id, initiated_by, status, created_at, updated_at`,
		bookingID,
		string(domain.B2BStatusCancelled),
		now,
		string(domain.B2BStatusPending),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to cancel pending b2b requests: %w", err)
	}
	cancelled, err := scanB2BRequests(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to commit cancel transaction: %w", err)
	}

	span.SetAttributes(attribute.Int("cascaded_requests", len(cancelled)))
	span.SetStatus(codes.Ok, "")
	return &CancelBookingResult{
		Booking:           booking,
		CancelledRequests: cancelled,
	}, nil
}

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.SlotBooking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", id))

	query := `SELECT ` + bookingColumns + ` FROM slot_bookings WHERE id = $1`

	booking := &domain.SlotBooking{}
	var status string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.GroupID,
		&booking.SlotID,
		&booking.EventID,
		&booking.PerformerID,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	booking.Status = domain.BookingStatus(status)
	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ListByEvent retrieves an event's bookings ordered by slot index
func (r *PostgresBookingRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.SlotBooking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := `
		SELECT b.id, b.group_id, b.slot_id, b.event_id, b.performer_id, b.status, b.created_at, b.updated_at
		FROM slot_bookings b
		JOIN time_slots s ON b.slot_id = s.id
		WHERE b.event_id = $1
		ORDER BY s.slot_index, b.created_at
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings by event: %w", err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// ListByPerformer retrieves a performer's bookings, newest group first
func (r *PostgresBookingRepository) ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*domain.SlotBooking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_performer")
	defer span.End()

	span.SetAttributes(
		attribute.String("performer_id", performerID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	query := `
		SELECT b.id, b.group_id, b.slot_id, b.event_id, b.performer_id, b.status, b.created_at, b.updated_at
		FROM slot_bookings b
		JOIN time_slots s ON b.slot_id = s.id
		WHERE b.performer_id = $1
		ORDER BY b.created_at DESC, s.slot_index
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, performerID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings by performer: %w", err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

func scanBookings(rows pgx.Rows) ([]*domain.SlotBooking, error) {
	defer rows.Close()

	var bookings []*domain.SlotBooking
	for rows.Next() {
		booking := &domain.SlotBooking{}
		var status string
		if err := rows.Scan(
			&booking.ID,
			&booking.GroupID,
			&booking.SlotID,
			&booking.EventID,
			&booking.PerformerID,
			&status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		booking.Status = domain.BookingStatus(status)
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

// Ensure PostgresBookingRepository implements BookingStore
var _ BookingStore = (*PostgresBookingRepository)(nil)
