package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresB2BRepository implements B2BRequestStore using PostgreSQL with pgxpool
type PostgresB2BRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresB2BRepository creates a new PostgresB2BRepository
func NewPostgresB2BRepository(pool *pgxpool.Pool) *PostgresB2BRepository {
	return &PostgresB2BRepository{pool: pool}
}

const b2bColumns = `id, booking_id, requester_id, requestee_id, initiated_by, status, created_at, updated_at`

// Create inserts a pending request
func (r *PostgresB2BRepository) Create(ctx context.Context, req *domain.B2BRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.b2b.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("request_id", req.ID),
		attribute.String("booking_id", req.BookingID),
		attribute.String("initiated_by", string(req.InitiatedBy)),
	)

	query := `INSERT INTO b2b_requests (` + b2bColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.BookingID,
		req.RequesterID,
		req.RequesteeID,
		string(req.InitiatedBy),
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "duplicate pending")
			return domain.ErrDuplicatePendingRequest
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create b2b request: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a request by its ID
func (r *PostgresB2BRepository) GetByID(ctx context.Context, id string) (*domain.B2BRequest, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.b2b.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("request_id", id))

	query := `SELECT ` + b2bColumns + ` FROM b2b_requests WHERE id = $1`

	req := &domain.B2BRequest{}
	var initiatedBy, status string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.BookingID,
		&req.RequesterID,
		&req.RequesteeID,
		&initiatedBy,
		&status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRequestNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get b2b request: %w", err)
	}

	req.InitiatedBy = domain.B2BInitiator(initiatedBy)
	req.Status = domain.B2BRequestStatus(status)
	span.SetStatus(codes.Ok, "")
	return req, nil
}

// Transition moves a request between states with a conditional update, so a
// request that already left the expected state is never overwritten. On a
// zero-row update the request either does not exist (ErrRequestNotFound) or
// lost the race, in which case conflictErr is returned.
func (r *PostgresB2BRepository) Transition(ctx context.Context, id string, from, to domain.B2BRequestStatus, conflictErr error) (*domain.B2BRequest, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.b2b.transition")
	defer span.End()

	span.SetAttributes(
		attribute.String("request_id", id),
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	)

	req := &domain.B2BRequest{}
	var initiatedBy, status string

	err := r.pool.QueryRow(ctx, `
		UPDATE b2b_requests SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING `+b2bColumns,
		id, string(to), time.Now(), string(from),
	).Scan(
		&req.ID,
		&req.BookingID,
		&req.RequesterID,
		&req.RequesteeID,
		&initiatedBy,
		&status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM b2b_requests WHERE id = $1)", id).Scan(&exists); checkErr != nil {
				span.RecordError(checkErr)
				span.SetStatus(codes.Error, checkErr.Error())
				return nil, fmt.Errorf("failed to check b2b request existence: %w", checkErr)
			}
			if !exists {
				span.SetStatus(codes.Error, "not found")
				return nil, domain.ErrRequestNotFound
			}
			span.SetStatus(codes.Error, "stale state")
			return nil, conflictErr
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to transition b2b request: %w", err)
	}

	req.InitiatedBy = domain.B2BInitiator(initiatedBy)
	req.Status = domain.B2BRequestStatus(status)
	span.SetStatus(codes.Ok, "")
	return req, nil
}

// Accept moves a pending request to accepted. The partner cap is enforced
// inside the update itself: the row only flips while the booking holds fewer
// than maxPartners accepted requests, so two accepts racing past the service
// check cannot both land.
func (r *PostgresB2BRepository) Accept(ctx context.Context, id string, maxPartners int) (*domain.B2BRequest, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.b2b.accept")
	defer span.End()

	span.SetAttributes(
		attribute.String("request_id", id),
		attribute.Int("max_partners", maxPartners),
	)

	req := &domain.B2BRequest{}
	var initiatedBy, status string

	err := r.pool.QueryRow(ctx, `
		UPDATE b2b_requests SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		  AND (SELECT COUNT(*) FROM b2b_requests accepted
		       WHERE accepted.booking_id = b2b_requests.booking_id
		         AND accepted.status = $2) < $5
		RETURNING `+b2bColumns,
		id, string(domain.B2BStatusAccepted), time.Now(), string(domain.B2BStatusPending), maxPartners,
	).Scan(
		&req.ID,
		&req.BookingID,
		&req.RequesterID,
		&req.RequesteeID,
		&initiatedBy,
		&status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var current string
			checkErr := r.pool.QueryRow(ctx, `SELECT status FROM b2b_requests WHERE id = $1`, id).Scan(&current)
			if errors.Is(checkErr, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "not found")
				return nil, domain.ErrRequestNotFound
			}
			if checkErr != nil {
				span.RecordError(checkErr)
				span.SetStatus(codes.Error, checkErr.Error())
				return nil, fmt.Errorf("failed to check b2b request status: %w", checkErr)
			}
			if current != string(domain.B2BStatusPending) {
				span.SetStatus(codes.Error, "stale state")
				return nil, domain.ErrRequestNotPending
			}
			span.SetStatus(codes.Error, "partnership full")
			return nil, domain.ErrPartnershipFull
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to accept b2b request: %w", err)
	}

	req.InitiatedBy = domain.B2BInitiator(initiatedBy)
	req.Status = domain.B2BRequestStatus(status)
	span.SetStatus(codes.Ok, "")
	return req, nil
}

// ListByBooking retrieves all requests attached to a booking
func (r *PostgresB2BRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.B2BRequest, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.b2b.list_by_booking")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	query := `SELECT ` + b2bColumns + ` FROM b2b_requests WHERE booking_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list b2b requests: %w", err)
	}

	requests, err := scanB2BRequests(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(requests)))
	span.SetStatus(codes.Ok, "")
	return requests, nil
}

// CountAccepted counts accepted requests for a booking
func (r *PostgresB2BRepository) CountAccepted(ctx context.Context, bookingID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.b2b.count_accepted")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM b2b_requests WHERE booking_id = $1 AND status = $2`,
		bookingID, string(domain.B2BStatusAccepted),
	).Scan(&count)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to count accepted b2b requests: %w", err)
	}

	span.SetAttributes(attribute.Int("count", count))
	span.SetStatus(codes.Ok, "")
	return count, nil
}

func scanB2BRequests(rows pgx.Rows) ([]*domain.B2BRequest, error) {
	defer rows.Close()

	var requests []*domain.B2BRequest
	for rows.Next() {
		req := &domain.B2BRequest{}
		var initiatedBy, status string
		if err := rows.Scan(
			&req.ID,
			&req.BookingID,
			&req.RequesterID,
			&req.RequesteeID,
			&initiatedBy,
			&status,
			&req.CreatedAt,
			&req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan b2b request: %w", err)
		}
		req.InitiatedBy = domain.B2BInitiator(initiatedBy)
		req.Status = domain.B2BRequestStatus(status)
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating b2b requests: %w", err)
	}
	return requests, nil
}

// Ensure PostgresB2BRepository implements B2BRequestStore
var _ B2BRequestStore = (*PostgresB2BRepository)(nil)
