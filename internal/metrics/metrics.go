package metrics

import (
	"context"
	"sync"

	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Booking counters
	SlotsClaimed      *telemetry.Counter
	BookingsCancelled *telemetry.Counter
	ClaimsRejected    *telemetry.Counter

	// Partnership counters
	RequestsCreated  *telemetry.Counter
	RequestsAccepted *telemetry.Counter
	RequestsDeclined *telemetry.Counter

	// Event counters
	EventsPublished *telemetry.Counter

	// Histograms
	ClaimBatchSize *telemetry.Histogram
	SlotsPerEvent  *telemetry.Histogram

	// Gauges
	ConfirmedBookings *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all application metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	SlotsClaimed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "slot_claims_total",
		Description: "Total number of slots claimed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_cancellations_total",
		Description: "Total number of cancelled bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ClaimsRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "slot_claim_rejections_total",
		Description: "Total number of rejected claim batches by reason",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RequestsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "b2b_requests_created_total",
		Description: "Total number of partnership requests created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RequestsAccepted, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "b2b_requests_accepted_total",
		Description: "Total number of partnership requests accepted",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RequestsDeclined, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "b2b_requests_declined_total",
		Description: "Total number of partnership requests declined",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	EventsPublished, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "events_published_total",
		Description: "Total number of events published",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ClaimBatchSize, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "slot_claim_batch_size",
		Description: "Number of slots per claim batch",
		Unit:        "1",
	}, []float64{1, 2, 3, 4, 6, 8})
	if err != nil {
		return err
	}

	SlotsPerEvent, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "event_slot_count",
		Description: "Number of slots generated per published event",
		Unit:        "1",
	}, []float64{1, 2, 4, 8, 12, 16, 24, 36, 48})
	if err != nil {
		return err
	}

	ConfirmedBookings, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "confirmed_bookings",
		Description: "Current number of confirmed bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordClaim records a committed claim batch
func RecordClaim(ctx context.Context, eventID string, slotCount int) {
	if SlotsClaimed != nil {
		SlotsClaimed.Add(ctx, int64(slotCount),
			attribute.String("event_id", eventID),
		)
	}
	if ClaimBatchSize != nil {
		ClaimBatchSize.Record(ctx, float64(slotCount),
			attribute.String("event_id", eventID),
		)
	}
	if ConfirmedBookings != nil {
		ConfirmedBookings.Add(ctx, int64(slotCount))
	}
}

// RecordClaimRejection records a rejected claim batch
func RecordClaimRejection(ctx context.Context, reason string) {
	if ClaimsRejected != nil {
		ClaimsRejected.Inc(ctx,
			attribute.String("reason", reason),
		)
	}
}

// RecordCancellation records a booking cancellation
func RecordCancellation(ctx context.Context, eventID string) {
	if BookingsCancelled != nil {
		BookingsCancelled.Inc(ctx,
			attribute.String("event_id", eventID),
		)
	}
	if ConfirmedBookings != nil {
		ConfirmedBookings.Dec(ctx)
	}
}

// RecordRequestCreated records a created partnership request
func RecordRequestCreated(ctx context.Context, initiatedBy string) {
	if RequestsCreated != nil {
		RequestsCreated.Inc(ctx,
			attribute.String("initiated_by", initiatedBy),
		)
	}
}

// RecordRequestResolved records an accepted or declined request
func RecordRequestResolved(ctx context.Context, accepted bool) {
	if accepted {
		if RequestsAccepted != nil {
			RequestsAccepted.Inc(ctx)
		}
		return
	}
	if RequestsDeclined != nil {
		RequestsDeclined.Inc(ctx)
	}
}

// RecordEventPublished records a published event and its slot count
func RecordEventPublished(ctx context.Context, slotCount int) {
	if EventsPublished != nil {
		EventsPublished.Inc(ctx)
	}
	if SlotsPerEvent != nil {
		SlotsPerEvent.Record(ctx, float64(slotCount))
	}
}
