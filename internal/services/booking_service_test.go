package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engraced_transport/internal/cache"
	"engraced_transport/internal/events"
	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
	"engraced_transport/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type bookingFixture struct {
	svc       *BookingService
	publisher *recordingPublisher
	owner     *models.User
	other     *models.User
}

func newBookingFixture(t *testing.T, opts ...BookingOption) bookingFixture {
	t.Helper()
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	return bookingFixture{
		svc:       NewBookingService(repositories.NewBookingRepository(db), pub, opts...),
		publisher: pub,
		owner:     testutil.CreateUser(t, db, "ada@example.com", "secret123", models.RolePassenger),
		other:     testutil.CreateUser(t, db, "bola@example.com", "secret123", models.RolePassenger),
	}
}

func carBooking(amount float64) CreateBookingInput {
	return CreateBookingInput{
		Type:           models.BookingCar,
		Amount:         amount,
		PickupLocation: "Lagos",
		Destination:    "Ibadan",
		PickupTime:     "08:30",
	}
}

func TestCreateBookingDefaults(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.svc.Create(ctx, carBooking(25000), f.owner.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Regexp(t, `^BK-[0-9A-F]{10}$`, booking.BookingNumber)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, f.owner.ID, booking.UserID)
	assert.Empty(t, booking.TrackingNumber)
	assert.Equal(t, []string{events.BookingCreated}, f.publisher.types())

	found, err := f.svc.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, found.User)
	assert.Equal(t, f.owner.Email, found.User.Email)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateBookingInput{Type: "boat", Amount: 10}, f.owner.ID)
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.svc.Create(ctx, carBooking(-1), f.owner.ID)
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.svc.Create(ctx, carBooking(math.NaN()), f.owner.ID)
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.svc.Create(ctx, carBooking(1e9), f.owner.ID)
	assert.Equal(t, KindBadRequest, KindOf(err), "beyond decimal(10,2)")

	_, err = f.svc.Create(ctx, carBooking(99999999.999), f.owner.ID)
	assert.Equal(t, KindBadRequest, KindOf(err), "rounds past the column limit")

	_, err = f.svc.Create(ctx, carBooking(0), f.owner.ID)
	assert.NoError(t, err)

	booking, err := f.svc.Create(ctx, carBooking(99999999.99), f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 99999999.99, booking.Amount)
}

func TestCreateLogisticsBookingGetsTrackingNumber(t *testing.T) {
	f := newBookingFixture(t)

	booking, err := f.svc.Create(context.Background(), CreateBookingInput{
		Type:     models.BookingLogistics,
		Amount:   5000,
		ItemType: "parcel",
		Weight:   "2kg",
	}, f.owner.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^TRK-[0-9A-F]{10}$`, booking.TrackingNumber)
}

func TestDuplicateBookingsAreNotRejected(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.BookingNumber, second.BookingNumber)
}

func TestFindByUserReturnsOnlyOwnBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, carBooking(200), f.owner.ID)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, carBooking(300), f.other.ID)
	require.NoError(t, err)

	mine, err := f.svc.FindByUser(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, b := range mine {
		assert.Equal(t, f.owner.ID, b.UserID)
	}

	all, err := f.svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFindByIDNotFound(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.FindByID(context.Background(), "0b6c1f8e-1111-4222-8333-944455556666")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.svc.FindByID(context.Background(), "not-a-uuid")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateStatusStrict(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, booking.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	// Backwards moves between non-terminal statuses are allowed.
	_, err = f.svc.UpdateStatus(ctx, booking.ID, models.BookingPending)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, booking.ID, models.BookingCompleted)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, booking.ID, models.BookingCompleted)
	assert.NoError(t, err, "reassigning the current status is a no-op")

	_, err = f.svc.UpdateStatus(ctx, booking.ID, models.BookingPending)
	assert.Equal(t, KindIllegalTransition, KindOf(err))

	stored, err := f.svc.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, stored.Status)

	assert.Equal(t, []string{
		events.BookingCreated,
		events.BookingStatusChanged,
		events.BookingStatusChanged,
		events.BookingStatusChanged,
		events.BookingStatusChanged,
	}, f.publisher.types())
}

func TestUpdateStatusPermissive(t *testing.T) {
	f := newBookingFixture(t, WithPermissiveTransitions())
	ctx := context.Background()

	booking, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, booking.ID, models.BookingCancelled)
	require.NoError(t, err)
	reopened, err := f.svc.UpdateStatus(ctx, booking.ID, models.BookingPending)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, reopened.Status)
}

func TestUpdateStatusErrors(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, booking.ID, "shipped")
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.svc.UpdateStatus(ctx, "0b6c1f8e-1111-4222-8333-944455556666", models.BookingConfirmed)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdatePaymentStatusIsIndependentOfStatus(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	booking, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, booking.ID, models.BookingCancelled)
	require.NoError(t, err)

	paid, err := f.svc.UpdatePaymentStatus(ctx, booking.ID, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, models.BookingCancelled, paid.Status)
	assert.True(t, paid.AwaitingRefund())

	_, err = f.svc.UpdatePaymentStatus(ctx, booking.ID, "settled")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestGetStatsEmpty(t *testing.T) {
	f := newBookingFixture(t)

	stats, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Len(t, stats.ByType, len(models.BookingTypes))
	assert.Len(t, stats.ByStatus, len(models.BookingStatuses))
	for _, n := range stats.ByType {
		assert.Zero(t, n)
	}
	for _, n := range stats.ByStatus {
		assert.Zero(t, n)
	}
}

func TestGetStatsCountsEveryBookingInRevenue(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, carBooking(100.25), f.owner.ID)
	require.NoError(t, err)
	flight, err := f.svc.Create(ctx, CreateBookingInput{Type: models.BookingFlight, Amount: 200, Airline: "Air Peace"}, f.other.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, flight.ID, models.BookingCancelled)
	require.NoError(t, err)

	stats, err := f.svc.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Total)
	assert.InDelta(t, 300.25, stats.TotalRevenue, 0.001)
	assert.Equal(t, int64(1), stats.ByType["car"])
	assert.Equal(t, int64(1), stats.ByType["flight"])
	assert.Equal(t, int64(0), stats.ByType["logistics"])
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["cancelled"])
}

func TestGetStatsCacheIsInvalidatedByWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := newBookingFixture(t, WithStatsCache(cache.NewStatsCache(rdb, time.Minute)))
	ctx := context.Background()

	_, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)

	stats, err := f.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.True(t, mr.Exists("engraced:stats:bookings"))

	_, err = f.svc.Create(ctx, carBooking(50), f.owner.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists("engraced:stats:bookings"))

	stats, err = f.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.InDelta(t, 150.0, stats.TotalRevenue, 0.001)
}

// racingCache runs onSet just before storing, standing in for a booking
// write that lands while stats are being cached.
type racingCache struct {
	mu    sync.Mutex
	data  map[string]interface{}
	onSet func()
}

func (c *racingCache) Get(context.Context, string, interface{}) error {
	return cache.ErrMiss
}

func (c *racingCache) Set(_ context.Context, key string, value interface{}) error {
	if c.onSet != nil {
		hook := c.onSet
		c.onSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *racingCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *racingCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func TestGetStatsDropsStatsRacedByAWrite(t *testing.T) {
	stats := &racingCache{data: map[string]interface{}{}}
	f := newBookingFixture(t, WithStatsCache(stats))
	ctx := context.Background()

	_, err := f.svc.Create(ctx, carBooking(100), f.owner.ID)
	require.NoError(t, err)

	stats.onSet = func() {
		_, err := f.svc.Create(ctx, carBooking(50), f.owner.ID)
		require.NoError(t, err)
	}
	got, err := f.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Total)
	assert.False(t, stats.has(bookingStatsKey), "stale stats must not stay cached")

	got, err = f.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)
	assert.True(t, stats.has(bookingStatsKey))
}
