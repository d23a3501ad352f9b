package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymspot/internal/email"
	"gymspot/internal/gym"
	"gymspot/internal/logger"
	"gymspot/internal/membership"
	"gymspot/internal/payment"
	"gymspot/internal/slot"
	"gymspot/internal/user"

	"github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeStore backs both the booking repository and the slot lookups with
// one mutex-guarded capacity table, so concurrent reserves contend the
// same way they do against the conditional UPDATE in Postgres.
type fakeStore struct {
	mu           sync.Mutex
	slots        map[int]*slot.TimeSlot
	bookings     map[int]*Booking
	nextID       int
	dashboardDay time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:    make(map[int]*slot.TimeSlot),
		bookings: make(map[int]*Booking),
		nextID:   1,
	}
}

func (f *fakeStore) addSlot(id, capacity int, basePriceCents int64, surge float64) {
	f.slots[id] = &slot.TimeSlot{
		ID:              id,
		GymID:           1,
		Date:            time.Now().AddDate(0, 0, 1),
		StartTime:       "10:00",
		EndTime:         "11:00",
		Capacity:        capacity,
		BasePriceCents:  basePriceCents,
		SurgeMultiplier: surge,
		IsAvailable:     true,
	}
}

func (f *fakeStore) CreateWithReservation(ctx context.Context, p CreateParams) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[p.SlotID]
	if !ok {
		return nil, slot.ErrSlotNotFound
	}
	if !s.IsAvailable || s.BookedCount >= s.Capacity {
		return nil, slot.ErrSlotFull
	}

	s.BookedCount++
	s.IsAvailable = s.BookedCount < s.Capacity

	b := &Booking{
		ID:              f.nextID,
		UserID:          p.UserID,
		GymID:           s.GymID,
		SlotID:          p.SlotID,
		MembershipID:    p.MembershipID,
		BookingDate:     s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		TotalPriceCents: TotalPriceCents(s.BasePriceCents, s.SurgeMultiplier),
		Status:          StatusUpcoming,
	}
	f.nextID++
	f.bookings[b.ID] = b

	return b, nil
}

func (f *fakeStore) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) CancelWithRelease(ctx context.Context, id int) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}

	switch b.Status {
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	case StatusCompleted:
		return nil, ErrAlreadyCompleted
	}

	b.Status = StatusCancelled
	if s, ok := f.slots[b.SlotID]; ok && s.BookedCount > 0 {
		s.BookedCount--
		s.IsAvailable = s.BookedCount < s.Capacity
	}

	copied := *b
	return &copied, nil
}

func (f *fakeStore) MarkActive(ctx context.Context, q sqlx.ExtContext, id int, checkedInAt time.Time) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != StatusUpcoming {
		return nil, &InvalidTransitionError{From: b.Status, To: StatusActive}
	}
	b.Status = StatusActive
	b.CheckedInAt = &checkedInAt
	copied := *b
	return &copied, nil
}

func (f *fakeStore) MarkCompleted(ctx context.Context, q sqlx.ExtContext, id int) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != StatusActive {
		return nil, &InvalidTransitionError{From: b.Status, To: StatusCompleted}
	}
	b.Status = StatusCompleted
	copied := *b
	return &copied, nil
}

func (f *fakeStore) GetUserBookings(ctx context.Context, userID int, status string) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Booking
	for _, b := range f.bookings {
		if b.UserID == userID && (status == "" || string(b.Status) == status) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetGymBookings(ctx context.Context, gymID int, date *time.Time, status string) ([]BookingWithDetails, error) {
	return nil, nil
}

func (f *fakeStore) GetDashboardStats(ctx context.Context, gymID int, day time.Time) (*DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboardDay = day
	return &DashboardStats{}, nil
}

// fakeSlotRepo serves the pre-flight slot read from the shared store.
type fakeSlotRepo struct {
	store *fakeStore
}

func (f *fakeSlotRepo) GetTimeSlotByID(ctx context.Context, id int) (*slot.TimeSlot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	s, ok := f.store.slots[id]
	if !ok {
		return nil, slot.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) TryReserve(ctx context.Context, q sqlx.ExtContext, id int) error { return nil }
func (f *fakeSlotRepo) Release(ctx context.Context, q sqlx.ExtContext, id int) error   { return nil }
func (f *fakeSlotRepo) Create(ctx context.Context, s slot.NewSlot) (*slot.TimeSlot, error) {
	return nil, nil
}
func (f *fakeSlotRepo) CreateBulk(ctx context.Context, slots []slot.NewSlot) (int, error) {
	return 0, nil
}
func (f *fakeSlotRepo) GetAvailableSlots(ctx context.Context, gymID int, date time.Time, equipmentID *int) ([]slot.TimeSlot, error) {
	return nil, nil
}
func (f *fakeSlotRepo) GetSlotsByGym(ctx context.Context, gymID int, date *time.Time) ([]slot.TimeSlot, error) {
	return nil, nil
}
func (f *fakeSlotRepo) SetAvailability(ctx context.Context, id int, available bool) (*slot.TimeSlot, error) {
	return nil, nil
}
func (f *fakeSlotRepo) HasBookings(ctx context.Context, id int) (bool, error) { return false, nil }
func (f *fakeSlotRepo) Delete(ctx context.Context, id int) error              { return nil }

type MockGymService struct{ mock.Mock }

func (m *MockGymService) CreateGym(ctx context.Context, vendorID int, req gym.CreateGymRequest) (*gym.Gym, error) {
	args := m.Called(ctx, vendorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymService) GetAllGyms(ctx context.Context) ([]gym.Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.Gym), args.Error(1)
}

func (m *MockGymService) GetGymByID(ctx context.Context, id int) (*gym.Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymService) GetGymsByVendor(ctx context.Context, vendorID int) ([]gym.Gym, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.Gym), args.Error(1)
}

func (m *MockGymService) UpdateStatus(ctx context.Context, id int, status gym.GymStatus) (*gym.Gym, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymService) RequireActiveOwned(ctx context.Context, gymID, vendorID int) (*gym.Gym, error) {
	args := m.Called(ctx, gymID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymService) RequireOwned(ctx context.Context, gymID, vendorID int) (*gym.Gym, error) {
	args := m.Called(ctx, gymID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

type MockMembershipRepo struct{ mock.Mock }

func (m *MockMembershipRepo) CreatePass(ctx context.Context, gymID int, req membership.CreatePassRequest) (*membership.MembershipPass, error) {
	args := m.Called(ctx, gymID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipPass), args.Error(1)
}

func (m *MockMembershipRepo) GetPassesByGym(ctx context.Context, gymID int) ([]membership.MembershipPass, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.MembershipPass), args.Error(1)
}

func (m *MockMembershipRepo) GetPassByID(ctx context.Context, id int) (*membership.MembershipPass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipPass), args.Error(1)
}

func (m *MockMembershipRepo) Purchase(ctx context.Context, userID int, pass *membership.MembershipPass) (*membership.UserMembership, error) {
	args := m.Called(ctx, userID, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.UserMembership), args.Error(1)
}

func (m *MockMembershipRepo) GetActiveForUserAndGym(ctx context.Context, userID, gymID int) (*membership.UserMembership, error) {
	args := m.Called(ctx, userID, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.UserMembership), args.Error(1)
}

func (m *MockMembershipRepo) GetUserMemberships(ctx context.Context, userID int) ([]membership.UserMembership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]membership.UserMembership), args.Error(1)
}

func (m *MockMembershipRepo) IncrementVisits(ctx context.Context, membershipID int) error {
	return m.Called(ctx, membershipID).Error(0)
}

func (m *MockMembershipRepo) Cancel(ctx context.Context, membershipID, userID int) error {
	return m.Called(ctx, membershipID, userID).Error(0)
}

type MockPaymentRepo struct{ mock.Mock }

func (m *MockPaymentRepo) Create(ctx context.Context, bookingID *int, userID, gymID int, amountCents int64, method string) (*payment.Payment, error) {
	args := m.Called(ctx, bookingID, userID, gymID, amountCents, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepo) RefundForBooking(ctx context.Context, bookingID int) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *MockPaymentRepo) GetUserPayments(ctx context.Context, userID int) ([]payment.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepo) GetGymPayments(ctx context.Context, gymID int) ([]payment.Payment, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, fullName, email, passwordHash, phone, userType string) (*user.User, error) {
	args := m.Called(ctx, fullName, email, passwordHash, phone, userType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func testEmailService() *email.Service {
	client, _ := redismock.NewClientMock()
	return email.NewWithClient(client, "noreply@gymspot.test", "GymSpot")
}

type serviceFixture struct {
	store          *fakeStore
	gymService     *MockGymService
	membershipRepo *MockMembershipRepo
	paymentRepo    *MockPaymentRepo
	userRepo       *MockUserRepo
	service        Service
}

func newServiceFixture() *serviceFixture {
	logger.Init()

	store := newFakeStore()
	gymService := new(MockGymService)
	membershipRepo := new(MockMembershipRepo)
	paymentRepo := new(MockPaymentRepo)
	userRepo := new(MockUserRepo)

	svc := NewService(store, &fakeSlotRepo{store: store}, gymService, membershipRepo, paymentRepo, userRepo, testEmailService())

	return &serviceFixture{
		store:          store,
		gymService:     gymService,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		service:        svc,
	}
}

func (f *serviceFixture) stubNotifications() {
	f.userRepo.On("FindByID", mock.Anything, mock.Anything).
		Return(&user.User{ID: 1, Email: "alice@example.com", FullName: "Alice"}, nil)
	f.gymService.On("GetGymByID", mock.Anything, mock.Anything).
		Return(&gym.Gym{ID: 1, Name: "Iron Temple"}, nil)
}

func TestReserve_SnapshotsPrice(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 3, 5000, 1.2)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, 1, 1, int64(6000), "card").
		Return(&payment.Payment{ID: 1}, nil)

	b, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(6000), b.TotalPriceCents)
	assert.Equal(t, StatusUpcoming, b.Status)
	f.paymentRepo.AssertExpectations(t)
}

func TestReserve_FillsToCapacityThenRejects(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 3, 2000, 1.0)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Payment{ID: 1}, nil)

	for i := 0; i < 3; i++ {
		_, err := f.service.Reserve(context.Background(), i+1, CreateBookingRequest{SlotID: 1})
		require.NoError(t, err)
	}

	_, err := f.service.Reserve(context.Background(), 4, CreateBookingRequest{SlotID: 1})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserve_ConcurrentSingleWinner(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 1, 2000, 1.0)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Payment{ID: 1}, nil)

	const attempts = 50

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := f.service.Reserve(context.Background(), userID, CreateBookingRequest{SlotID: 1})
			results <- err
		}(i + 1)
	}
	wg.Wait()
	close(results)

	var wins, rejections int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotUnavailable):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, rejections)
}

func TestReserve_NotFound(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 99})
	assert.ErrorIs(t, err, slot.ErrSlotNotFound)
}

func TestReserve_WithMembershipSkipsPayment(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 2, 3000, 1.0)
	f.stubNotifications()

	limit := 10
	f.membershipRepo.On("GetActiveForUserAndGym", mock.Anything, 1, 1).
		Return(&membership.UserMembership{ID: 7, VisitLimit: &limit, VisitsUsed: 2, Status: membership.StatusActive}, nil)
	f.membershipRepo.On("IncrementVisits", mock.Anything, 7).Return(nil)

	b, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 1, UseMembership: true})
	require.NoError(t, err)

	require.NotNil(t, b.MembershipID)
	assert.Equal(t, 7, *b.MembershipID)
	f.membershipRepo.AssertExpectations(t)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_ReleasesCapacity(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 1, 2000, 1.0)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Payment{ID: 1}, nil)
	f.paymentRepo.On("RefundForBooking", mock.Anything, mock.Anything).Return(nil)

	b, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 1})
	require.NoError(t, err)

	_, err = f.service.Reserve(context.Background(), 2, CreateBookingRequest{SlotID: 1})
	require.ErrorIs(t, err, ErrSlotUnavailable)

	cancelled, err := f.service.Cancel(context.Background(), 1, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = f.service.Reserve(context.Background(), 2, CreateBookingRequest{SlotID: 1})
	assert.NoError(t, err)
}

func TestCancel_SecondAttemptRejected(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 2, 2000, 1.0)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Payment{ID: 1}, nil)
	f.paymentRepo.On("RefundForBooking", mock.Anything, mock.Anything).Return(nil)

	b, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 1})
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), 1, b.ID)
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), 1, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	// The release must have happened exactly once.
	f.store.mu.Lock()
	assert.Equal(t, 0, f.store.slots[1].BookedCount)
	f.store.mu.Unlock()
}

func TestCancel_CompletedRejected(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 2, 2000, 1.0)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Payment{ID: 1}, nil)

	b, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 1})
	require.NoError(t, err)

	_, err = f.store.MarkActive(context.Background(), nil, b.ID, time.Now())
	require.NoError(t, err)
	_, err = f.store.MarkCompleted(context.Background(), nil, b.ID)
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), 1, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCancel_NotOwner(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 2, 2000, 1.0)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Payment{ID: 1}, nil)

	b, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 1})
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), 2, b.ID)
	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestGetBooking_Permissions(t *testing.T) {
	f := newServiceFixture()
	f.store.addSlot(1, 2, 2000, 1.0)
	f.stubNotifications()
	f.paymentRepo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Payment{ID: 1}, nil)

	b, err := f.service.Reserve(context.Background(), 1, CreateBookingRequest{SlotID: 1})
	require.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), 1, "customer", b.ID)
	assert.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), 2, "customer", b.ID)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	f.gymService.On("RequireOwned", mock.Anything, 1, 5).Return(nil, gym.ErrNotGymOwner)
	_, err = f.service.GetBooking(context.Background(), 5, "vendor", b.ID)
	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestGetDashboard_DayIsLocalMidnight(t *testing.T) {
	f := newServiceFixture()
	f.gymService.On("RequireOwned", mock.Anything, 1, 5).Return(&gym.Gym{ID: 1}, nil)

	_, err := f.service.GetDashboard(context.Background(), 5, 1)
	require.NoError(t, err)

	y, m, d := time.Now().Date()
	want := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	f.store.mu.Lock()
	got := f.store.dashboardDay
	f.store.mu.Unlock()

	assert.True(t, got.Equal(want))
	assert.Equal(t, time.Local, got.Location())
}
