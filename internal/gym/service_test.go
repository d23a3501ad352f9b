package gym

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateGym(ctx context.Context, vendorID int, req CreateGymRequest) (*Gym, error) {
	args := m.Called(ctx, vendorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockRepository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepository) GetGymsByVendor(ctx context.Context, vendorID int) ([]Gym, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int, status GymStatus) (*Gym, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepository) DeleteGym(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateGym(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	req := CreateGymRequest{Name: "Iron Temple", Address: "12 Main St", City: "Springfield"}
	created := &Gym{ID: 1, VendorID: 5, Name: "Iron Temple", Status: StatusPending}

	repo.On("CreateGym", ctx, 5, req).Return(created, nil)

	gym, err := svc.CreateGym(ctx, 5, req)

	require.NoError(t, err)
	assert.Equal(t, 1, gym.ID)
	assert.Equal(t, StatusPending, gym.Status)
	repo.AssertExpectations(t)
}

func TestGetGymByID_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 99).Return(nil, assert.AnError)

	gym, err := svc.GetGymByID(ctx, 99)

	assert.ErrorIs(t, err, ErrGymNotFound)
	assert.Nil(t, gym)
}

func TestUpdateStatus(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("Activates pending gym", func(t *testing.T) {
		pending := &Gym{ID: 1, VendorID: 5, Status: StatusPending}
		active := &Gym{ID: 1, VendorID: 5, Status: StatusActive}

		repo.On("GetGymByID", ctx, 1).Return(pending, nil).Once()
		repo.On("UpdateStatus", ctx, 1, StatusActive).Return(active, nil).Once()

		gym, err := svc.UpdateStatus(ctx, 1, StatusActive)

		require.NoError(t, err)
		assert.Equal(t, StatusActive, gym.Status)
	})

	t.Run("Missing gym", func(t *testing.T) {
		repo.On("GetGymByID", ctx, 42).Return(nil, assert.AnError).Once()

		gym, err := svc.UpdateStatus(ctx, 42, StatusActive)

		assert.ErrorIs(t, err, ErrGymNotFound)
		assert.Nil(t, gym)
	})
}

func TestRequireOwned(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	owned := &Gym{ID: 1, VendorID: 5, Status: StatusActive}
	repo.On("GetGymByID", ctx, 1).Return(owned, nil)

	t.Run("Owner passes", func(t *testing.T) {
		gym, err := svc.RequireOwned(ctx, 1, 5)

		require.NoError(t, err)
		assert.Equal(t, 1, gym.ID)
	})

	t.Run("Other vendor rejected", func(t *testing.T) {
		gym, err := svc.RequireOwned(ctx, 1, 7)

		assert.ErrorIs(t, err, ErrNotGymOwner)
		assert.Nil(t, gym)
	})

	t.Run("Missing gym", func(t *testing.T) {
		repo.On("GetGymByID", ctx, 404).Return(nil, assert.AnError)

		gym, err := svc.RequireOwned(ctx, 404, 5)

		assert.ErrorIs(t, err, ErrGymNotFound)
		assert.Nil(t, gym)
	})
}

func TestRequireActiveOwned(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("Active gym passes", func(t *testing.T) {
		repo.On("GetGymByID", ctx, 1).Return(&Gym{ID: 1, VendorID: 5, Status: StatusActive}, nil)

		gym, err := svc.RequireActiveOwned(ctx, 1, 5)

		require.NoError(t, err)
		assert.Equal(t, StatusActive, gym.Status)
	})

	t.Run("Pending gym rejected", func(t *testing.T) {
		repo.On("GetGymByID", ctx, 2).Return(&Gym{ID: 2, VendorID: 5, Status: StatusPending}, nil)

		gym, err := svc.RequireActiveOwned(ctx, 2, 5)

		assert.ErrorIs(t, err, ErrGymNotActive)
		assert.Nil(t, gym)
	})

	t.Run("Ownership checked before status", func(t *testing.T) {
		repo.On("GetGymByID", ctx, 3).Return(&Gym{ID: 3, VendorID: 9, Status: StatusSuspended}, nil)

		gym, err := svc.RequireActiveOwned(ctx, 3, 5)

		assert.ErrorIs(t, err, ErrNotGymOwner)
		assert.Nil(t, gym)
	})
}
