package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"adriarent/internal/catalog"
	"adriarent/internal/domain/models"
	"adriarent/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) FindBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context, p catalog.Predicate, sort []catalog.SortKey, page catalog.Pagination) ([]models.Listing, int64, error) {
	args := m.Called(ctx, p, sort, page)
	return args.Get(0).([]models.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) StatusStats(ctx context.Context, ownerID string) ([]catalog.StatusBucket, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]catalog.StatusBucket), args.Error(1)
}

func (m *MockListingRepository) CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) IncrementFavorites(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) AddFavorite(ctx context.Context, userID uuid.UUID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) RemoveFavorite(ctx context.Context, userID uuid.UUID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

var (
	testLog   = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	testCtx   = context.Background()
	ownerID   = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	otherID   = uuid.MustParse("223e4567-e89b-12d3-a456-426614174000")
	testOwner = models.Identity{ID: ownerID, Role: models.RoleUser}
	testAdmin = models.Identity{ID: otherID, Role: models.RoleAdmin}
)

func newService(listings *MockListingRepository, users *MockUserRepository) *ListingService {
	return NewListingService(testLog, listings, users)
}

func TestCreate_GeneratesSlugFromTitle(t *testing.T) {
	listings := new(MockListingRepository)
	svc := newService(listings, new(MockUserRepository))

	listings.On("SlugExists", testCtx, "apartman-budva").Return(false, nil)
	listings.On("Create", testCtx, mock.Anything).Return(nil)

	listing, err := svc.Create(testCtx, testOwner, dto.CreateListingRequest{
		Title:      "Apartman Budva",
		CategoryID: "cat-1",
		Price:      40,
	})

	require.NoError(t, err)
	assert.Equal(t, "apartman-budva", listing.Slug)
	assert.Equal(t, models.StatusPending, listing.Status)
	assert.Equal(t, models.CurrencyEUR, listing.Currency)
	assert.Equal(t, ownerID.String(), listing.OwnerID)
}

func TestCreate_SlugCollisionGetsNumericSuffix(t *testing.T) {
	listings := new(MockListingRepository)
	svc := newService(listings, new(MockUserRepository))

	listings.On("SlugExists", testCtx, "apartman-budva").Return(true, nil)
	listings.On("SlugExists", testCtx, "apartman-budva-1").Return(false, nil)
	listings.On("Create", testCtx, mock.Anything).Return(nil)

	listing, err := svc.Create(testCtx, testOwner, dto.CreateListingRequest{
		Title:      "Apartman Budva",
		CategoryID: "cat-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "apartman-budva-1", listing.Slug)
}

func TestCreate_OwnerCannotSelfActivate(t *testing.T) {
	svc := newService(new(MockListingRepository), new(MockUserRepository))

	_, err := svc.Create(testCtx, testOwner, dto.CreateListingRequest{
		Title:      "Apartman Budva",
		CategoryID: "cat-1",
		Status:     "active",
	})

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdate_NonOwnerIsForbidden(t *testing.T) {
	listings := new(MockListingRepository)
	svc := newService(listings, new(MockUserRepository))

	listings.On("FindByID", testCtx, "l-1").
		Return(&models.Listing{ID: "l-1", OwnerID: otherID.String()}, nil)

	title := "New title"
	_, err := svc.Update(testCtx, testOwner, "l-1", dto.UpdateListingRequest{Title: &title})

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdate_AdminMayMutateAnyListing(t *testing.T) {
	listings := new(MockListingRepository)
	svc := newService(listings, new(MockUserRepository))
	stored := &models.Listing{ID: "l-1", OwnerID: ownerID.String()}

	listings.On("FindByID", testCtx, "l-1").Return(stored, nil)
	listings.On("Update", testCtx, "l-1", map[string]any{"status": models.StatusRented}).Return(nil)

	status := "rented"
	_, err := svc.Update(testCtx, testAdmin, "l-1", dto.UpdateListingRequest{Status: &status})

	require.NoError(t, err)
	listings.AssertExpectations(t)
}

func TestUpdate_OwnerCannotEnterModerationState(t *testing.T) {
	listings := new(MockListingRepository)
	svc := newService(listings, new(MockUserRepository))

	listings.On("FindByID", testCtx, "l-1").
		Return(&models.Listing{ID: "l-1", OwnerID: ownerID.String()}, nil)

	status := "pending"
	_, err := svc.Update(testCtx, testOwner, "l-1", dto.UpdateListingRequest{Status: &status})

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateStatus_RequiresAdmin(t *testing.T) {
	svc := newService(new(MockListingRepository), new(MockUserRepository))

	_, err := svc.UpdateStatus(testCtx, testOwner, "l-1", dto.UpdateStatusRequest{Status: "active"})

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateStatus_UnknownStatusIsBadInput(t *testing.T) {
	svc := newService(new(MockListingRepository), new(MockUserRepository))

	_, err := svc.UpdateStatus(testCtx, testAdmin, "l-1", dto.UpdateStatusRequest{Status: "vanished"})

	assert.ErrorIs(t, err, models.ErrBadInput)
}

func TestDelete_OwnerDeletesOwnListing(t *testing.T) {
	listings := new(MockListingRepository)
	svc := newService(listings, new(MockUserRepository))

	listings.On("FindByID", testCtx, "l-1").
		Return(&models.Listing{ID: "l-1", OwnerID: ownerID.String()}, nil)
	listings.On("Delete", testCtx, "l-1").Return(nil)

	err := svc.Delete(testCtx, testOwner, "l-1")

	require.NoError(t, err)
	listings.AssertExpectations(t)
}

func TestFavorite_BumpsCounterOnce(t *testing.T) {
	listings := new(MockListingRepository)
	users := new(MockUserRepository)
	svc := newService(listings, users)

	listings.On("FindByID", testCtx, "l-1").Return(&models.Listing{ID: "l-1"}, nil)
	users.On("AddFavorite", testCtx, ownerID, "l-1").Return(true, nil)
	listings.On("IncrementFavorites", testCtx, "l-1", 1).Return(nil)

	require.NoError(t, svc.Favorite(testCtx, testOwner, "l-1"))
	listings.AssertExpectations(t)
}

func TestFavorite_RepeatedFavoriteDoesNotBumpCounter(t *testing.T) {
	listings := new(MockListingRepository)
	users := new(MockUserRepository)
	svc := newService(listings, users)

	listings.On("FindByID", testCtx, "l-1").Return(&models.Listing{ID: "l-1"}, nil)
	users.On("AddFavorite", testCtx, ownerID, "l-1").Return(false, nil)

	require.NoError(t, svc.Favorite(testCtx, testOwner, "l-1"))
	listings.AssertNotCalled(t, "IncrementFavorites", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnfavorite_DecrementsWhenRemoved(t *testing.T) {
	listings := new(MockListingRepository)
	users := new(MockUserRepository)
	svc := newService(listings, users)

	users.On("RemoveFavorite", testCtx, ownerID, "l-1").Return(true, nil)
	listings.On("IncrementFavorites", testCtx, "l-1", -1).Return(nil)

	require.NoError(t, svc.Unfavorite(testCtx, testOwner, "l-1"))
	listings.AssertExpectations(t)
}
