package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lendhive/service-rental/pkg/domain"
)

func newItemService(t *testing.T) (*ItemService, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewItemService(&memItemRepo{s: store}, &memUserRepo{s: store}, zap.NewNop())
	return svc, store
}

func TestCreateItemRegistersOwner(t *testing.T) {
	svc, store := newItemService(t)
	ownerID := uuid.New()

	dto, err := svc.CreateItem(context.Background(), ownerID, CreateItemRequest{
		Name:                "pressure washer",
		DailyRateCents:      4_500,
		SecurityAmountCents: 10_000,
		MinRentalDays:       1,
		MaxRentalDays:       14,
	})
	require.NoError(t, err)

	assert.Equal(t, ownerID, dto.OwnerID)
	assert.True(t, dto.Active)
	assert.Equal(t, "available", dto.Status)
	assert.Contains(t, store.users, ownerID)
}

func TestCreateItemInvalidTerms(t *testing.T) {
	svc, _ := newItemService(t)

	_, err := svc.CreateItem(context.Background(), uuid.New(), CreateItemRequest{
		Name:           "kayak",
		DailyRateCents: 3_000,
		MinRentalDays:  7,
		MaxRentalDays:  2,
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestUpdateItemOwnerOnly(t *testing.T) {
	svc, _ := newItemService(t)
	ownerID := uuid.New()

	dto, err := svc.CreateItem(context.Background(), ownerID, CreateItemRequest{
		Name:           "drone",
		DailyRateCents: 8_000,
		MinRentalDays:  1,
		MaxRentalDays:  7,
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), dto.ID, uuid.New(), UpdateItemRequest{DailyRateCents: 9_000})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	updated, err := svc.UpdateItem(context.Background(), dto.ID, ownerID, UpdateItemRequest{DailyRateCents: 9_000})
	require.NoError(t, err)
	assert.Equal(t, int64(9_000), updated.DailyRateCents)
	// Untouched fields keep their values.
	assert.Equal(t, "drone", updated.Name)
	assert.Equal(t, 7, updated.MaxRentalDays)
}

func TestUpdateItemZeroDeposit(t *testing.T) {
	svc, _ := newItemService(t)
	ownerID := uuid.New()

	dto, err := svc.CreateItem(context.Background(), ownerID, CreateItemRequest{
		Name:                "ladder",
		DailyRateCents:      1_500,
		SecurityAmountCents: 5_000,
		MinRentalDays:       1,
		MaxRentalDays:       30,
	})
	require.NoError(t, err)

	// Omitting the field keeps the deposit.
	updated, err := svc.UpdateItem(context.Background(), dto.ID, ownerID, UpdateItemRequest{Name: "step ladder"})
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), updated.SecurityAmountCents)

	// Explicit zero clears it.
	zero := int64(0)
	updated, err = svc.UpdateItem(context.Background(), dto.ID, ownerID, UpdateItemRequest{SecurityAmountCents: &zero})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.SecurityAmountCents)
}

func TestDeactivateItem(t *testing.T) {
	svc, _ := newItemService(t)
	ownerID := uuid.New()

	dto, err := svc.CreateItem(context.Background(), ownerID, CreateItemRequest{
		Name:           "projector",
		DailyRateCents: 2_500,
		MinRentalDays:  1,
		MaxRentalDays:  10,
	})
	require.NoError(t, err)

	_, err = svc.DeactivateItem(context.Background(), dto.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	deactivated, err := svc.DeactivateItem(context.Background(), dto.ID, ownerID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)
	assert.Equal(t, "inactive", deactivated.Status)
}
