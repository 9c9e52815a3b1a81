package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Killzin1000/quality-estetica2/internal/domain/model"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/mocks"
)

func newStockService(t *testing.T, policy model.StockAlertPolicy) (*mocks.MockProductRepository, *StockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := mocks.NewMockProductRepository(ctrl)
	return repo, NewStockService(StockServiceOptions{
		Products: repo,
		Policy:   policy,
		Now:      func() time.Time { return testNow },
	})
}

func TestStockService_PolicyDefaults(t *testing.T) {
	t.Parallel()
	_, svc := newStockService(t, model.StockAlertPolicy{})
	assert.Equal(t, DefaultLowStockThreshold, svc.Policy().LowStockThreshold)
	assert.Equal(t, DefaultExpiryWindow, svc.Policy().ExpiryWindow)

	_, svc = newStockService(t, model.StockAlertPolicy{LowStockThreshold: 10, ExpiryWindow: time.Hour})
	assert.Equal(t, 10, svc.Policy().LowStockThreshold)
}

func TestStockService_Alerts(t *testing.T) {
	t.Parallel()
	repo, svc := newStockService(t, model.StockAlertPolicy{})

	repo.EXPECT().ListExpiring(gomock.Any(), testNow, testNow.Add(DefaultExpiryWindow)).
		Return([]model.Product{{ID: "p1"}}, nil)
	repo.EXPECT().ListLowStock(gomock.Any(), DefaultLowStockThreshold).
		Return([]model.Product{{ID: "p2"}, {ID: "p3"}}, nil)

	alerts, err := svc.Alerts(context.Background())
	require.NoError(t, err)
	assert.Len(t, alerts.Expiring, 1)
	assert.Len(t, alerts.LowStock, 2)
}

func TestStockService_Alerts_Error(t *testing.T) {
	t.Parallel()
	repo, svc := newStockService(t, model.StockAlertPolicy{})
	boom := errors.New("boom")

	repo.EXPECT().ListExpiring(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)
	repo.EXPECT().ListLowStock(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.Alerts(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStockService_InStock(t *testing.T) {
	t.Parallel()
	repo, svc := newStockService(t, model.StockAlertPolicy{})

	repo.EXPECT().List(gomock.Any()).Return([]model.Product{
		{ID: "a", Quantity: 0}, {ID: "b", Quantity: 3},
	}, nil)

	got, err := svc.InStock(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestStockService_CreateValidates(t *testing.T) {
	t.Parallel()
	repo, svc := newStockService(t, model.StockAlertPolicy{})
	ctx := context.Background()

	_, err := svc.Create(ctx, model.ProductInput{Name: "Ácido", Quantity: -1})
	assert.True(t, apperrors.IsValidation(err))

	repo.EXPECT().Create(ctx, model.ProductInput{Name: "Ácido hialurônico", Quantity: 4}).
		Return(&model.Product{ID: "p1", Name: "Ácido hialurônico", Quantity: 4}, nil)
	p, err := svc.Create(ctx, model.ProductInput{Name: " Ácido hialurônico ", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}
