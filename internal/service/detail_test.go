package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

type mockProductGetter struct {
	mock.Mock
}

func (m *mockProductGetter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func TestDetailView_Load(t *testing.T) {
	getter := &mockProductGetter{}
	getter.On("GetProduct", mock.Anything, "1").Return(&domain.Product{ID: 1, Title: "Essence Mascara"}, nil)

	v := NewDetailView(getter, logger.Discard())
	s := v.Load(context.Background(), "1")

	require.NotNil(t, s.Product)
	assert.Equal(t, 1, s.Product.ID)
	assert.False(t, s.Loading)
	assert.NoError(t, s.Err)
	assert.Equal(t, s, v.State())
}

func TestDetailView_NotFound(t *testing.T) {
	getter := &mockProductGetter{}
	getter.On("GetProduct", mock.Anything, "999").Return(nil, apperrors.NotFound("Product not found"))

	s := NewDetailView(getter, logger.Discard()).Load(context.Background(), "999")

	assert.Nil(t, s.Product)
	assert.True(t, errors.Is(s.Err, apperrors.ErrNotFound))
	var appErr *apperrors.AppError
	require.True(t, errors.As(s.Err, &appErr))
	assert.Equal(t, "Product not found", appErr.Message)
}

func TestDetailView_LoadingWhileInFlight(t *testing.T) {
	release := make(chan time.Time)
	getter := &mockProductGetter{}
	getter.On("GetProduct", mock.Anything, "2").
		WaitUntil(release).
		Return(&domain.Product{ID: 2, Title: "Eyeshadow Palette"}, nil)

	v := NewDetailView(getter, logger.Discard())
	done := goAsync(func() { v.Load(context.Background(), "2") })

	assert.Eventually(t, func() bool { return v.State().Loading }, time.Second, 5*time.Millisecond)
	close(release)
	wait(t, done)

	s := v.State()
	assert.False(t, s.Loading)
	require.NotNil(t, s.Product)
	assert.Equal(t, 2, s.Product.ID)
}

func TestDetailView_NewerLoadWins(t *testing.T) {
	release := make(chan time.Time)
	getter := &mockProductGetter{}
	getter.On("GetProduct", mock.Anything, "1").WaitUntil(release).Return(&domain.Product{ID: 1, Title: "Old"}, nil)
	getter.On("GetProduct", mock.Anything, "2").Return(&domain.Product{ID: 2, Title: "New"}, nil)

	v := NewDetailView(getter, logger.Discard())
	first := goAsync(func() { v.Load(context.Background(), "1") })
	assert.Eventually(t, func() bool { return v.State().Loading }, time.Second, 5*time.Millisecond)

	s := v.Load(context.Background(), "2")
	require.NotNil(t, s.Product)
	assert.Equal(t, 2, s.Product.ID)

	close(release)
	wait(t, first)
	assert.Equal(t, 2, v.State().Product.ID)
}
