package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resell-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resell-market/internal/models"
	cartservice "github.com/magabrotheeeer/resell-market/internal/services/cart"
)

// Мок сервиса корзины
type CartServiceMock struct {
	mock.Mock
}

func (m *CartServiceMock) Checkout(ctx context.Context, userUID string) (*cartservice.OrderEvent, error) {
	args := m.Called(ctx, userUID)
	var order *cartservice.OrderEvent
	if o := args.Get(0); o != nil {
		order = o.(*cartservice.OrderEvent)
	}
	return order, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCheckoutHandler_ServeHTTP(t *testing.T) {
	user := &models.User{
		UID:   "11111111-1111-1111-1111-111111111111",
		Email: "buyer@example.com",
		Role:  models.RoleUser,
	}

	order := &cartservice.OrderEvent{
		UserUID:   user.UID,
		ItemIDs:   []int64{1, 2},
		Total:     150.5,
		CreatedAt: time.Now().UTC(),
	}

	tests := []struct {
		name           string
		withUser       bool
		mockOrder      *cartservice.OrderEvent
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "successful checkout",
			withUser:       true,
			mockOrder:      order,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "anonymous caller",
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "authorization required",
		},
		{
			name:           "empty cart",
			withUser:       true,
			mockErr:        cartservice.ErrCartEmpty,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "cart is empty",
		},
		{
			name:           "storage error",
			withUser:       true,
			mockErr:        errors.New("storage error"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not checkout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cartMock := new(CartServiceMock)
			handler := New(newNoopLogger(), cartMock)

			if tt.withUser {
				cartMock.On("Checkout", mock.Anything, user.UID).
					Return(tt.mockOrder, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
			if tt.withUser {
				ctx := middlewarectx.WithIdentity(req.Context(), middlewarectx.Identity{User: user})
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatusCode == http.StatusOK {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				gotOrder, ok := data["order"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, user.UID, gotOrder["user_uid"])
				assert.Equal(t, 150.5, gotOrder["total"])
			}

			if tt.withUser {
				cartMock.AssertExpectations(t)
			} else {
				cartMock.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
			}
		})
	}
}
