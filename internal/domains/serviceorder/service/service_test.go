package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	"innkeeper/infras/otel/mocks"
	reservationMocks "innkeeper/internal/domains/reservation/mocks"
	roomMocks "innkeeper/internal/domains/room/mocks"
	serviceorderMocks "innkeeper/internal/domains/serviceorder/mocks"
	"innkeeper/internal/domains/serviceorder/model"
	"innkeeper/internal/domains/serviceorder/model/dto"
	"innkeeper/internal/domains/serviceorder/service"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	"innkeeper/shared/failure"
	"innkeeper/shared/taskflow"
)

type stubCache struct{}

func (stubCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (stubCache) Get(_ context.Context, _ string, _ any) error         { return cache.Nil }
func (stubCache) Delete(_ context.Context, _ string) error             { return nil }
func (stubCache) Clear(_ context.Context, _ string) error              { return nil }

type fixture struct {
	repo            *serviceorderMocks.MockServiceOrder
	reservationRepo *reservationMocks.MockReservation
	roomRepo        *roomMocks.MockRoom
	svc             service.ServiceOrder
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	repo := serviceorderMocks.NewMockServiceOrder(ctrl)
	reservationRepo := reservationMocks.NewMockReservation(ctrl)
	roomRepo := roomMocks.NewMockRoom(ctrl)

	svc := service.New(repo, reservationRepo, roomRepo, &config.Config{}, stubCache{}, mocks.NewOtel())

	return fixture{repo: repo, reservationRepo: reservationRepo, roomRepo: roomRepo, svc: svc}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id-1")
}

func TestServiceOrderService_Create(t *testing.T) {
	req := dto.CreateServiceOrderRequest{
		ReservationID: "reservation-id-1",
		RoomID:        "room-id-1",
		Description:   "extra towels",
		PriceCents:    500,
	}

	t.Run("successful order", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, order model.ServiceOrder) error {
				assert.Equal(t, taskflow.StatusPending, order.Status)
				assert.Equal(t, "extra towels", order.Description)

				return nil
			})

		assert.NoError(t, f.svc.Create(testContext(), req))
	})

	t.Run("reservation not found", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := f.svc.Create(testContext(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("room not found", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := f.svc.Create(testContext(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestServiceOrderService_Lifecycle(t *testing.T) {
	t.Run("assign moves a pending order to in progress", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.ServiceOrder{ID: "order-id-1", Status: taskflow.StatusPending}, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, taskflow.StatusInProgress, fields[model.FieldStatus])
				assert.Equal(t, "housekeeper-id-1", fields[model.FieldAssignedTo])

				return nil
			})

		err := f.svc.Assign(testContext(), "order-id-1", dto.AssignServiceOrderRequest{AssignedTo: "housekeeper-id-1"})

		assert.NoError(t, err)
	})

	t.Run("completed order cannot be assigned", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.ServiceOrder{ID: "order-id-1", Status: taskflow.StatusCompleted}, nil)

		err := f.svc.Assign(testContext(), "order-id-1", dto.AssignServiceOrderRequest{AssignedTo: "housekeeper-id-1"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("complete records resolution notes", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.ServiceOrder{ID: "order-id-1", Status: taskflow.StatusInProgress}, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, taskflow.StatusCompleted, fields[model.FieldStatus])
				assert.Equal(t, "done", fields[model.FieldResolutionNotes])

				return nil
			})

		err := f.svc.Complete(testContext(), "order-id-1", dto.CompleteServiceOrderRequest{ResolutionNotes: "done"})

		assert.NoError(t, err)
	})

	t.Run("cancelled order cannot be completed", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.ServiceOrder{ID: "order-id-1", Status: taskflow.StatusCancelled}, nil)

		err := f.svc.Complete(testContext(), "order-id-1", dto.CompleteServiceOrderRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.ServiceOrder{ID: "order-id-1", Status: taskflow.StatusCompleted}, nil)

		err := f.svc.Cancel(testContext(), "order-id-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("order not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.ServiceOrder{}, nil)

		err := f.svc.Cancel(testContext(), "missing-order")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
