package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	"innkeeper/infras/metrics"
	"innkeeper/infras/otel/mocks"
	reservationMocks "innkeeper/internal/domains/reservation/mocks"
	"innkeeper/internal/domains/reservation/model"
	"innkeeper/internal/domains/reservation/model/dto"
	"innkeeper/internal/domains/reservation/repository"
	"innkeeper/internal/domains/reservation/service"
	roomMocks "innkeeper/internal/domains/room/mocks"
	roomModel "innkeeper/internal/domains/room/model"
	roomtypeMocks "innkeeper/internal/domains/roomtype/mocks"
	roomtypeModel "innkeeper/internal/domains/roomtype/model"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"
)

type stubCache struct{}

func (stubCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (stubCache) Get(_ context.Context, _ string, _ any) error         { return cache.Nil }
func (stubCache) Delete(_ context.Context, _ string) error             { return nil }
func (stubCache) Clear(_ context.Context, _ string) error              { return nil }

type fixture struct {
	repo         *reservationMocks.MockReservation
	roomRepo     *roomMocks.MockRoom
	roomTypeRepo *roomtypeMocks.MockRoomType
	svc          service.Reservation
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	repo := reservationMocks.NewMockReservation(ctrl)
	roomRepo := roomMocks.NewMockRoom(ctrl)
	roomTypeRepo := roomtypeMocks.NewMockRoomType(ctrl)

	cfg := &config.Config{}
	cfg.Billing.MaxGuestsPerBooking = 6

	svc := service.New(repo, roomRepo, roomTypeRepo, nil, cfg, stubCache{}, mocks.NewOtel(), metrics.Get())

	return fixture{repo: repo, roomRepo: roomRepo, roomTypeRepo: roomTypeRepo, svc: svc}
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-id-1")
}

func TestReservationService_Create(t *testing.T) {
	roomType := roomtypeModel.RoomType{
		ID:             "room-type-id-1",
		Capacity:       2,
		BasePriceCents: 15000,
	}

	tests := []struct {
		name      string
		req       dto.CreateReservationRequest
		setupMock func(f fixture)
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.ReservationResponse)
	}{
		{
			name: "pending reservation without a room",
			req: dto.CreateReservationRequest{
				GuestID:      "guest-id-1",
				RoomTypeID:   roomType.ID,
				CheckInDate:  "2026-01-10",
				CheckOutDate: "2026-01-12",
				GuestCount:   2,
			},
			setupMock: func(f fixture) {
				f.roomTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomType, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, reservation model.Reservation) error {
						assert.Equal(t, model.StatusPending, reservation.Status)
						assert.Nil(t, reservation.RoomID)
						assert.Equal(t, int64(30000), reservation.TotalPriceCents)

						return nil
					})
			},
			check: func(t *testing.T, res dto.ReservationResponse) {
				assert.Equal(t, model.StatusPending, res.Status)
				assert.Equal(t, 2, res.Nights)
				assert.NotEmpty(t, res.ReservationNumber)
			},
		},
		{
			name: "check-out must be after check-in",
			req: dto.CreateReservationRequest{
				GuestID:      "guest-id-1",
				RoomTypeID:   roomType.ID,
				CheckInDate:  "2026-01-12",
				CheckOutDate: "2026-01-12",
				GuestCount:   2,
			},
			setupMock: func(f fixture) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "room type not found",
			req: dto.CreateReservationRequest{
				GuestID:      "guest-id-1",
				RoomTypeID:   "missing-room-type",
				CheckInDate:  "2026-01-10",
				CheckOutDate: "2026-01-12",
				GuestCount:   2,
			},
			setupMock: func(f fixture) {
				f.roomTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomtypeModel.RoomType{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "guest count exceeds room type capacity",
			req: dto.CreateReservationRequest{
				GuestID:      "guest-id-1",
				RoomTypeID:   roomType.ID,
				CheckInDate:  "2026-01-10",
				CheckOutDate: "2026-01-12",
				GuestCount:   3,
			},
			setupMock: func(f fixture) {
				f.roomTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomType, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "requested room is under maintenance",
			req: dto.CreateReservationRequest{
				GuestID:      "guest-id-1",
				RoomTypeID:   roomType.ID,
				RoomID:       "room-id-1",
				CheckInDate:  "2026-01-10",
				CheckOutDate: "2026-01-12",
				GuestCount:   2,
			},
			setupMock: func(f fixture) {
				f.roomTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomType, nil)

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{
						ID:         "room-id-1",
						RoomTypeID: roomType.ID,
						Status:     roomModel.StatusMaintenance,
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "requested room belongs to another room type",
			req: dto.CreateReservationRequest{
				GuestID:      "guest-id-1",
				RoomTypeID:   roomType.ID,
				RoomID:       "room-id-1",
				CheckInDate:  "2026-01-10",
				CheckOutDate: "2026-01-12",
				GuestCount:   2,
			},
			setupMock: func(f fixture) {
				f.roomTypeRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomType, nil)

				f.roomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{
						ID:         "room-id-1",
						RoomTypeID: "other-room-type",
						Status:     roomModel.StatusAvailable,
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(testContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)

			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestReservationService_CreateGuestCap(t *testing.T) {
	f := newFixture(t)

	f.roomTypeRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomtypeModel.RoomType{
			ID:             "room-type-id-1",
			Capacity:       10,
			BasePriceCents: 15000,
		}, nil)

	_, err := f.svc.Create(testContext(), dto.CreateReservationRequest{
		GuestID:      "guest-id-1",
		RoomTypeID:   "room-type-id-1",
		CheckInDate:  "2026-01-10",
		CheckOutDate: "2026-01-12",
		GuestCount:   7,
	})

	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestReservationService_CheckAvailability(t *testing.T) {
	checkIn, err := timezone.Parse(constant.DateOnlyFormat, "2026-01-10")
	assert.NoError(t, err)
	checkOut, err := timezone.Parse(constant.DateOnlyFormat, "2026-01-12")
	assert.NoError(t, err)

	t.Run("room is free for the window", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			CountOverlapping(gomock.Any(), "room-id-1", checkIn, checkOut, "").
			Return(0, nil)

		res, err := f.svc.CheckAvailability(testContext(), "room-id-1", checkIn, checkOut, "")

		assert.NoError(t, err)
		assert.True(t, res.Available)
		assert.Equal(t, "2026-01-10", res.CheckIn)
		assert.Equal(t, "2026-01-12", res.CheckOut)
	})

	t.Run("overlapping stay blocks the window", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			CountOverlapping(gomock.Any(), "room-id-1", checkIn, checkOut, "").
			Return(1, nil)

		res, err := f.svc.CheckAvailability(testContext(), "room-id-1", checkIn, checkOut, "")

		assert.NoError(t, err)
		assert.False(t, res.Available)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CheckAvailability(testContext(), "room-id-1", checkOut, checkIn, "")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("room not found", func(t *testing.T) {
		f := newFixture(t)

		f.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := f.svc.CheckAvailability(testContext(), "missing-room", checkIn, checkOut, "")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReservationService_CheckInConflicts(t *testing.T) {
	roomID := "room-id-1"

	tests := []struct {
		name        string
		reservation model.Reservation
		wantCode    int
	}{
		{
			name:        "already checked in",
			reservation: model.Reservation{ID: "r1", Status: model.StatusCheckedIn, RoomID: &roomID},
			wantCode:    http.StatusConflict,
		},
		{
			name:        "already checked out",
			reservation: model.Reservation{ID: "r1", Status: model.StatusCheckedOut, RoomID: &roomID},
			wantCode:    http.StatusConflict,
		},
		{
			name:        "cancelled",
			reservation: model.Reservation{ID: "r1", Status: model.StatusCancelled, RoomID: &roomID},
			wantCode:    http.StatusConflict,
		},
		{
			name:        "no room assigned",
			reservation: model.Reservation{ID: "r1", Status: model.StatusPending},
			wantCode:    http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.reservation, nil)

			err := f.svc.CheckIn(testContext(), "r1", dto.CheckInRequest{})

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestReservationService_CheckOutConflicts(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "pending cannot check out", status: model.StatusPending},
		{name: "confirmed cannot check out", status: model.StatusConfirmed},
		{name: "checked out cannot check out twice", status: model.StatusCheckedOut},
		{name: "cancelled cannot check out", status: model.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(model.Reservation{ID: "r1", Status: tt.status}, nil)

			err := f.svc.CheckOut(testContext(), "r1")

			assert.Error(t, err)
			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		})
	}
}

func TestReservationService_CancelConflicts(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "checked out cannot be cancelled", status: model.StatusCheckedOut},
		{name: "cancelled cannot be cancelled twice", status: model.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(model.Reservation{ID: "r1", Status: tt.status}, nil)

			err := f.svc.Cancel(testContext(), "r1", dto.CancelReservationRequest{Reason: "change of plans"})

			assert.Error(t, err)
			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		})
	}
}

func TestReservationService_AssignRoomConflicts(t *testing.T) {
	t.Run("terminal reservations cannot change rooms", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "r1", Status: model.StatusCancelled}, nil)

		err := f.svc.AssignRoom(testContext(), "r1", dto.AssignRoomRequest{RoomID: "room-id-1"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("room type mismatch", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "r1", Status: model.StatusPending, RoomTypeID: "room-type-id-1"}, nil)

		f.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(roomModel.Room{ID: "room-id-1", RoomTypeID: "other-room-type"}, nil)

		err := f.svc.AssignRoom(testContext(), "r1", dto.AssignRoomRequest{RoomID: "room-id-1"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestReservationService_Delete(t *testing.T) {
	t.Run("active reservations cannot be deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "r1", Status: model.StatusCheckedIn}, nil)

		err := f.svc.Delete(testContext(), "r1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("cancelled reservation is deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "r1", Status: model.StatusCancelled}, nil)

		f.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, f.svc.Delete(testContext(), "r1"))
	})
}

func TestReservationService_Stats(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		CountByStatus(gomock.Any()).
		Return([]repository.StatusCount{
			{Status: model.StatusPending, Total: 3},
			{Status: model.StatusConfirmed, Total: 2},
			{Status: model.StatusCheckedIn, Total: 1},
		}, nil)

	res, err := f.svc.Stats(testContext())

	assert.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 3, res.ByStatus[model.StatusPending])
	assert.Equal(t, 1, res.ByStatus[model.StatusCheckedIn])
}

func TestReservationService_Forecast(t *testing.T) {
	from, err := timezone.Parse(constant.DateOnlyFormat, "2026-01-10")
	assert.NoError(t, err)

	t.Run("non-positive window is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Forecast(testContext(), from, 0)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("counts upcoming check-ins per day", func(t *testing.T) {
		f := newFixture(t)

		day1, _ := timezone.Parse(constant.DateOnlyFormat, "2026-01-10")
		day2, _ := timezone.Parse(constant.DateOnlyFormat, "2026-01-11")

		f.repo.EXPECT().
			CountByCheckInDate(gomock.Any(), from, from.AddDate(0, 0, 7)).
			Return([]repository.CheckInCount{
				{CheckInDate: day1, Total: 2},
				{CheckInDate: day2, Total: 1},
			}, nil)

		res, err := f.svc.Forecast(testContext(), from, 7)

		assert.NoError(t, err)
		assert.Equal(t, "2026-01-10", res.From)
		assert.Equal(t, 7, res.Days)
		assert.Len(t, res.Entries, 2)
		assert.Equal(t, 2, res.Entries[0].CheckIns)
	})
}
