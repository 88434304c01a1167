package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	"innkeeper/infras/otel/mocks"
	reservationMocks "innkeeper/internal/domains/reservation/mocks"
	reservationModel "innkeeper/internal/domains/reservation/model"
	roomMocks "innkeeper/internal/domains/room/mocks"
	"innkeeper/internal/domains/room/model"
	"innkeeper/internal/domains/room/service"
	roomtypeMocks "innkeeper/internal/domains/roomtype/mocks"
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
	repo            *roomMocks.MockRoom
	roomTypeRepo    *roomtypeMocks.MockRoomType
	reservationRepo *reservationMocks.MockReservation
	svc             service.Room
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	repo := roomMocks.NewMockRoom(ctrl)
	roomTypeRepo := roomtypeMocks.NewMockRoomType(ctrl)
	reservationRepo := reservationMocks.NewMockReservation(ctrl)

	cfg := &config.Config{}

	svc := service.New(repo, roomTypeRepo, reservationRepo, cfg, stubCache{}, mocks.NewOtel(), nil)

	return fixture{repo: repo, roomTypeRepo: roomTypeRepo, reservationRepo: reservationRepo, svc: svc}
}

func mustDate(t *testing.T, value string) time.Time {
	parsed, err := timezone.Parse(constant.DateOnlyFormat, value)
	assert.NoError(t, err)

	return parsed
}

func TestRoomService_FindAvailableOfType(t *testing.T) {
	checkIn := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	rooms := []model.Room{
		{ID: "room-id-1", RoomNumber: "101", RoomTypeID: "room-type-id-1", Status: model.StatusAvailable},
		{ID: "room-id-2", RoomNumber: "102", RoomTypeID: "room-type-id-1", Status: model.StatusAvailable},
	}

	t.Run("skips occupied rooms and returns the first free one", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(rooms, nil)

		f.reservationRepo.EXPECT().
			CountOverlapping(gomock.Any(), "room-id-1", checkIn, checkOut, "").
			Return(1, nil)

		f.reservationRepo.EXPECT().
			CountOverlapping(gomock.Any(), "room-id-2", checkIn, checkOut, "").
			Return(0, nil)

		res, err := f.svc.FindAvailableOfType(context.Background(), "room-type-id-1", checkIn, checkOut)

		assert.NoError(t, err)
		assert.Equal(t, "room-id-2", res.ID)
	})

	t.Run("no room of the type is free", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(rooms, nil)

		f.reservationRepo.EXPECT().
			CountOverlapping(gomock.Any(), gomock.Any(), checkIn, checkOut, "").
			Return(1, nil).
			Times(2)

		_, err := f.svc.FindAvailableOfType(context.Background(), "room-type-id-1", checkIn, checkOut)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_NextAvailableDate(t *testing.T) {
	stay := func(t *testing.T, checkIn, checkOut string) reservationModel.Reservation {
		return reservationModel.Reservation{
			ID:           "r-" + checkIn,
			Status:       reservationModel.StatusConfirmed,
			CheckInDate:  mustDate(t, checkIn),
			CheckOutDate: mustDate(t, checkOut),
		}
	}

	tests := []struct {
		name         string
		from         string
		reservations []reservationModel.Reservation
		want         string
	}{
		{
			name:         "no upcoming stays",
			from:         "2026-01-10",
			reservations: nil,
			want:         "2026-01-10",
		},
		{
			name: "single stay pushes the date to its check-out",
			from: "2026-01-10",
			reservations: []reservationModel.Reservation{
				stay(t, "2026-01-10", "2026-01-12"),
			},
			want: "2026-01-12",
		},
		{
			name: "back to back stays are walked through",
			from: "2026-01-10",
			reservations: []reservationModel.Reservation{
				stay(t, "2026-01-12", "2026-01-14"),
				stay(t, "2026-01-10", "2026-01-12"),
			},
			want: "2026-01-14",
		},
		{
			name: "a free night between stays stops the walk",
			from: "2026-01-10",
			reservations: []reservationModel.Reservation{
				stay(t, "2026-01-10", "2026-01-12"),
				stay(t, "2026-01-13", "2026-01-15"),
			},
			want: "2026-01-12",
		},
		{
			name: "stay already in progress",
			from: "2026-01-11",
			reservations: []reservationModel.Reservation{
				stay(t, "2026-01-10", "2026-01-13"),
			},
			want: "2026-01-13",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Exist(gomock.Any(), gomock.Any()).
				Return(true, nil)

			f.reservationRepo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(tt.reservations, nil)

			res, err := f.svc.NextAvailableDate(context.Background(), "room-id-1", mustDate(t, tt.from))

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res.AvailableFrom)
		})
	}

	t.Run("room not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := f.svc.NextAvailableDate(context.Background(), "missing-room", mustDate(t, "2026-01-10"))

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
