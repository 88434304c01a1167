package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"innkeeper/config"
	"innkeeper/infras/otel/mocks"
	feedbackMocks "innkeeper/internal/domains/feedback/mocks"
	"innkeeper/internal/domains/feedback/model"
	"innkeeper/internal/domains/feedback/model/dto"
	"innkeeper/internal/domains/feedback/service"
	reservationMocks "innkeeper/internal/domains/reservation/mocks"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	"innkeeper/shared/failure"
)

type stubCache struct{}

func (stubCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (stubCache) Get(_ context.Context, _ string, _ any) error         { return cache.Nil }
func (stubCache) Delete(_ context.Context, _ string) error             { return nil }
func (stubCache) Clear(_ context.Context, _ string) error              { return nil }

func newService(t *testing.T) (service.Feedback, *feedbackMocks.MockFeedback, *reservationMocks.MockReservation) {
	ctrl := gomock.NewController(t)

	repo := feedbackMocks.NewMockFeedback(ctrl)
	reservationRepo := reservationMocks.NewMockReservation(ctrl)

	svc := service.New(repo, reservationRepo, &config.Config{}, stubCache{}, mocks.NewOtel())

	return svc, repo, reservationRepo
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-id-1")
}

func TestFeedbackService_Create(t *testing.T) {
	req := dto.CreateFeedbackRequest{
		ReservationID: "reservation-id-1",
		Rating:        4,
		Comment:       "great stay",
	}

	t.Run("successful feedback", func(t *testing.T) {
		svc, repo, reservationRepo := newService(t)

		reservationRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, feedback model.Feedback) error {
				assert.Equal(t, 4, feedback.Rating)
				assert.Equal(t, model.StatusPending, feedback.Status)

				return nil
			})

		assert.NoError(t, svc.Create(testContext(), req))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc, _, reservationRepo := newService(t)

		reservationRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Create(testContext(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestFeedbackService_Resolve(t *testing.T) {
	t.Run("pending feedback is resolved with a response", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Feedback{ID: "feedback-id-1", Status: model.StatusPending}, nil)

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusResolved, fields[model.FieldStatus])
				assert.Equal(t, "sorry about the noise", fields[model.FieldResponse])

				return nil
			})

		err := svc.Resolve(testContext(), "feedback-id-1", dto.ResolveFeedbackRequest{Response: "sorry about the noise"})

		assert.NoError(t, err)
	})

	t.Run("already resolved", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Feedback{ID: "feedback-id-1", Status: model.StatusResolved}, nil)

		err := svc.Resolve(testContext(), "feedback-id-1", dto.ResolveFeedbackRequest{Response: "again"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("feedback not found", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Feedback{}, nil)

		err := svc.Resolve(testContext(), "missing-feedback", dto.ResolveFeedbackRequest{Response: "hello"})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
