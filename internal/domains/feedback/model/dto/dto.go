package dto

import (
	"innkeeper/internal/domains/feedback/model"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateFeedbackRequest struct {
	ReservationID string `json:"reservation_id" validate:"required,uuid"`
	Rating        int    `json:"rating"         validate:"required,min=1,max=5"`
	Comment       string `json:"comment"        validate:"omitempty,max=1000"`
}

func (c *CreateFeedbackRequest) ToModel(user string) model.Feedback {
	return model.Feedback{
		ID:            uuid.NewString(),
		ReservationID: c.ReservationID,
		Rating:        c.Rating,
		Comment:       c.Comment,
		Status:        model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ResolveFeedbackRequest struct {
	Response string `json:"response" validate:"required,max=1000"`
}

type FeedbackResponse struct {
	ID            string  `json:"id"`
	ReservationID string  `json:"reservation_id"`
	Rating        int     `json:"rating"`
	Comment       string  `json:"comment"`
	Status        string  `json:"status"`
	ResolvedBy    *string `json:"resolved_by"`
	ResolvedAt    *string `json:"resolved_at"`
	Response      string  `json:"response"`
	gDto.Metadata
}

func (r *FeedbackResponse) FromModel(mod model.Feedback) {
	r.ID = mod.ID
	r.ReservationID = mod.ReservationID
	r.Rating = mod.Rating
	r.Comment = mod.Comment
	r.Status = mod.Status
	r.ResolvedBy = mod.ResolvedBy
	r.Response = mod.Response

	if mod.ResolvedAt != nil {
		resolvedAt := timezone.Format(*mod.ResolvedAt, constant.DateFormat)
		r.ResolvedAt = &resolvedAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetFeedbackResponse struct {
	Feedback  []FeedbackResponse `json:"feedback"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetFeedbackResponse) FromModels(models []model.Feedback, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Feedback = make([]FeedbackResponse, len(models))
	for i, mod := range models {
		r.Feedback[i].FromModel(mod)
	}
}
