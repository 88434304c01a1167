package dto

import (
	"innkeeper/internal/domains/serviceorder/model"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/taskflow"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateServiceOrderRequest struct {
	ReservationID string `json:"reservation_id" validate:"required,uuid"`
	RoomID        string `json:"room_id"        validate:"required,uuid"`
	Description   string `json:"description"    validate:"required,max=500"`
	PriceCents    int64  `json:"price_cents"    validate:"omitempty,min=0"`
}

func (c *CreateServiceOrderRequest) ToModel(user string) model.ServiceOrder {
	return model.ServiceOrder{
		ID:            uuid.NewString(),
		ReservationID: c.ReservationID,
		RoomID:        c.RoomID,
		Description:   c.Description,
		PriceCents:    c.PriceCents,
		Status:        taskflow.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AssignServiceOrderRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required,uuid"`
}

type CompleteServiceOrderRequest struct {
	ResolutionNotes string `json:"resolution_notes" validate:"omitempty,max=500"`
}

type ServiceOrderResponse struct {
	ID              string  `json:"id"`
	ReservationID   string  `json:"reservation_id"`
	RoomID          string  `json:"room_id"`
	Description     string  `json:"description"`
	PriceCents      int64   `json:"price_cents"`
	Status          string  `json:"status"`
	AssignedTo      *string `json:"assigned_to"`
	CompletedBy     *string `json:"completed_by"`
	CompletedAt     *string `json:"completed_at"`
	ResolutionNotes string  `json:"resolution_notes"`
	gDto.Metadata
}

func (r *ServiceOrderResponse) FromModel(mod model.ServiceOrder) {
	r.ID = mod.ID
	r.ReservationID = mod.ReservationID
	r.RoomID = mod.RoomID
	r.Description = mod.Description
	r.PriceCents = mod.PriceCents
	r.Status = mod.Status
	r.AssignedTo = mod.AssignedTo
	r.CompletedBy = mod.CompletedBy
	r.ResolutionNotes = mod.ResolutionNotes

	if mod.CompletedAt != nil {
		completedAt := timezone.Format(*mod.CompletedAt, constant.DateFormat)
		r.CompletedAt = &completedAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetServiceOrdersResponse struct {
	ServiceOrders []ServiceOrderResponse `json:"service_orders"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetServiceOrdersResponse) FromModels(models []model.ServiceOrder, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.ServiceOrders = make([]ServiceOrderResponse, len(models))
	for i, mod := range models {
		r.ServiceOrders[i].FromModel(mod)
	}
}
