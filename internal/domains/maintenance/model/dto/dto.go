package dto

import (
	"innkeeper/internal/domains/maintenance/model"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/taskflow"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateMaintenanceRequest struct {
	RoomID      string `json:"room_id"      validate:"required,uuid"`
	Title       string `json:"title"        validate:"required,max=150"`
	Description string `json:"description"  validate:"omitempty,max=1000"`
	Priority    string `json:"priority"     validate:"omitempty,oneof=low medium high"`
	// TakeRoomOffline moves the room to maintenance immediately.
	TakeRoomOffline bool `json:"take_room_offline"`
}

func (c *CreateMaintenanceRequest) ToModel(user string) model.MaintenanceRequest {
	priority := c.Priority
	if priority == constant.Empty {
		priority = model.PriorityMedium
	}

	return model.MaintenanceRequest{
		ID:          uuid.NewString(),
		RoomID:      c.RoomID,
		Title:       c.Title,
		Description: c.Description,
		Priority:    priority,
		Status:      taskflow.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AssignMaintenanceRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required,uuid"`
}

type CompleteMaintenanceRequest struct {
	ResolutionNotes string `json:"resolution_notes" validate:"omitempty,max=1000"`
}

type MaintenanceResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	AssignedTo      *string `json:"assigned_to"`
	CompletedBy     *string `json:"completed_by"`
	CompletedAt     *string `json:"completed_at"`
	ResolutionNotes string  `json:"resolution_notes"`
	gDto.Metadata
}

func (r *MaintenanceResponse) FromModel(mod model.MaintenanceRequest) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.Title = mod.Title
	r.Description = mod.Description
	r.Priority = mod.Priority
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

type GetMaintenanceResponse struct {
	MaintenanceRequests []MaintenanceResponse `json:"maintenance_requests"`
	TotalPage           int                   `json:"total_page"`
	TotalData           int                   `json:"total_data"`
}

func (r *GetMaintenanceResponse) FromModels(models []model.MaintenanceRequest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.MaintenanceRequests = make([]MaintenanceResponse, len(models))
	for i, mod := range models {
		r.MaintenanceRequests[i].FromModel(mod)
	}
}
