package dto

import (
	"innkeeper/internal/domains/cleaning/model"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/taskflow"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateCleaningTaskRequest struct {
	RoomID string `json:"room_id" validate:"required,uuid"`
	Notes  string `json:"notes"   validate:"omitempty,max=500"`
}

func (c *CreateCleaningTaskRequest) ToModel(user string) model.CleaningTask {
	return model.CleaningTask{
		ID:     uuid.NewString(),
		RoomID: c.RoomID,
		Status: taskflow.StatusPending,
		Notes:  c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AssignCleaningTaskRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required,uuid"`
}

type CompleteCleaningTaskRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=500"`
}

type CleaningTaskResponse struct {
	ID          string  `json:"id"`
	RoomID      string  `json:"room_id"`
	Status      string  `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
	CompletedBy *string `json:"completed_by"`
	CompletedAt *string `json:"completed_at"`
	Notes       string  `json:"notes"`
	gDto.Metadata
}

func (r *CleaningTaskResponse) FromModel(mod model.CleaningTask) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.Status = mod.Status
	r.AssignedTo = mod.AssignedTo
	r.CompletedBy = mod.CompletedBy
	r.Notes = mod.Notes

	if mod.CompletedAt != nil {
		completedAt := timezone.Format(*mod.CompletedAt, constant.DateFormat)
		r.CompletedAt = &completedAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetCleaningTasksResponse struct {
	CleaningTasks []CleaningTaskResponse `json:"cleaning_tasks"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetCleaningTasksResponse) FromModels(models []model.CleaningTask, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.CleaningTasks = make([]CleaningTaskResponse, len(models))
	for i, mod := range models {
		r.CleaningTasks[i].FromModel(mod)
	}
}
