package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "cleaning_tasks"
	EntityName = "cleaning_task"

	FieldID          = "id"
	FieldRoomID      = "room_id"
	FieldStatus      = "status"
	FieldAssignedTo  = "assigned_to"
	FieldCompletedBy = "completed_by"
	FieldCompletedAt = "completed_at"
	FieldNotes       = "notes"
)

type CleaningTask struct {
	ID          string     `db:"id"`
	RoomID      string     `db:"room_id"`
	Status      string     `db:"status"`
	AssignedTo  *string    `db:"assigned_to"`
	CompletedBy *string    `db:"completed_by"`
	CompletedAt *time.Time `db:"completed_at"`
	Notes       string     `db:"notes"`
	model.Metadata
}
