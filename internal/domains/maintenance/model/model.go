package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "maintenance_requests"
	EntityName = "maintenance_request"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldPriority        = "priority"
	FieldStatus          = "status"
	FieldAssignedTo      = "assigned_to"
	FieldCompletedBy     = "completed_by"
	FieldCompletedAt     = "completed_at"
	FieldResolutionNotes = "resolution_notes"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type MaintenanceRequest struct {
	ID              string     `db:"id"`
	RoomID          string     `db:"room_id"`
	Title           string     `db:"title"`
	Description     string     `db:"description"`
	Priority        string     `db:"priority"`
	Status          string     `db:"status"`
	AssignedTo      *string    `db:"assigned_to"`
	CompletedBy     *string    `db:"completed_by"`
	CompletedAt     *time.Time `db:"completed_at"`
	ResolutionNotes string     `db:"resolution_notes"`
	model.Metadata
}
