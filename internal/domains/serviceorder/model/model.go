package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "service_orders"
	EntityName = "service_order"

	FieldID              = "id"
	FieldReservationID   = "reservation_id"
	FieldRoomID          = "room_id"
	FieldDescription     = "description"
	FieldPriceCents      = "price_cents"
	FieldStatus          = "status"
	FieldAssignedTo      = "assigned_to"
	FieldCompletedBy     = "completed_by"
	FieldCompletedAt     = "completed_at"
	FieldResolutionNotes = "resolution_notes"
)

type ServiceOrder struct {
	ID              string     `db:"id"`
	ReservationID   string     `db:"reservation_id"`
	RoomID          string     `db:"room_id"`
	Description     string     `db:"description"`
	PriceCents      int64      `db:"price_cents"`
	Status          string     `db:"status"`
	AssignedTo      *string    `db:"assigned_to"`
	CompletedBy     *string    `db:"completed_by"`
	CompletedAt     *time.Time `db:"completed_at"`
	ResolutionNotes string     `db:"resolution_notes"`
	model.Metadata
}
