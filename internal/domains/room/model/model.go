package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldRoomNumber    = "room_number"
	FieldFloor         = "floor"
	FieldRoomTypeID    = "room_type_id"
	FieldPriceCents    = "price_cents"
	FieldStatus        = "status"
	FieldNeedsCleaning = "needs_cleaning"
	FieldLastCleanedAt = "last_cleaned_at"
	FieldLastCleanedBy = "last_cleaned_by"
	FieldPhoto         = "photo"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusReserved    = "reserved"
	StatusMaintenance = "maintenance"
)

type Room struct {
	ID            string     `db:"id"`
	RoomNumber    string     `db:"room_number"`
	Floor         int        `db:"floor"`
	RoomTypeID    string     `db:"room_type_id"`
	PriceCents    int64      `db:"price_cents"`
	Status        string     `db:"status"`
	NeedsCleaning bool       `db:"needs_cleaning"`
	LastCleanedAt *time.Time `db:"last_cleaned_at"`
	LastCleanedBy *string    `db:"last_cleaned_by"`
	Photo         string     `db:"photo"`
	model.Metadata
}
