package model

import "innkeeper/shared/model"

const (
	TableName  = "room_types"
	EntityName = "room_type"

	FieldID             = "id"
	FieldName           = "name"
	FieldCapacity       = "capacity"
	FieldBasePriceCents = "base_price_cents"
	FieldAmenities      = "amenities"
	FieldDescription    = "description"
)

type RoomType struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	Capacity       int    `db:"capacity"`
	BasePriceCents int64  `db:"base_price_cents"`
	Amenities      string `db:"amenities"`
	Description    string `db:"description"`
	model.Metadata
}
