package model

import (
	"time"

	"innkeeper/shared/model"
)

const (
	TableName  = "feedback"
	EntityName = "feedback"

	FieldID            = "id"
	FieldReservationID = "reservation_id"
	FieldRating        = "rating"
	FieldComment       = "comment"
	FieldStatus        = "status"
	FieldResolvedBy    = "resolved_by"
	FieldResolvedAt    = "resolved_at"
	FieldResponse      = "response"
)

const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
)

type Feedback struct {
	ID            string     `db:"id"`
	ReservationID string     `db:"reservation_id"`
	Rating        int        `db:"rating"`
	Comment       string     `db:"comment"`
	Status        string     `db:"status"`
	ResolvedBy    *string    `db:"resolved_by"`
	ResolvedAt    *time.Time `db:"resolved_at"`
	Response      string     `db:"response"`
	model.Metadata
}
