package model

import (
	"strings"
	"time"

	"innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID                = "id"
	FieldReservationNumber = "reservation_number"
	FieldGuestID           = "guest_id"
	FieldRoomTypeID        = "room_type_id"
	FieldRoomID            = "room_id"
	FieldCheckInDate       = "check_in_date"
	FieldCheckOutDate      = "check_out_date"
	FieldStatus            = "status"
	FieldTotalPriceCents   = "total_price_cents"
	FieldGuestCount        = "guest_count"
	FieldSpecialRequests   = "special_requests"
	FieldCheckedInBy       = "checked_in_by"
	FieldCheckedInAt       = "checked_in_at"
	FieldCheckedOutBy      = "checked_out_by"
	FieldCheckedOutAt      = "checked_out_at"
	FieldCancelledReason   = "cancelled_reason"
	FieldCancelledAt       = "cancelled_at"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
)

type Reservation struct {
	ID                string     `db:"id"`
	ReservationNumber string     `db:"reservation_number"`
	GuestID           string     `db:"guest_id"`
	RoomTypeID        string     `db:"room_type_id"`
	RoomID            *string    `db:"room_id"`
	CheckInDate       time.Time  `db:"check_in_date"`
	CheckOutDate      time.Time  `db:"check_out_date"`
	Status            string     `db:"status"`
	TotalPriceCents   int64      `db:"total_price_cents"`
	GuestCount        int        `db:"guest_count"`
	SpecialRequests   string     `db:"special_requests"`
	CheckedInBy       *string    `db:"checked_in_by"`
	CheckedInAt       *time.Time `db:"checked_in_at"`
	CheckedOutBy      *string    `db:"checked_out_by"`
	CheckedOutAt      *time.Time `db:"checked_out_at"`
	CancelledReason   *string    `db:"cancelled_reason"`
	CancelledAt       *time.Time `db:"cancelled_at"`
	model.Metadata
}

// IsTerminal reports whether no further lifecycle transitions are allowed.
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCheckedOut || r.Status == StatusCancelled
}

// Nights returns the number of nights between check-in and check-out, counted
// as calendar days so a stay spanning a DST changeover still bills every night.
func (r *Reservation) Nights() int {
	return timezone.DaysBetween(r.CheckInDate, r.CheckOutDate)
}

// Overlaps reports whether two half-open [checkIn, checkOut) windows share at
// least one night. The repository's overlap query and the exclusion constraint
// on reservations evaluate the same comparison, so a checkout never collides
// with a check-in on the same day.
func Overlaps(aCheckIn, aCheckOut, bCheckIn, bCheckOut time.Time) bool {
	return aCheckIn.Before(bCheckOut) && bCheckIn.Before(aCheckOut)
}

// NewReservationNumber generates a human-readable unique booking reference.
func NewReservationNumber() string {
	return "RSV-" + strings.ToUpper(uuid.NewString()[:8])
}
