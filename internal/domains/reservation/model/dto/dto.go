package dto

import (
	"time"

	"innkeeper/internal/domains/reservation/model"
	"innkeeper/internal/domains/reservation/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	GuestID         string `json:"guest_id"         validate:"required,uuid"`
	RoomTypeID      string `json:"room_type_id"     validate:"required,uuid"`
	RoomID          string `json:"room_id"          validate:"omitempty,uuid"`
	CheckInDate     string `json:"check_in_date"    validate:"required"`
	CheckOutDate    string `json:"check_out_date"   validate:"required"`
	GuestCount      int    `json:"guest_count"      validate:"required,min=1"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
}

// ParseDates validates the date-only stay window.
func (c *CreateReservationRequest) ParseDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(constant.DateOnlyFormat, c.CheckInDate)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("invalid check-in date") // nolint:wrapcheck
	}

	checkOut, err = timezone.Parse(constant.DateOnlyFormat, c.CheckOutDate)
	if err != nil {
		return checkIn, checkOut, failure.BadRequestFromString("invalid check-out date") // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return checkIn, checkOut, failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
	}

	return checkIn, checkOut, nil
}

func (c *CreateReservationRequest) ToModel(user, status string, checkIn, checkOut time.Time, totalPriceCents int64) model.Reservation {
	var roomID *string
	if c.RoomID != constant.Empty {
		roomID = &c.RoomID
	}

	return model.Reservation{
		ID:                uuid.NewString(),
		ReservationNumber: model.NewReservationNumber(),
		GuestID:           c.GuestID,
		RoomTypeID:        c.RoomTypeID,
		RoomID:            roomID,
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		Status:            status,
		TotalPriceCents:   totalPriceCents,
		GuestCount:        c.GuestCount,
		SpecialRequests:   c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateReservationRequest struct {
	GuestCount      *int   `db:"guest_count"      json:"guest_count"      validate:"omitempty,min=1"`
	SpecialRequests string `db:"special_requests" json:"special_requests" validate:"omitempty,max=500"`
}

type AssignRoomRequest struct {
	RoomID string `json:"room_id" validate:"required,uuid"`
}

type CheckInRequest struct {
	RoomID string `json:"room_id" validate:"omitempty,uuid"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in_date"`
	CheckOut  string `json:"check_out_date"`
	Available bool   `json:"available"`
}

type ReservationResponse struct {
	ID                string  `json:"id"`
	ReservationNumber string  `json:"reservation_number"`
	GuestID           string  `json:"guest_id"`
	RoomTypeID        string  `json:"room_type_id"`
	RoomID            *string `json:"room_id"`
	CheckInDate       string  `json:"check_in_date"`
	CheckOutDate      string  `json:"check_out_date"`
	Nights            int     `json:"nights"`
	Status            string  `json:"status"`
	TotalPriceCents   int64   `json:"total_price_cents"`
	GuestCount        int     `json:"guest_count"`
	SpecialRequests   string  `json:"special_requests"`
	CheckedInBy       *string `json:"checked_in_by"`
	CheckedInAt       *string `json:"checked_in_at"`
	CheckedOutBy      *string `json:"checked_out_by"`
	CheckedOutAt      *string `json:"checked_out_at"`
	CancelledReason   *string `json:"cancelled_reason"`
	CancelledAt       *string `json:"cancelled_at"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(mod model.Reservation) {
	r.ID = mod.ID
	r.ReservationNumber = mod.ReservationNumber
	r.GuestID = mod.GuestID
	r.RoomTypeID = mod.RoomTypeID
	r.RoomID = mod.RoomID
	r.CheckInDate = timezone.Format(mod.CheckInDate, constant.DateOnlyFormat)
	r.CheckOutDate = timezone.Format(mod.CheckOutDate, constant.DateOnlyFormat)
	r.Nights = mod.Nights()
	r.Status = mod.Status
	r.TotalPriceCents = mod.TotalPriceCents
	r.GuestCount = mod.GuestCount
	r.SpecialRequests = mod.SpecialRequests
	r.CheckedInBy = mod.CheckedInBy
	r.CheckedInAt = formatTimePtr(mod.CheckedInAt)
	r.CheckedOutBy = mod.CheckedOutBy
	r.CheckedOutAt = formatTimePtr(mod.CheckedOutAt)
	r.CancelledReason = mod.CancelledReason
	r.CancelledAt = formatTimePtr(mod.CancelledAt)
	r.Metadata.FromModel(mod.Metadata)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type StatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

func (r *StatsResponse) FromCounts(counts []repository.StatusCount) {
	r.ByStatus = make(map[string]int, len(counts))
	for _, count := range counts {
		r.ByStatus[count.Status] = count.Total
		r.Total += count.Total
	}
}

type ForecastEntry struct {
	Date     string `json:"date"`
	CheckIns int    `json:"check_ins"`
}

type ForecastResponse struct {
	From    string          `json:"from"`
	Days    int             `json:"days"`
	Entries []ForecastEntry `json:"entries"`
}

func (r *ForecastResponse) FromCounts(from time.Time, days int, counts []repository.CheckInCount) {
	r.From = timezone.Format(from, constant.DateOnlyFormat)
	r.Days = days

	r.Entries = make([]ForecastEntry, len(counts))
	for i, count := range counts {
		r.Entries[i] = ForecastEntry{
			Date:     timezone.Format(count.CheckInDate, constant.DateOnlyFormat),
			CheckIns: count.Total,
		}
	}
}
