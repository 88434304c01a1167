package dto

import (
	"mime/multipart"

	"innkeeper/internal/domains/room/model"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomNumber string                `json:"room_number"  validate:"required,max=20"`
	Floor      int                   `json:"floor"        validate:"omitempty,min=0"`
	RoomTypeID string                `json:"room_type_id" validate:"required,uuid"`
	PriceCents int64                 `json:"price_cents"  validate:"omitempty,min=0"`
	Status     string                `json:"status"       validate:"omitempty,oneof=available occupied reserved maintenance"`
	Photo      *multipart.FileHeader `json:"photo"        validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	PhotoFile  multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user string, photoURL string) model.Room {
	status := c.Status
	if status == constant.Empty {
		status = model.StatusAvailable
	}

	return model.Room{
		ID:         uuid.NewString(),
		RoomNumber: c.RoomNumber,
		Floor:      c.Floor,
		RoomTypeID: c.RoomTypeID,
		PriceCents: c.PriceCents,
		Status:     status,
		Photo:      photoURL,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	RoomNumber string                `db:"room_number"  json:"room_number"                                                          validate:"omitempty,max=20"`
	Floor      *int                  `db:"floor"        json:"floor"                                                                validate:"omitempty,min=0"`
	RoomTypeID string                `db:"room_type_id" json:"room_type_id"                                                         validate:"omitempty,uuid"`
	PriceCents *int64                `db:"price_cents"  json:"price_cents"                                                          validate:"omitempty,min=0"`
	Photo      *multipart.FileHeader `json:"photo"      validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	PhotoFile  multipart.File        `json:"-"`
}

type SetRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied reserved maintenance"`
}

type RoomResponse struct {
	ID            string  `json:"id"`
	RoomNumber    string  `json:"room_number"`
	Floor         int     `json:"floor"`
	RoomTypeID    string  `json:"room_type_id"`
	PriceCents    int64   `json:"price_cents"`
	Status        string  `json:"status"`
	NeedsCleaning bool    `json:"needs_cleaning"`
	LastCleanedAt *string `json:"last_cleaned_at"`
	LastCleanedBy *string `json:"last_cleaned_by"`
	Photo         string  `json:"photo"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.Floor = model.Floor
	r.RoomTypeID = model.RoomTypeID
	r.PriceCents = model.PriceCents
	r.Status = model.Status
	r.NeedsCleaning = model.NeedsCleaning
	r.Photo = model.Photo

	if model.LastCleanedAt != nil {
		cleanedAt := timezone.Format(*model.LastCleanedAt, constant.DateFormat)
		r.LastCleanedAt = &cleanedAt
	}

	r.LastCleanedBy = model.LastCleanedBy
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type NextAvailableDateResponse struct {
	RoomID        string `json:"room_id"`
	AvailableFrom string `json:"available_from"`
}
