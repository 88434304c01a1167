package dto

import (
	"strings"

	"innkeeper/internal/domains/roomtype/model"
	"innkeeper/shared"
	gDto "innkeeper/shared/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomTypeRequest struct {
	Name           string   `json:"name"             validate:"required,max=100"`
	Capacity       int      `json:"capacity"         validate:"required,min=1"`
	BasePriceCents int64    `json:"base_price_cents" validate:"required,min=0"`
	Amenities      []string `json:"amenities"        validate:"omitempty,dive,max=50"`
	Description    string   `json:"description"      validate:"omitempty"`
}

func (c *CreateRoomTypeRequest) ToModel(user string) model.RoomType {
	return model.RoomType{
		ID:             uuid.NewString(),
		Name:           c.Name,
		Capacity:       c.Capacity,
		BasePriceCents: c.BasePriceCents,
		Amenities:      strings.Join(c.Amenities, ","),
		Description:    c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomTypeRequest struct {
	Name           string `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Capacity       *int   `db:"capacity"         json:"capacity"         validate:"omitempty,min=1"`
	BasePriceCents *int64 `db:"base_price_cents" json:"base_price_cents" validate:"omitempty,min=0"`
	Amenities      string `db:"amenities"        json:"amenities"        validate:"omitempty"`
	Description    string `db:"description"      json:"description"      validate:"omitempty"`
}

type RoomTypeResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Capacity       int      `json:"capacity"`
	BasePriceCents int64    `json:"base_price_cents"`
	Amenities      []string `json:"amenities"`
	Description    string   `json:"description"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.ID = model.ID
	r.Name = model.Name
	r.Capacity = model.Capacity
	r.BasePriceCents = model.BasePriceCents
	r.Description = model.Description

	if model.Amenities != "" {
		r.Amenities = strings.Split(model.Amenities, ",")
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
