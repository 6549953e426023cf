package model

import (
	"fmt"
	"time"
)

// AccommodationType is the closed set of lodging kinds.
type AccommodationType string

const (
	AccommodationHouse        AccommodationType = "house"
	AccommodationApartment    AccommodationType = "apartment"
	AccommodationCondo        AccommodationType = "condo"
	AccommodationVacationHome AccommodationType = "vacation_home"
)

func ParseAccommodationType(s string) (AccommodationType, error) {
	switch AccommodationType(s) {
	case AccommodationHouse, AccommodationApartment, AccommodationCondo, AccommodationVacationHome:
		return AccommodationType(s), nil
	}
	return "", fmt.Errorf("unknown accommodation type %q", s)
}

type Accommodation struct {
	ID           string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Type         AccommodationType `json:"type" bson:"type" validate:"required,oneof=house apartment condo vacation_home"`
	Address      string            `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Size         string            `json:"size" bson:"size" validate:"required,min=1,max=50"`
	Amenities    []string          `json:"amenities" bson:"amenities" validate:"omitempty,dive,min=1,max=60"`
	DailyRate    float64           `json:"daily_rate" bson:"daily_rate" validate:"required,gt=0"`
	Availability int               `json:"availability" bson:"availability" validate:"min=0"`
	IsDeleted    bool              `json:"-" bson:"is_deleted"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// AccommodationUpdate carries the mutable accommodation fields. Availability
// is a pointer so zero can be set explicitly (an accommodation taken off the
// market keeps existing bookings but accepts no new ones).
type AccommodationUpdate struct {
	Address      string    `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Size         string    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Amenities    *[]string `json:"amenities,omitempty" validate:"omitempty,dive,min=1,max=60"`
	DailyRate    *float64  `json:"daily_rate,omitempty" validate:"omitempty,gt=0"`
	Availability *int      `json:"availability,omitempty" validate:"omitempty,min=0"`
}
