package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bnbadvisor/server/internal/helpers"
)

type PropertyCategory string

const (
	CategoryApartment PropertyCategory = "apartment"
	CategoryHouse     PropertyCategory = "house"
	CategoryVilla     PropertyCategory = "villa"
	CategoryCabin     PropertyCategory = "cabin"
	CategoryLoft      PropertyCategory = "loft"
	CategoryCondo     PropertyCategory = "condo"
	CategoryOther     PropertyCategory = "other"
)

func (c PropertyCategory) IsValid() bool {
	switch c {
	case CategoryApartment, CategoryHouse, CategoryVilla, CategoryCabin,
		CategoryLoft, CategoryCondo, CategoryOther:
		return true
	}
	return false
}

// Property is the canonical listing shape. The rating fields are denormalized
// aggregates owned by the rating service; nothing else writes them.
type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Category    PropertyCategory   `bson:"category" json:"category"`
	City        string             `bson:"city" json:"city" validate:"required"`

	PricePerNight float64 `bson:"price_per_night" json:"price_per_night" validate:"gte=0"`
	MaxGuests     int     `bson:"max_guests" json:"max_guests" validate:"gte=1"`
	Bedrooms      int     `bson:"bedrooms" json:"bedrooms" validate:"gte=0"`
	Bathrooms     int     `bson:"bathrooms" json:"bathrooms" validate:"gte=0"`

	Amenities []string `bson:"amenities" json:"amenities"`
	Images    []string `bson:"images" json:"images"`

	Owner primitive.ObjectID `bson:"owner" json:"owner"`

	Rating        float64 `bson:"rating" json:"rating"`
	ReviewCount   int     `bson:"review_count" json:"review_count"`
	RatingVersion int64   `bson:"rating_version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (p *Property) BeforeCreate() error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	if p.MaxGuests == 0 {
		p.MaxGuests = 1
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

func (p *Property) Sanitize() {
	p.Title = helpers.SanitizeText(p.Title)
	p.Description = helpers.SanitizeText(p.Description)
	p.City = helpers.SanitizeText(p.City)
	for i, a := range p.Amenities {
		p.Amenities[i] = helpers.SanitizeText(a)
	}
}

func (p Property) ValidateProperty() error {
	var fields []string
	if err := Validate.Struct(p); err != nil {
		fields = append(fields, validatorMessages(err)...)
	}
	if !p.Category.IsValid() {
		fields = append(fields, "category must be one of apartment, house, villa, cabin, loft, condo, other")
	}
	if p.Owner.IsZero() {
		fields = append(fields, "owner is required")
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}
