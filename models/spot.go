package models

import (
	"time"
)

// MealOption describes one meal a camping spot serves.
type MealOption struct {
	Available       bool    `json:"available" bson:"available"`
	Price           float64 `json:"price" bson:"price"`
	Description     string  `json:"description,omitempty" bson:"description,omitempty"`
	Timings         string  `json:"timings,omitempty" bson:"timings,omitempty"`
	IsComplimentary bool    `json:"isComplimentary" bson:"isComplimentary"`
}

type MealOptions struct {
	Breakfast MealOption `json:"breakfast" bson:"breakfast"`
	Lunch     MealOption `json:"lunch" bson:"lunch"`
	Dinner    MealOption `json:"dinner" bson:"dinner"`
}

// Availability marks a single calendar date.
type Availability struct {
	Date     string `json:"date" bson:"date"`
	IsBooked bool   `json:"isBooked" bson:"isBooked"`
}

// SpotDetails is the descriptive content of a listing, drafted by its vendor.
// The lifecycle workflow carries it around without looking inside.
type SpotDetails struct {
	Name                   string         `json:"name" bson:"name" validate:"notblank"`
	Location               string         `json:"location" bson:"location" validate:"notblank"`
	Price                  float64        `json:"price" bson:"price" validate:"gt=0"`
	Description            string         `json:"description" bson:"description" validate:"notblank"`
	Category               string         `json:"category,omitempty" bson:"category,omitempty"`
	IsPetFriendly          bool           `json:"isPetFriendly" bson:"isPetFriendly"`
	IsChildFriendly        bool           `json:"isChildFriendly" bson:"isChildFriendly"`
	Latitude               float64        `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude              float64        `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Discount               float64        `json:"discount,omitempty" bson:"discount,omitempty"`
	Facilities             []string       `json:"facilities,omitempty" bson:"facilities,omitempty"`
	Tags                   []string       `json:"tags,omitempty" bson:"tags,omitempty"`
	BestSeasonToVisit      []string       `json:"bestSeasonToVisit,omitempty" bson:"bestSeasonToVisit,omitempty"`
	Amenities              string         `json:"amenities,omitempty" bson:"amenities,omitempty"`
	AllowBBQ               bool           `json:"allowBBQ" bson:"allowBBQ"`
	AllowCampfires         bool           `json:"allowCampfires" bson:"allowCampfires"`
	HasElectricity         bool           `json:"hasElectricity" bson:"hasElectricity"`
	HasRunningWater        bool           `json:"hasRunningWater" bson:"hasRunningWater"`
	FirewoodProvided       bool           `json:"firewoodProvided" bson:"firewoodProvided"`
	ParkingAvailable       bool           `json:"parkingAvailable" bson:"parkingAvailable"`
	WheelchairAccessible   bool           `json:"wheelchairAccessible" bson:"wheelchairAccessible"`
	AcceptedPaymentMethods []string       `json:"acceptedPaymentMethods,omitempty" bson:"acceptedPaymentMethods,omitempty"`
	NumberOfTentsAllowed   int            `json:"numberOfTentsAllowed,omitempty" bson:"numberOfTentsAllowed,omitempty"`
	MaxGuests              int            `json:"maxGuests,omitempty" bson:"maxGuests,omitempty"`
	EmergencyContact       string         `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	CheckInTime            string         `json:"checkInTime,omitempty" bson:"checkInTime,omitempty"`
	CheckOutTime           string         `json:"checkOutTime,omitempty" bson:"checkOutTime,omitempty"`
	Availability           []Availability `json:"availability,omitempty" bson:"availability,omitempty"`
	MealOptions            *MealOptions   `json:"mealOptions,omitempty" bson:"mealOptions,omitempty"`
	MinimumNights          int            `json:"minimumNights,omitempty" bson:"minimumNights,omitempty"`
	ExtraCharges           float64        `json:"extraCharges,omitempty" bson:"extraCharges,omitempty"`
	DistanceFromCity       float64        `json:"distanceFromCity,omitempty" bson:"distanceFromCity,omitempty"`
	Rules                  []string       `json:"rules,omitempty" bson:"rules,omitempty"`
	ImageURLs              []string       `json:"imageUrls,omitempty" bson:"imageUrls,omitempty"`
	VideoURLs              []string       `json:"videoUrls,omitempty" bson:"videoUrls,omitempty"`
	ThumbnailImage         string         `json:"thumbnailImage,omitempty" bson:"thumbnailImage,omitempty"`
	InstagramHandle        string         `json:"instagramHandle,omitempty" bson:"instagramHandle,omitempty"`
	FacebookPage           string         `json:"facebookPage,omitempty" bson:"facebookPage,omitempty"`
	CancellationPolicy     string         `json:"cancellationPolicy,omitempty" bson:"cancellationPolicy,omitempty"`
	RefundPolicy           string         `json:"refundPolicy,omitempty" bson:"refundPolicy,omitempty"`
	PetPolicy              string         `json:"petPolicy,omitempty" bson:"petPolicy,omitempty"`
}

// Spot is a live camping-spot listing as stored by the backend.
type Spot struct {
	ID          string `json:"_id" bson:"_id"`
	VendorID    string `json:"vendorId,omitempty" bson:"vendorId,omitempty"`
	SpotDetails `bson:",inline"`
	Status      string     `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
