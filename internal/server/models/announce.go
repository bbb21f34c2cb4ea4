// Package models contains the plain data records persisted by the server.
package models

// Category classifies an announce.
type Category string

const (
	CategorySale    Category = "SALE"
	CategoryRental  Category = "RENTAL"
	CategoryService Category = "SERVICE"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySale, CategoryRental, CategoryService:
		return true
	}
	return false
}

// City is the closed set of cities an announce can be placed in.
type City string

const (
	CityYaounde City = "YAOUNDE"
	CityDouala  City = "DOUALA"
	CityDschang City = "DSCHANG"
)

func (c City) Valid() bool {
	switch c {
	case CityYaounde, CityDouala, CityDschang:
		return true
	}
	return false
}

// Announce is a classified listing. OwnerID is set at creation time and is
// immutable afterwards.
type Announce struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Category    Category `json:"type"`
	Price       *int64   `json:"price,omitempty"`
	Description string   `json:"description"`
	City        City     `json:"city"`
	District    *string  `json:"district,omitempty"`
	Phone       string   `json:"phone"`
	Email       *string  `json:"email,omitempty"`
	Images      []string `json:"images"`
	OwnerID     int64    `json:"ownerId"`
	Owner       *User    `json:"owner,omitempty"`
}
