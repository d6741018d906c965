package models

import "time"

type ListingStatus string

const (
	StatusActive   ListingStatus = "active"
	StatusInactive ListingStatus = "inactive"
	StatusPending  ListingStatus = "pending"
	StatusRented   ListingStatus = "rented"
	StatusExchange ListingStatus = "exchange"
	StatusGift     ListingStatus = "gift"
	StatusDraft    ListingStatus = "draft"
)

// LiveStatuses is the status group an owner sees as "active": priced rentals
// plus the two non-priced listing kinds.
var LiveStatuses = []ListingStatus{StatusActive, StatusExchange, StatusGift}

func ValidStatus(s string) bool {
	switch ListingStatus(s) {
	case StatusActive, StatusInactive, StatusPending, StatusRented, StatusExchange, StatusGift, StatusDraft:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyRSD Currency = "RSD"
)

type Image struct {
	URL   string `bson:"url" json:"url"`
	Alt   string `bson:"alt,omitempty" json:"alt,omitempty"`
	Order int    `bson:"order" json:"order"`
}

type Location struct {
	Country string    `bson:"country" json:"country"`
	City    string    `bson:"city" json:"city"`
	Address string    `bson:"address,omitempty" json:"address,omitempty"`
	Coords  []float64 `bson:"coords,omitempty" json:"coords,omitempty"`
}

type Listing struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Slug        string        `bson:"slug" json:"slug"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID  string        `bson:"categoryId" json:"categoryId"`
	Price       float64       `bson:"price" json:"price"`
	Currency    Currency      `bson:"currency" json:"currency"`
	Status      ListingStatus `bson:"status" json:"status"`
	Images      []Image       `bson:"images,omitempty" json:"images,omitempty"`
	Options     []string      `bson:"options,omitempty" json:"options,omitempty"`
	OwnerID     string        `bson:"ownerId" json:"ownerId"`
	IsFeatured  bool          `bson:"isFeatured" json:"isFeatured"`
	Views       int64         `bson:"views" json:"views"`
	Favorites   int64         `bson:"favorites" json:"favorites"`
	Location    Location      `bson:"location" json:"location"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
