package domain

import "time"

// Coupon is the purchasable inventory unit. Exactly one company owns it, the
// title is globally unique, and Amount counts the remaining purchasable units.
// Amount never goes negative: a purchase is rejected once it reaches zero.
type Coupon struct {
	ID          int64     `json:"id" bson:"_id"`
	CompanyID   int64     `json:"company_id" bson:"company_id"`
	Title       string    `json:"title" bson:"title"`
	StartDate   time.Time `json:"start_date" bson:"start_date"`
	EndDate     time.Time `json:"end_date" bson:"end_date"`
	Category    int       `json:"category" bson:"category"`
	Amount      int       `json:"amount" bson:"amount"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
}
