package domain

// Company owns coupons and manages them through the COMPANY role.
// The name is globally unique.
type Company struct {
	ID           int64  `json:"id" bson:"_id"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
}
