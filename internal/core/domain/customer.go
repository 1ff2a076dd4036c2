package domain

// Customer purchases coupons through the CUSTOMER role. The email is globally
// unique. Purchases are a many-to-many relation held in its own collection,
// not embedded here.
type Customer struct {
	ID           int64  `json:"id" bson:"_id"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
}
