package handler

import (
	"time"

	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// --- Request / Response types ---

type loginRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required"`
	LoginType string `json:"login_type" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
}

type companyRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password"`
}

type customerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password"`
}

type couponRequest struct {
	Title       string    `json:"title"       validate:"required"`
	StartDate   time.Time `json:"start_date"  validate:"required"`
	EndDate     time.Time `json:"end_date"    validate:"required"`
	Category    int       `json:"category"    validate:"gte=0"`
	Amount      int       `json:"amount"      validate:"gte=0"`
	Price       float64   `json:"price"       validate:"gte=0"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// --- Request → Service input ---

func toCouponInput(req couponRequest) ports.CouponInput {
	return ports.CouponInput{
		Title:       req.Title,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Category:    req.Category,
		Amount:      req.Amount,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
}
