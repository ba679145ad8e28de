package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            string           `json:"id" bson:"_id" firestore:"-"`
	Email         string           `json:"email" bson:"email" firestore:"email"`
	DisplayName   string           `json:"display_name" bson:"display_name" firestore:"displayName"`
	PhotoURL      string           `json:"photo_url,omitempty" bson:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Role          string           `json:"role" bson:"role" firestore:"role"`
	Balance       int64            `json:"balance" bson:"balance" firestore:"balance"`
	TotalBookings map[string]int64 `json:"total_bookings" bson:"total_bookings" firestore:"totalBookings"`
	LastLoginAt   time.Time        `json:"last_login_at" bson:"last_login_at" firestore:"lastLoginAt"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time        `json:"updated_at" bson:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type UserUpdate struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
}

type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,min=-1000000,max=1000000"`
}

type BalanceResult struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}
