package domain

import "time"

// Profile is the optional document written alongside a new account.
type Profile struct {
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Account is a gateway-side account record. PasswordHash never leaves the
// gateway layer.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
}
