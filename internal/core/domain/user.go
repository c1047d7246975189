package domain

import (
	"strings"
	"time"
)

// fallbackName is used when a credential carries neither a display name nor
// an email with a local part.
const fallbackName = "User"

// User models the identity of the signed-in account holder.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role,omitempty"`
	JoinedAt time.Time `json:"joined_at,omitempty"`
}

// Credential is the identity record a gateway exchange yields. DisplayName
// and Email may be empty; ID is stable and unique per account.
type Credential struct {
	ID          string
	DisplayName string
	Email       string
}

// NewUser normalizes a gateway credential into a User. Name is never empty:
// display name first, then the local part of the email, then a static
// fallback label.
func NewUser(cred Credential) User {
	return User{
		ID:    cred.ID,
		Name:  friendlyName(cred.DisplayName, cred.Email),
		Email: cred.Email,
	}
}

func friendlyName(displayName, email string) string {
	if displayName != "" {
		return displayName
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return fallbackName
}
