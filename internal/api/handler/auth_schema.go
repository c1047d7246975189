package handler

import "github.com/dearecho/dearecho-api/internal/core/domain"

// Auth flows perform their own field-level validation (the per-field error
// semantics belong to the flow, not the transport), so these schemas carry
// no validate tags.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from,omitempty"`
}

type federatedRequest struct {
	// Assertion is the provider-issued identity token; empty when the
	// provider handoff never completed.
	Assertion string `json:"assertion"`
	// Outcome reports a client-observed popup failure: "blocked" or
	// "closed". Empty on a completed handoff.
	Outcome string `json:"outcome,omitempty"`
	From    string `json:"from,omitempty"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginResponse struct {
	User       domain.User `json:"user"`
	RedirectTo string      `json:"redirect_to"`
	Message    string      `json:"message"`
}

type registerResponse struct {
	JustRegistered bool   `json:"just_registered"`
	RedirectTo     string `json:"redirect_to"`
	Message        string `json:"message"`
}

type authPageResponse struct {
	Page           string `json:"page"`
	JustRegistered bool   `json:"just_registered,omitempty"`
}
