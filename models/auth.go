// models/auth.go

package models

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is what the backend returns on a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" validate:"notblank"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	UserType        string `json:"userType" validate:"oneof=customer vendor"`
	BusinessName    string `json:"businessName,omitempty"`
	BusinessAddress string `json:"businessAddress,omitempty"`
	BusinessContact string `json:"businessContact,omitempty"`
}

// OTPRequest carries an email and, when verifying, the code.
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code,omitempty"`
}

type PasswordResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
