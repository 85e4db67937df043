package inbound

import (
	"net/http"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
)

type SendOTPRequest struct {
	Phone string `json:"phone"`
}

type SendOTPResponse struct {
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// UserPayload is the public representation of an account.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func newUserPayload(user *entity.User) *UserPayload {
	if user == nil {
		return nil
	}
	return &UserPayload{
		ID:    strconv.FormatInt(user.ID, 10),
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}
}

type VerifyOTPResponse struct {
	Message           string       `json:"message"`
	IsNewUser         bool         `json:"isNewUser"`
	Token             string       `json:"token,omitempty"`
	User              *UserPayload `json:"user,omitempty"`
	RegistrationToken string       `json:"registrationToken,omitempty"`
}

type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	RegistrationToken string `json:"registrationToken"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *UserPayload `json:"user"`
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}
