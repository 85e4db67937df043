package inbound

import (
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the phone OTP authentication flow.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a one-time password to the given phone number.
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{
		Phone: req.Phone,
	}); err != nil {
		return nil, err
	}

	return SendOTPResponse{Message: "OTP sent successfully."}, nil
}

// VerifyOTP checks a submitted code and either logs the user in or hands out
// a registration token.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Phone: req.Phone,
		OTP:   req.OTP,
	})
	if err != nil {
		return nil, err
	}

	if resp.IsNewUser {
		return VerifyOTPResponse{
			Message:           "OTP verified. Please complete registration.",
			IsNewUser:         true,
			RegistrationToken: resp.RegistrationToken,
		}, nil
	}

	return VerifyOTPResponse{
		Message:   "Login successful.",
		IsNewUser: false,
		Token:     resp.Token,
		User:      newUserPayload(resp.User),
	}, nil
}

// Register creates an account for a phone number that passed OTP verification.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		RegistrationToken: req.RegistrationToken,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		Message: "Registration successful.",
		Token:   resp.Token,
		User:    newUserPayload(resp.User),
	}, nil
}
