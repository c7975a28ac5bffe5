package inbound

import (
	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/account/usecase"
	"github.com/siswanet/siswanet/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the OTP and password recovery flows.
type HTTPEndpoint struct {
	uc uc
}

// RequestOTP issues a one-time code and sends it to the account's phone.
// @Summary Request verification code
// @Description Generates a one-time code for the given phone and purpose and dispatches it over SMS. Subject to a resend cooldown.
// @Tags Account, OTP
// @Accept json
// @Produce json
// @Param request body RequestOTPRequest true "OTP request payload"
// @Success 200 {object} router.successResponse "Code dispatched"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "No account with this phone"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Resend cooldown still active"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/otp/request [post]
func (h *HTTPEndpoint) RequestOTP(r *router.Request) (any, error) {
	var req RequestOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	_, err := h.uc.RequestOTP(r.Context(), usecase.RequestOTPInput{
		Phone:   req.Phone,
		Purpose: entity.OTPPurposeFromString(req.Purpose),
	})
	if err != nil {
		return nil, err
	}

	return RequestOTPResponse{}, nil
}

// VerifyOTP consumes a pending one-time code.
// @Summary Verify one-time code
// @Description Checks the submitted code against the pending record for the phone and purpose. Each wrong submission burns one attempt.
// @Tags Account, OTP
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "OTP verification payload"
// @Success 200 {object} router.successResponse "Code accepted"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Wrong code"
// @Failure 404 {object} router.errorResponse "Code expired or not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Maximum attempts exceeded"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	_, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Phone:   req.Phone,
		Code:    req.Code,
		Purpose: entity.OTPPurposeFromString(req.Purpose),
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{}, nil
}

// ResetPassword replaces the account password after a recent verification.
// @Summary Reset password
// @Description Sets a new password for the account, re-confirming the password-reset code verified within the grace window.
// @Tags Account, Password
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Password reset payload"
// @Success 200 {object} router.successResponse "Password updated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "No recently verified code"
// @Failure 409 {object} router.errorResponse "Reset already being processed"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/password/reset [post]
func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResetPassword(r.Context(), usecase.ResetPasswordInput{
		Phone:       req.Phone,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return ResetPasswordResponse{}, nil
}
