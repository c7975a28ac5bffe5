package inbound

import (
	"context"

	"github.com/siswanet/siswanet/internal/account/usecase"
	"github.com/siswanet/siswanet/internal/pkg/router"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// OTP lifecycle
	r.POST("/api/v1/account/otp/request", end.RequestOTP)
	r.POST("/api/v1/account/otp/verify", end.VerifyOTP)

	// Password recovery (guarded by a recently verified code)
	r.POST("/api/v1/account/password/reset", end.ResetPassword)
}
