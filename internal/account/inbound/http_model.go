package inbound

type RequestOTPRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

type RequestOTPResponse struct{}

func (RequestOTPResponse) Message() string {
	return "A verification code has been sent to your phone."
}

type VerifyOTPRequest struct {
	Phone   string `json:"phone"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

type VerifyOTPResponse struct{}

func (VerifyOTPResponse) Message() string {
	return "Verification successful."
}

type ResetPasswordRequest struct {
	Phone       string `json:"phone"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordResponse struct{}

func (ResetPasswordResponse) Message() string {
	return "Your password has been reset. You can now sign in with the new password."
}
