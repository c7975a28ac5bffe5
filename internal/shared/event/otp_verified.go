package event

const OTPVerifiedDestination string = "account_otp_verified"

type OTPVerifiedMessage struct {
	OTPID      int64  `json:"otp_id"`
	AccountID  int64  `json:"account_id"`
	Purpose    string `json:"purpose"`
	VerifiedAt int64  `json:"verified_at"`
}
