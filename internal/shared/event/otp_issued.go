package event

const OTPIssuedDestination string = "account_otp_issued"

type OTPIssuedMessage struct {
	OTPID     int64  `json:"otp_id"`
	AccountID int64  `json:"account_id"`
	Purpose   string `json:"purpose"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}
