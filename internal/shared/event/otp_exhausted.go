package event

const OTPExhaustedDestination string = "account_otp_exhausted"

type OTPExhaustedMessage struct {
	OTPID     int64  `json:"otp_id"`
	AccountID int64  `json:"account_id"`
	Purpose   string `json:"purpose"`
	Attempts  int32  `json:"attempts"`
}
