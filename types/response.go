package types

// Domain response codes shared by every endpoint envelope.
const (
	RespSuccess     = "00" // operation succeeded
	RespFailed      = "01" // validation failure or lookup miss
	RespDelivery    = "02" // OTP not delivered; on verify: code expired
	RespLockedOut   = "03" // verification attempts exhausted
	RespServerError = "99" // unexpected server-side failure
)
