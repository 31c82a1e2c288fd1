package ws

const (
	// server - client
	MsgReady   = "ready"
	MsgBalance = "balance"
)
