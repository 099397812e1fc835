package redispool

// Redis command names.
const (
	CmdEXISTS  = "EXISTS"
	CmdFLUSHDB = "FLUSHDB"
	CmdGET     = "GET"
	CmdPTTL    = "PTTL"
	CmdSET     = "SET"
)

// Redis command parameter names.
const (
	ParamPX   = "PX"
	ParamSYNC = "SYNC"
)

// Redis response values.
const (
	RespOK = "OK"
)
