package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrDecode            = fmt.Errorf("malformed envelope line")
	ErrDuplicateUser     = fmt.Errorf("user id already registered")
	ErrDelivery          = fmt.Errorf("delivery to recipient failed")
	ErrConnectionClosed  = fmt.Errorf("connection closed")
	ErrNotJoined         = fmt.Errorf("client has not joined yet")
	ErrServerUnreachable = fmt.Errorf("server unreachable, heartbeat timeout exceeded")
)
