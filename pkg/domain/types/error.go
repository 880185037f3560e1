package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption    = goerr.New("invalid option")
	ErrValidationFailed = goerr.New("validation failed")
	ErrUnknownEvent     = goerr.New("unknown event")
	ErrRecordNotFound   = goerr.New("record not found")
	ErrInvalidPayload   = goerr.New("invalid payload")
	ErrConnClosed       = goerr.New("connection closed")
)
