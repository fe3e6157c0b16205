package utils

import "errors"

var (
	ErrorRecordNotFound     = errors.New("record not found")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorUserDisabled       = errors.New("this account has been disabled")
)
