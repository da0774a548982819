package repcrec

import "errors"

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransactionNotActive = errors.New("transaction is not active")
	ErrTransactionExists    = errors.New("transaction name already in use")
)
