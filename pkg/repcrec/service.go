package repcrec

import "io"

// Service is the façade the command dispatcher drives: spec.md §4.6's
// TransactionManager, plus direct pass-through of the site operations
// that spec.md §6 shows going straight to the DataManager.
type Service interface {
	Begin(transaction string) error
	Read(transaction, variable string) (value string, ok bool, err error)
	Write(transaction, variable, value string) error
	End(transaction string) (ok bool, reasons []string, err error)

	Fail(siteID int) error
	Recover(siteID int) error
	Dump(w io.Writer) error
}
