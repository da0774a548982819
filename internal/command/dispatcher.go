package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/replistore/repcrec/pkg/repcrec"
)

// blocked is the external, printable stand-in for a failed read: the
// ⊥ of spec.md §6.
const blocked = "⊥"

// Dispatcher applies parsed commands against a repcrec.Service and
// formats results exactly as spec.md §6 specifies, writing them to an
// injected io.Writer. Grounded on
// internal/transport/redis/server.go's dispatchCommand switch, the
// teacher's equivalent "parse one line, drive the service, format the
// reply" loop.
type Dispatcher struct {
	service repcrec.Service
	out     io.Writer
	logger  *logrus.Entry
}

// NewDispatcher returns a Dispatcher that writes formatted command
// output to out.
func NewDispatcher(service repcrec.Service, out io.Writer) *Dispatcher {
	return &Dispatcher{
		service: service,
		out:     out,
		logger:  logrus.WithField("component", "dispatcher"),
	}
}

// Run reads r line by line and dispatches each one until EOF.
func (d *Dispatcher) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		d.Dispatch(scanner.Text())
	}
	return scanner.Err()
}

// Dispatch applies a single line of input.
func (d *Dispatcher) Dispatch(line string) {
	cmd := Parse(line)

	switch cmd.Kind {
	case KindEmpty:
		return
	case KindComment:
		d.logger.WithField("line", cmd.Raw).Debug("comment ignored")
	case KindBegin:
		d.begin(cmd)
	case KindRead:
		d.read(cmd)
	case KindWrite:
		d.write(cmd)
	case KindFail:
		d.fail(cmd)
	case KindRecover:
		d.recover(cmd)
	case KindEnd:
		d.end(cmd)
	case KindDump:
		d.dump()
	default:
		d.logger.WithField("line", cmd.Raw).Warn("unexpected input")
	}
}

func (d *Dispatcher) begin(cmd Command) {
	if err := d.service.Begin(cmd.Transaction); err != nil {
		d.logger.WithError(err).WithField("transaction", cmd.Transaction).Error("begin failed")
	}
}

func (d *Dispatcher) read(cmd Command) {
	value, ok, err := d.service.Read(cmd.Transaction, cmd.Variable)
	if err != nil {
		d.logger.WithError(err).WithField("transaction", cmd.Transaction).Error("read failed")
		return
	}

	if !ok {
		value = blocked
	}
	fmt.Fprintf(d.out, "Read value result: %s\n", value)
}

func (d *Dispatcher) write(cmd Command) {
	if err := d.service.Write(cmd.Transaction, cmd.Variable, cmd.Value); err != nil {
		d.logger.WithError(err).WithField("transaction", cmd.Transaction).Error("write failed")
	}
}

func (d *Dispatcher) fail(cmd Command) {
	if err := d.service.Fail(cmd.SiteID); err != nil {
		d.logger.WithError(err).WithField("site", cmd.SiteID).Error("fail failed")
	}
}

func (d *Dispatcher) recover(cmd Command) {
	if err := d.service.Recover(cmd.SiteID); err != nil {
		d.logger.WithError(err).WithField("site", cmd.SiteID).Error("recover failed")
	}
}

func (d *Dispatcher) end(cmd Command) {
	ok, reasons, err := d.service.End(cmd.Transaction)
	if err != nil {
		d.logger.WithError(err).WithField("transaction", cmd.Transaction).Error("end failed")
		return
	}

	if ok {
		fmt.Fprintf(d.out, "Transaction %s successful\n", cmd.Transaction)
		return
	}
	fmt.Fprintf(d.out, "Transaction %s aborted because of conflict, %s\n", cmd.Transaction, strings.Join(reasons, ", "))
}

func (d *Dispatcher) dump() {
	if err := d.service.Dump(d.out); err != nil {
		d.logger.WithError(err).Error("dump failed")
	}
}
