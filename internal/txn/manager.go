package txn

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/replistore/repcrec/pkg/repcrec"
)

// Manager is the thin façade spec.md §4.6 describes: it tracks every
// transaction by name, appends its log entries, and otherwise
// delegates to a DataManager. Grounded on internal/core/service.go,
// which is the teacher's equivalent thin façade over a Cluster+Engine
// pair.
type Manager struct {
	clock       repcrec.Clock
	dataManager repcrec.DataManager

	transactions map[string]*repcrec.Transaction

	logger *logrus.Entry
}

// New returns a repcrec.Service wired to clock and dataManager. Neither
// collaborator is touched until a command arrives.
func New(clock repcrec.Clock, dataManager repcrec.DataManager) repcrec.Service {
	return &Manager{
		clock:        clock,
		dataManager:  dataManager,
		transactions: make(map[string]*repcrec.Transaction),
		logger:       logrus.WithField("component", "transaction-manager"),
	}
}

func (m *Manager) Begin(name string) error {
	if _, exists := m.transactions[name]; exists {
		return repcrec.ErrTransactionExists
	}

	t := repcrec.NewTransaction(name, m.clock.Now(), nil)
	t.LogBegin(t.StartTick)

	if err := m.dataManager.Begin(t); err != nil {
		return err
	}

	m.transactions[name] = t
	return nil
}

func (m *Manager) Read(transaction, variable string) (string, bool, error) {
	t, err := m.active(transaction)
	if err != nil {
		return "", false, err
	}

	t.LogRead(m.clock.Now(), variable)
	return m.dataManager.Read(t, variable)
}

func (m *Manager) Write(transaction, variable, value string) error {
	t, err := m.active(transaction)
	if err != nil {
		return err
	}

	t.LogWrite(m.clock.Now(), variable, value)

	wroteAny, err := m.dataManager.Write(t, variable, value)
	if err != nil {
		return err
	}
	if !wroteAny {
		m.logger.WithFields(logrus.Fields{"transaction": transaction, "variable": variable}).
			Warn("write landed on no UP replica")
	}
	return nil
}

func (m *Manager) End(transaction string) (bool, []string, error) {
	t, err := m.active(transaction)
	if err != nil {
		return false, nil, err
	}

	ok, reasons, err := m.dataManager.AttemptCommit(t, m.logsByTransaction())
	if err != nil {
		return false, nil, err
	}

	if ok {
		t.State = repcrec.StateCommitted
		t.CommittedAtTick = m.clock.Now()
	} else {
		t.State = repcrec.StateAborted
		m.logger.WithFields(logrus.Fields{"transaction": transaction, "reasons": reasons}).Info("transaction aborted")
	}

	return ok, reasons, nil
}

func (m *Manager) Fail(siteID int) error {
	return m.dataManager.Fail(siteID)
}

func (m *Manager) Recover(siteID int) error {
	return m.dataManager.Recover(siteID)
}

func (m *Manager) Dump(w io.Writer) error {
	return m.dataManager.Dump(w)
}

func (m *Manager) active(name string) (*repcrec.Transaction, error) {
	t, ok := m.transactions[name]
	if !ok {
		return nil, repcrec.ErrTransactionNotFound
	}
	if t.State != repcrec.StateActive {
		return nil, repcrec.ErrTransactionNotActive
	}
	return t, nil
}

// logsByTransaction snapshots every transaction ever begun, active or
// not, matching spec.md §4.6's "collected logs of all transactions".
func (m *Manager) logsByTransaction() map[string][]repcrec.LogEntry {
	logs := make(map[string][]repcrec.LogEntry, len(m.transactions))
	for name, t := range m.transactions {
		logs[name] = t.Log
	}
	return logs
}
