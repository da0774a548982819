package repcrec

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type Mock_DataManager struct {
	mock.Mock
}

func (m *Mock_DataManager) Begin(t *Transaction) error {
	ret := m.Called(t)

	var r0 error
	if rf, ok := ret.Get(0).(func(t *Transaction) error); ok {
		r0 = rf(t)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_DataManager) Read(t *Transaction, variable string) (string, bool, error) {
	ret := m.Called(t, variable)

	var r0 string
	if rf, ok := ret.Get(0).(func(t *Transaction, variable string) string); ok {
		r0 = rf(t, variable)
	} else {
		r0 = ret.String(0)
	}

	var r1 bool
	if rf, ok := ret.Get(1).(func(t *Transaction, variable string) bool); ok {
		r1 = rf(t, variable)
	} else {
		r1 = ret.Bool(1)
	}

	return r0, r1, ret.Error(2)
}

func (m *Mock_DataManager) Write(t *Transaction, variable, value string) (bool, error) {
	ret := m.Called(t, variable, value)

	var r0 bool
	if rf, ok := ret.Get(0).(func(t *Transaction, variable, value string) bool); ok {
		r0 = rf(t, variable, value)
	} else {
		r0 = ret.Bool(0)
	}

	return r0, ret.Error(1)
}

func (m *Mock_DataManager) Fail(siteID int) error {
	ret := m.Called(siteID)
	return ret.Error(0)
}

func (m *Mock_DataManager) Recover(siteID int) error {
	ret := m.Called(siteID)
	return ret.Error(0)
}

func (m *Mock_DataManager) Dump(w io.Writer) error {
	ret := m.Called(w)
	return ret.Error(0)
}

func (m *Mock_DataManager) AttemptCommit(t *Transaction, logsByTransaction map[string][]LogEntry) (bool, []string, error) {
	ret := m.Called(t, logsByTransaction)

	var r0 bool
	if rf, ok := ret.Get(0).(func(t *Transaction, logsByTransaction map[string][]LogEntry) bool); ok {
		r0 = rf(t, logsByTransaction)
	} else {
		r0 = ret.Bool(0)
	}

	var r1 []string
	if rf, ok := ret.Get(1).(func(t *Transaction, logsByTransaction map[string][]LogEntry) []string); ok {
		r1 = rf(t, logsByTransaction)
	} else if ret.Get(1) != nil {
		r1 = ret.Get(1).([]string)
	}

	return r0, r1, ret.Error(2)
}
