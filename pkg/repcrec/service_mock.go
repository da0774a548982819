package repcrec

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type Mock_Service struct {
	mock.Mock
}

func (m *Mock_Service) Begin(transaction string) error {
	ret := m.Called(transaction)
	return ret.Error(0)
}

func (m *Mock_Service) Read(transaction, variable string) (string, bool, error) {
	ret := m.Called(transaction, variable)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

func (m *Mock_Service) Write(transaction, variable, value string) error {
	ret := m.Called(transaction, variable, value)
	return ret.Error(0)
}

func (m *Mock_Service) End(transaction string) (bool, []string, error) {
	ret := m.Called(transaction)

	var r1 []string
	if ret.Get(1) != nil {
		r1 = ret.Get(1).([]string)
	}

	return ret.Bool(0), r1, ret.Error(2)
}

func (m *Mock_Service) Fail(siteID int) error {
	ret := m.Called(siteID)
	return ret.Error(0)
}

func (m *Mock_Service) Recover(siteID int) error {
	ret := m.Called(siteID)
	return ret.Error(0)
}

func (m *Mock_Service) Dump(w io.Writer) error {
	ret := m.Called(w)
	return ret.Error(0)
}
