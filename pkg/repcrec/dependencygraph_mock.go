package repcrec

import "github.com/stretchr/testify/mock"

type Mock_DependencyGraph struct {
	mock.Mock
}

func (m *Mock_DependencyGraph) WillCreateCycle(transaction string, logsByVariable map[string][]LogEntry,
	transactions map[string]*Transaction) bool {

	ret := m.Called(transaction, logsByVariable, transactions)

	var r0 bool
	if rf, ok := ret.Get(0).(func(transaction string, logsByVariable map[string][]LogEntry, transactions map[string]*Transaction) bool); ok {
		r0 = rf(transaction, logsByVariable, transactions)
	} else {
		r0 = ret.Bool(0)
	}

	return r0
}
