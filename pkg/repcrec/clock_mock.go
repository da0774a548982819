package repcrec

import "github.com/stretchr/testify/mock"

type Mock_Clock struct {
	mock.Mock
}

func (m *Mock_Clock) Now() Tick {
	ret := m.Called()

	var r0 Tick
	if rf, ok := ret.Get(0).(func() Tick); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(Tick)
	}

	return r0
}
