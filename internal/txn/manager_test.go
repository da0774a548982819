package txn_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/replistore/repcrec/internal/txn"
	"github.com/replistore/repcrec/pkg/repcrec"
)

type ManagerTestSuite struct {
	suite.Suite

	clock       *repcrec.Mock_Clock
	dataManager *repcrec.Mock_DataManager
	service     repcrec.Service
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	s.clock = &repcrec.Mock_Clock{}
	s.dataManager = &repcrec.Mock_DataManager{}
	s.service = txn.New(s.clock, s.dataManager)
}

func (s *ManagerTestSuite) TestBeginDelegatesToDataManager() {
	s.clock.On("Now").Return(repcrec.Tick(1)).Once()
	s.dataManager.On("Begin", mock.AnythingOfType("*repcrec.Transaction")).Return(nil).Once()

	err := s.service.Begin("T1")
	s.NoError(err)

	s.dataManager.AssertExpectations(s.T())
}

func (s *ManagerTestSuite) TestBeginRejectsDuplicateName() {
	s.clock.On("Now").Return(repcrec.Tick(1)).Once()
	s.dataManager.On("Begin", mock.Anything).Return(nil).Once()
	s.Require().NoError(s.service.Begin("T1"))

	err := s.service.Begin("T1")
	s.ErrorIs(err, repcrec.ErrTransactionExists)
}

func (s *ManagerTestSuite) TestReadOnUnknownTransactionFails() {
	_, _, err := s.service.Read("ghost", "x1")
	s.ErrorIs(err, repcrec.ErrTransactionNotFound)
}

func (s *ManagerTestSuite) TestReadDelegatesToDataManager() {
	s.clock.On("Now").Return(repcrec.Tick(1))
	s.dataManager.On("Begin", mock.Anything).Return(nil).Once()
	s.Require().NoError(s.service.Begin("T1"))

	s.dataManager.On("Read", mock.AnythingOfType("*repcrec.Transaction"), "x1").Return("50", true, nil).Once()

	value, ok, err := s.service.Read("T1", "x1")
	s.NoError(err)
	s.True(ok)
	s.Equal("50", value)
}

func (s *ManagerTestSuite) TestWriteDelegatesToDataManager() {
	s.clock.On("Now").Return(repcrec.Tick(1))
	s.dataManager.On("Begin", mock.Anything).Return(nil).Once()
	s.Require().NoError(s.service.Begin("T1"))

	s.dataManager.On("Write", mock.AnythingOfType("*repcrec.Transaction"), "x1", "50").Return(true, nil).Once()

	err := s.service.Write("T1", "x1", "50")
	s.NoError(err)
}

func (s *ManagerTestSuite) TestEndCommitsOnSuccess() {
	s.clock.On("Now").Return(repcrec.Tick(1)).Once()
	s.dataManager.On("Begin", mock.Anything).Return(nil).Once()
	s.Require().NoError(s.service.Begin("T1"))

	s.clock.On("Now").Return(repcrec.Tick(9)).Once()
	s.dataManager.On("AttemptCommit", mock.AnythingOfType("*repcrec.Transaction"), mock.Anything).
		Return(true, []string(nil), nil).Once()

	ok, reasons, err := s.service.End("T1")
	s.NoError(err)
	s.True(ok)
	s.Empty(reasons)
}

func (s *ManagerTestSuite) TestEndAbortsAndDoesNotAdvanceClockFurther() {
	s.clock.On("Now").Return(repcrec.Tick(1)).Once()
	s.dataManager.On("Begin", mock.Anything).Return(nil).Once()
	s.Require().NoError(s.service.Begin("T1"))

	s.dataManager.On("AttemptCommit", mock.AnythingOfType("*repcrec.Transaction"), mock.Anything).
		Return(false, []string{"site failed after a write"}, nil).Once()

	ok, reasons, err := s.service.End("T1")
	s.NoError(err)
	s.False(ok)
	s.Equal([]string{"site failed after a write"}, reasons)

	// Now was expected exactly once (for Begin); a second unexpected
	// call here would panic the mock rather than pass silently.
	s.clock.AssertExpectations(s.T())
}

func (s *ManagerTestSuite) TestEndOnAlreadyEndedTransactionFails() {
	s.clock.On("Now").Return(repcrec.Tick(1))
	s.dataManager.On("Begin", mock.Anything).Return(nil).Once()
	s.Require().NoError(s.service.Begin("T1"))

	s.dataManager.On("AttemptCommit", mock.AnythingOfType("*repcrec.Transaction"), mock.Anything).
		Return(true, []string(nil), nil).Once()
	_, _, err := s.service.End("T1")
	s.Require().NoError(err)

	_, _, err = s.service.End("T1")
	s.ErrorIs(err, repcrec.ErrTransactionNotActive)
}

func (s *ManagerTestSuite) TestFailRecoverDumpDelegate() {
	s.dataManager.On("Fail", 3).Return(nil).Once()
	s.NoError(s.service.Fail(3))

	s.dataManager.On("Recover", 3).Return(nil).Once()
	s.NoError(s.service.Recover(3))

	s.dataManager.On("Dump", mock.Anything).Return(nil).Once()
	s.NoError(s.service.Dump(nil))

	s.dataManager.AssertExpectations(s.T())
}
