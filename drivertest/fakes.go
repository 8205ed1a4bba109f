// Package drivertest provides testify-mock-based fakes for driver's
// external collaborators (StateMachine, PackOutput, Channel), in the style
// of device/mocks.go's MockConnector and friends.
package drivertest

import (
	"github.com/stretchr/testify/mock"

	"github.com/xmidt-org/connexec/driver"
)

// FakeStateMachine is a mock driver.StateMachine.
type FakeStateMachine struct {
	mock.Mock
}

var _ driver.StateMachine = (*FakeStateMachine)(nil)

func (m *FakeStateMachine) Interrupt() {
	m.Called()
}

func (m *FakeStateMachine) MarkForTermination() {
	m.Called()
}

func (m *FakeStateMachine) MarkFailed(err error) {
	m.Called(err)
}

func (m *FakeStateMachine) ValidateTransaction() {
	m.Called()
}

func (m *FakeStateMachine) Close() error {
	return m.Called().Error(0)
}

// FakeOutput is a mock driver.PackOutput.
type FakeOutput struct {
	mock.Mock
}

var _ driver.PackOutput = (*FakeOutput)(nil)

func (m *FakeOutput) Flush() error {
	return m.Called().Error(0)
}

func (m *FakeOutput) Close() error {
	return m.Called().Error(0)
}

// FakeChannel is a mock driver.Channel.
type FakeChannel struct {
	mock.Mock
}

var _ driver.Channel = (*FakeChannel)(nil)

func (m *FakeChannel) LocalAddress() string {
	return m.Called().String(0)
}

func (m *FakeChannel) RemoteAddress() string {
	return m.Called().String(0)
}

func (m *FakeChannel) RawHandle() interface{} {
	return m.Called().Get(0)
}

// FakeJob is a mock driver.Job, useful when a test needs to assert call
// order or inject a specific error from Perform.
type FakeJob struct {
	mock.Mock
}

var _ driver.Job = (*FakeJob)(nil)

func (m *FakeJob) Perform(machine driver.StateMachine) error {
	return m.Called(machine).Error(0)
}
