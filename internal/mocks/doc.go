// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

type expecter interface {
	AssertExpectations(t mock.TestingT) bool
}

func register(t *testing.T, m expecter) {
	t.Cleanup(func() { m.AssertExpectations(t) })
}
