package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ghost-story/internal/application/controller"
	"ghost-story/internal/domain/entity"
)

// MockGenerator is a mock type for the controller.Generator type
type MockGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, prompt
func (_m *MockGenerator) Generate(ctx context.Context, prompt string) (entity.GenerationResult, error) {
	ret := _m.Called(ctx, prompt)

	var r0 entity.GenerationResult
	if rf, ok := ret.Get(0).(func(context.Context, string) entity.GenerationResult); ok {
		r0 = rf(ctx, prompt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(entity.GenerationResult)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockGenerator creates a new instance of MockGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ controller.Generator = (*MockGenerator)(nil)
