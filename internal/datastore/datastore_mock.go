package datastore

import (
	"context"

	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockBountyStore is a mock implementation of BountyStore for testing.
type MockBountyStore struct {
	mock.Mock
}

var _ contract.BountyStore = &MockBountyStore{} // Compile-time check

// ListBounties implements the BountyStore interface.
func (m *MockBountyStore) ListBounties(ctx context.Context, filter schema.BountyFilter) ([]schema.Bounty, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]schema.Bounty)
	return out, args.Error(1)
}

// ListFulfillments implements the BountyStore interface.
func (m *MockBountyStore) ListFulfillments(ctx context.Context, filter schema.FulfillmentFilter) ([]schema.Fulfillment, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]schema.Fulfillment)
	return out, args.Error(1)
}

// DistinctStatuses implements the BountyStore interface.
func (m *MockBountyStore) DistinctStatuses(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

// ListTips implements the BountyStore interface.
func (m *MockBountyStore) ListTips(ctx context.Context, network string) ([]schema.Tip, error) {
	args := m.Called(ctx, network)
	out, _ := args.Get(0).([]schema.Tip)
	return out, args.Error(1)
}

// ListProfiles implements the BountyStore interface.
func (m *MockBountyStore) ListProfiles(ctx context.Context, withGithubToken bool) ([]schema.Profile, error) {
	args := m.Called(ctx, withGithubToken)
	out, _ := args.Get(0).([]schema.Profile)
	return out, args.Error(1)
}

// ListStats implements the BountyStore interface.
func (m *MockBountyStore) ListStats(ctx context.Context, filter schema.StatFilter) ([]schema.Stat, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]schema.Stat)
	return out, args.Error(1)
}

// ListDataPayloads implements the BountyStore interface.
func (m *MockBountyStore) ListDataPayloads(ctx context.Context, key string) ([]schema.DataPayload, error) {
	args := m.Called(ctx, key)
	out, _ := args.Get(0).([]schema.DataPayload)
	return out, args.Error(1)
}
