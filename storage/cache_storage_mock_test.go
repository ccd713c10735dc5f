package storage

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alekLukanen/DatasetBridge/elements"
)

type MockLock struct {
	mock.Mock
}

func (obj *MockLock) TryLockContext(ctx context.Context) error {
	args := obj.Called(ctx)
	return args.Error(0)
}

func (obj *MockLock) UnlockContext(ctx context.Context) (bool, error) {
	args := obj.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (obj *MockLock) Name() string {
	args := obj.Called()
	return args.String(0)
}

type MockCacheStorage struct {
	mock.Mock
}

func (obj *MockCacheStorage) ClaimSplitFetch(ctx context.Context, splitKey elements.SplitKey, duration time.Duration) (ILock, error) {
	args := obj.Called(ctx, splitKey, duration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ILock), args.Error(1)
}

func (obj *MockCacheStorage) ReleaseSplitFetchLock(ctx context.Context, lock ILock) (bool, error) {
	args := obj.Called(ctx, lock)
	return args.Bool(0), args.Error(1)
}

func (obj *MockCacheStorage) GetSplitFetchTimestamp(ctx context.Context, splitKey elements.SplitKey) (time.Time, error) {
	args := obj.Called(ctx, splitKey)
	return args.Get(0).(time.Time), args.Error(1)
}

func (obj *MockCacheStorage) SetSplitFetchTimestamp(ctx context.Context, splitKey elements.SplitKey) (bool, error) {
	args := obj.Called(ctx, splitKey)
	return args.Bool(0), args.Error(1)
}

func (obj *MockCacheStorage) DeleteSplitFetchTimestamp(ctx context.Context, splitKey elements.SplitKey) (bool, error) {
	args := obj.Called(ctx, splitKey)
	return args.Bool(0), args.Error(1)
}
