package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockObjectStorage struct {
	mock.Mock
}

func (obj *MockObjectStorage) Upload(ctx context.Context, bucket, key string, body []byte) error {
	args := obj.Called(ctx, bucket, key, body)
	return args.Error(0)
}

func (obj *MockObjectStorage) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	args := obj.Called(ctx, bucket, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (obj *MockObjectStorage) DownloadFile(ctx context.Context, bucket, key, filePath string) error {
	args := obj.Called(ctx, bucket, key, filePath)
	return args.Error(0)
}

func (obj *MockObjectStorage) Delete(ctx context.Context, bucket, key string) error {
	args := obj.Called(ctx, bucket, key)
	return args.Error(0)
}

func (obj *MockObjectStorage) ListObjects(ctx context.Context, bucket string, prefix string) ([]string, error) {
	args := obj.Called(ctx, bucket, prefix)
	return args.Get(0).([]string), args.Error(1)
}
