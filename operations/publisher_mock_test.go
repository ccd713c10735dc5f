package operations

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
