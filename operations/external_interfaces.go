package operations

import (
	"context"
)

type IObjectStorage interface {
	Upload(ctx context.Context, bucket, key string, body []byte) error
}
