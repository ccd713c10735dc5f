package operations

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
)

func TestInstancePublisher_PublishBatch(t *testing.T) {

	ctx := context.Background()
	logger := slog.New(
		slog.NewJSONHandler(
			os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug},
		),
	)
	objectStorage := new(MockObjectStorage)

	publisher := NewInstancePublisher(logger, objectStorage, InstancePublisherOptions{
		BucketName: "bucket",
		KeyPrefix:  "prefix",
	})

	schema := buildSchema(t,
		features.SchemaField{Name: "text", Feature: features.Value{Dtype: "string"}},
		features.SchemaField{Name: "label", Feature: features.ClassLabel{Names: []string{"neg", "pos"}}},
	)

	instances := make([]fields.Instance, 0, 2)
	for _, entry := range []elements.Entry{
		{"text": "a good movie", "label": int64(1)},
		{"text": "a terrible movie", "label": int64(0)},
	} {
		instance, err := EntryToInstance(schema, entry)
		if !assert.Nil(t, err) {
			return
		}
		instances = append(instances, instance)
	}

	splitKey := elements.NewSplitKey("reviews", "", "train")
	expectedKey := "prefix/instances/reviews/default/train/batch_0.avro"

	objectStorage.On(
		"Upload", ctx, "bucket", expectedKey, mock.Anything,
	).Return(nil)

	key, err := publisher.PublishBatch(ctx, splitKey, schema, instances, 0)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, expectedKey, key)
	objectStorage.AssertExpectations(t)
}
