package operations

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/alekLukanen/errs"
	"github.com/linkedin/goavro/v2"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
)

type InstancePublisherOptions struct {
	BucketName string
	KeyPrefix  string
}

// InstancePublisher writes converted instance batches to object storage
// as avro object container files, one object per batch.
type InstancePublisher struct {
	logger        *slog.Logger
	objectStorage IObjectStorage

	bucketName string
	keyPrefix  string
}

func NewInstancePublisher(
	logger *slog.Logger,
	objectStorage IObjectStorage,
	options InstancePublisherOptions,
) *InstancePublisher {
	return &InstancePublisher{
		logger:        logger,
		objectStorage: objectStorage,
		bucketName:    options.BucketName,
		keyPrefix:     options.KeyPrefix,
	}
}

func (obj *InstancePublisher) BatchKey(splitKey elements.SplitKey, batchIndex int) string {
	return fmt.Sprintf("%s/instances/%s/batch_%d.avro", obj.keyPrefix, splitKey.Path(), batchIndex)
}

func (obj *InstancePublisher) PublishBatch(
	ctx context.Context,
	splitKey elements.SplitKey,
	schema *features.Schema,
	instances []fields.Instance,
	batchIndex int,
) (string, error) {
	codec, err := FeatureSchemaAvroCodec(schema)
	if err != nil {
		return "", err
	}

	nativeData := make([]interface{}, len(instances))
	for i, instance := range instances {
		native, err := InstanceToAvroNative(schema, instance)
		if err != nil {
			return "", err
		}
		nativeData[i] = native
	}

	var buf bytes.Buffer
	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:     &buf,
		Codec: codec,
	})
	if err != nil {
		return "", errs.Wrap(err)
	}
	if err := ocfWriter.Append(nativeData); err != nil {
		return "", errs.Wrap(err)
	}

	key := obj.BatchKey(splitKey, batchIndex)
	obj.logger.Info(
		"publishing instance batch",
		slog.String("split", splitKey.Path()),
		slog.String("key", key),
		slog.Int("numInstances", len(instances)),
	)

	if err := obj.objectStorage.Upload(ctx, obj.bucketName, key, buf.Bytes()); err != nil {
		return "", errs.Wrap(err, fmt.Errorf("failed uploading instance batch %s", key))
	}

	return key, nil
}
