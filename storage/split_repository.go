package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/alekLukanen/errs"

	datasetops "github.com/alekLukanen/DatasetBridge/datasetOps"
	"github.com/alekLukanen/DatasetBridge/elements"
)

type ISplitRepository interface {
	GetSplitManifest(context.Context, elements.SplitKey) (*SplitManifest, error)
	LoadSplit(context.Context, elements.SplitKey) (*datasetops.Dataset, error)
}

type SplitRepositoryOptions struct {
	BucketName        string
	KeyPrefix         string
	CacheDir          string
	FetchLockDuration time.Duration
}

// SplitRepository resolves (dataset, config, split) keys against object
// storage. Manifests are versioned; the newest version wins. Parquet
// objects are downloaded into a local cache directory before being read
// into arrow records.
type SplitRepository struct {
	logger *slog.Logger
	mem    *memory.GoAllocator

	IObjectStorage
	cacheStorage ICacheStorage

	bucketName        string
	keyPrefix         string
	cacheDir          string
	fetchLockDuration time.Duration
}

func NewSplitRepository(
	ctx context.Context,
	logger *slog.Logger,
	mem *memory.GoAllocator,
	objectStorage IObjectStorage,
	cacheStorage ICacheStorage,
	options SplitRepositoryOptions,
) *SplitRepository {
	fetchLockDuration := options.FetchLockDuration
	if fetchLockDuration == 0 {
		fetchLockDuration = 1 * time.Minute
	}
	return &SplitRepository{
		logger:            logger,
		mem:               mem,
		IObjectStorage:    objectStorage,
		cacheStorage:      cacheStorage,
		bucketName:        options.BucketName,
		keyPrefix:         options.KeyPrefix,
		cacheDir:          options.CacheDir,
		fetchLockDuration: fetchLockDuration,
	}
}

func (obj *SplitRepository) manifestPrefix(splitKey elements.SplitKey) string {
	return fmt.Sprintf("%s/datasets/%s/manifest_", obj.keyPrefix, splitKey.Path())
}

func (obj *SplitRepository) GetSplitManifest(
	ctx context.Context,
	splitKey elements.SplitKey,
) (*SplitManifest, error) {

	manifestPrefix := obj.manifestPrefix(splitKey)

	manifestKeys, err := obj.ListObjects(
		ctx, obj.bucketName, manifestPrefix,
	)
	if err != nil {
		return nil, errs.Wrap(
			err,
			fmt.Errorf("failed listing manifests for split %s", splitKey.Path()),
		)
	}
	if len(manifestKeys) == 0 {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s", ErrSplitNotFound, splitKey.Path()),
		)
	}

	// parse the manifest version from the keys
	var newestManifestVersion int
	for _, key := range manifestKeys {
		cleanedKey := strings.TrimPrefix(key, manifestPrefix)
		cleanedKey = strings.TrimSuffix(cleanedKey, ".json")
		manifestVersion, err := strconv.Atoi(cleanedKey)
		if err != nil {
			continue
		}
		if manifestVersion > newestManifestVersion {
			newestManifestVersion = manifestVersion
		}
	}

	manifestData, err := obj.Download(
		ctx,
		obj.bucketName,
		fmt.Sprintf("%s%d.json", manifestPrefix, newestManifestVersion),
	)
	if err != nil {
		return nil, errs.Wrap(
			err,
			fmt.Errorf("failed downloading manifest for split %s", splitKey.Path()),
		)
	}

	manifest, err := NewSplitManifestFromBytes(manifestData)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	return manifest, nil
}

/*
* Load a split into memory. The split's parquet objects are fetched into
* the cache directory under a redis lock so concurrent readers of the
* same split don't download it twice, then read into arrow records.
 */
func (obj *SplitRepository) LoadSplit(
	ctx context.Context,
	splitKey elements.SplitKey,
) (*datasetops.Dataset, error) {

	if err := splitKey.IsValid(); err != nil {
		return nil, errs.NewStackError(err)
	}

	manifest, err := obj.GetSplitManifest(ctx, splitKey)
	if err != nil {
		return nil, err
	}

	schema, err := manifest.FeatureSchema()
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("manifest for split %s", splitKey.Path()))
	}

	lock, err := obj.cacheStorage.ClaimSplitFetch(ctx, splitKey, obj.fetchLockDuration)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed claiming fetch lock for split %s", splitKey.Path()))
	}
	defer func() {
		if _, unlockErr := obj.cacheStorage.ReleaseSplitFetchLock(ctx, lock); unlockErr != nil {
			obj.logger.Error(
				"failed releasing split fetch lock",
				slog.String("split", splitKey.Path()),
				slog.String("error", errs.ErrorWithStack(unlockErr)),
			)
		}
	}()

	// a timestamp read error just means the split has not been fetched
	// into the cache before
	if lastFetchTime, err := obj.cacheStorage.GetSplitFetchTimestamp(ctx, splitKey); err == nil {
		obj.logger.Debug(
			"split previously fetched",
			slog.String("split", splitKey.Path()),
			slog.Time("lastFetchTime", lastFetchTime),
		)
	}

	filePaths, err := obj.fetchSplitObjects(ctx, splitKey, manifest)
	if err != nil {
		return nil, err
	}

	if _, err := obj.cacheStorage.SetSplitFetchTimestamp(ctx, splitKey); err != nil {
		return nil, errs.Wrap(err)
	}

	records := make([]arrow.Record, 0, len(filePaths))
	for _, filePath := range filePaths {
		fileRecords, err := datasetops.ReadParquetFile(ctx, obj.mem, filePath)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed reading parquet file %s", filePath))
		}
		records = append(records, fileRecords...)
	}

	dataset, err := datasetops.NewDataset(splitKey, schema, records)
	if err != nil {
		return nil, err
	}

	obj.logger.Info(
		"loaded split",
		slog.String("split", splitKey.Path()),
		slog.Int("numObjects", len(manifest.Objects)),
		slog.Int64("numRows", dataset.NumRows()),
	)

	return dataset, nil
}

/*
* Evict a split from the local cache. The split's cached parquet objects
* are removed along with its fetch timestamp so the next load fetches the
* split again.
 */
func (obj *SplitRepository) EvictSplit(ctx context.Context, splitKey elements.SplitKey) error {
	if err := splitKey.IsValid(); err != nil {
		return errs.NewStackError(err)
	}

	splitCacheDir := filepath.Join(obj.cacheDir, splitKey.Path())
	if err := os.RemoveAll(splitCacheDir); err != nil {
		return errs.Wrap(err, fmt.Errorf("failed removing cached split %s", splitKey.Path()))
	}

	if _, err := obj.cacheStorage.DeleteSplitFetchTimestamp(ctx, splitKey); err != nil {
		return errs.Wrap(err, fmt.Errorf("failed clearing fetch timestamp for split %s", splitKey.Path()))
	}

	obj.logger.Info("evicted split from cache", slog.String("split", splitKey.Path()))
	return nil
}

func (obj *SplitRepository) fetchSplitObjects(
	ctx context.Context,
	splitKey elements.SplitKey,
	manifest *SplitManifest,
) ([]string, error) {

	splitCacheDir := filepath.Join(obj.cacheDir, splitKey.Path(), fmt.Sprintf("v%d", manifest.Version))
	if err := os.MkdirAll(splitCacheDir, 0o755); err != nil {
		return nil, errs.Wrap(err)
	}

	filePaths := make([]string, len(manifest.Objects))
	for i, manifestObject := range manifest.Objects {
		filePath := filepath.Join(splitCacheDir, fmt.Sprintf("d_%d.parquet", manifestObject.Index))
		filePaths[i] = filePath

		// previously fetched objects stay valid since manifests are
		// versioned and never rewritten in place
		if _, err := os.Stat(filePath); err == nil {
			continue
		}

		objectKey := fmt.Sprintf("%s/%s", obj.keyPrefix, manifestObject.Key)
		if err := obj.DownloadFile(ctx, obj.bucketName, objectKey, filePath); err != nil {
			return nil, errs.Wrap(
				err,
				fmt.Errorf("failed downloading split object %s", objectKey),
			)
		}
	}

	return filePaths, nil
}
