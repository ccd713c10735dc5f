package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncredis "github.com/go-redsync/redsync/v4/redis"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"

	"github.com/alekLukanen/DatasetBridge/elements"
)

type ILock interface {
	TryLockContext(context.Context) error
	UnlockContext(context.Context) (bool, error)
	Name() string
}

type ICacheStorage interface {
	ClaimSplitFetch(context.Context, elements.SplitKey, time.Duration) (ILock, error)
	ReleaseSplitFetchLock(context.Context, ILock) (bool, error)

	GetSplitFetchTimestamp(context.Context, elements.SplitKey) (time.Time, error)
	SetSplitFetchTimestamp(context.Context, elements.SplitKey) (bool, error)
	DeleteSplitFetchTimestamp(context.Context, elements.SplitKey) (bool, error)
}

type CacheStorageOptions struct {
	Address   string
	Password  string
	KeyPrefix string
}

// CacheStorage coordinates the local split cache through redis. A fetch
// lock per split keeps concurrent readers from downloading the same split
// into a shared cache directory at the same time.
type CacheStorage struct {
	logger *slog.Logger
	client *goredislib.Client
	pool   redsyncredis.Pool
	sync   *redsync.Redsync

	KeyPrefix string
}

func NewCacheStorage(
	ctx context.Context,
	logger *slog.Logger,
	options CacheStorageOptions,
) (*CacheStorage, error) {
	client := goredislib.NewClient(&goredislib.Options{
		Addr:     options.Address,
		Password: options.Password, // no password set
		DB:       0,                // use default DB
	})

	redisPool := goredis.NewPool(client)
	mutexSync := redsync.New(redisPool)

	cacheStorage := CacheStorage{
		logger:    logger,
		client:    client,
		pool:      redisPool,
		sync:      mutexSync,
		KeyPrefix: options.KeyPrefix,
	}
	return &cacheStorage, nil
}

func (obj *CacheStorage) Key(key string) string {
	return fmt.Sprintf("%s-%s", obj.KeyPrefix, key)
}

func (obj *CacheStorage) DerCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	derivedCtx, cancelFunc := context.WithTimeout(ctx, time.Second*15)
	return derivedCtx, cancelFunc
}

func (obj *CacheStorage) AcquireLock(ctx context.Context, key string, duration time.Duration) (ILock, error) {
	mutex := obj.sync.NewMutex(obj.Key(key), redsync.WithExpiry(duration))
	if err := mutex.TryLockContext(ctx); err != nil {
		return nil, err
	}
	return mutex, nil
}

func (obj *CacheStorage) ReleaseLock(ctx context.Context, lock ILock) (bool, error) {
	ok, err := lock.UnlockContext(ctx)
	return ok, err
}

func (obj *CacheStorage) ClaimSplitFetch(ctx context.Context, splitKey elements.SplitKey, duration time.Duration) (ILock, error) {
	key := fmt.Sprintf("%s/split-state/fetch-lock/%s", obj.KeyPrefix, splitKey.Path())
	return obj.AcquireLock(ctx, key, duration)
}

func (obj *CacheStorage) ReleaseSplitFetchLock(ctx context.Context, lock ILock) (bool, error) {
	return obj.ReleaseLock(ctx, lock)
}

func (obj *CacheStorage) GetSplitFetchTimestamp(ctx context.Context, splitKey elements.SplitKey) (time.Time, error) {
	key := fmt.Sprintf("%s/split-state/fetch-ts/%s", obj.KeyPrefix, splitKey.Path())
	ctx, cancelFunc := obj.DerCtx(ctx)
	defer cancelFunc()
	result := obj.client.Get(ctx, obj.Key(key))
	if result.Err() != nil {
		return time.Time{}, result.Err()
	}
	ts, err := strconv.ParseInt(result.Val(), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ts).UTC(), nil
}

func (obj *CacheStorage) SetSplitFetchTimestamp(ctx context.Context, splitKey elements.SplitKey) (bool, error) {
	key := fmt.Sprintf("%s/split-state/fetch-ts/%s", obj.KeyPrefix, splitKey.Path())
	ctx, cancelFunc := obj.DerCtx(ctx)
	defer cancelFunc()
	result := obj.client.Set(ctx, obj.Key(key), time.Now().UTC().UnixMilli(), 0)
	if result.Err() != nil {
		return false, result.Err()
	}
	return true, nil
}

func (obj *CacheStorage) DeleteSplitFetchTimestamp(ctx context.Context, splitKey elements.SplitKey) (bool, error) {
	key := fmt.Sprintf("%s/split-state/fetch-ts/%s", obj.KeyPrefix, splitKey.Path())
	ctx, cancelFunc := obj.DerCtx(ctx)
	defer cancelFunc()
	result := obj.client.Del(ctx, obj.Key(key))
	return result.Val() == 1, result.Err()
}
