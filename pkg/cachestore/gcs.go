package cachestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

// GCSStoreConfig holds configuration for the Cloud Storage-backed store.
type GCSStoreConfig struct {
	BucketName string
	// ObjectPrefix namespaces entries within the bucket, e.g. "acs-cache".
	ObjectPrefix string
}

// GCSStore is an EntryStore backed by a Cloud Storage bucket, one object per
// key. GCS object writes only become visible when the writer is closed, so
// Put is atomic without any temp-object dance.
type GCSStore struct {
	client GCSClient
	config GCSStoreConfig
	logger zerolog.Logger
}

// NewGCSStore creates a new store over the given (abstracted) GCS client.
func NewGCSStore(client GCSClient, cfg GCSStoreConfig, logger zerolog.Logger) (*GCSStore, error) {
	if client == nil {
		return nil, errors.New("GCS client cannot be nil")
	}
	if cfg.BucketName == "" {
		return nil, errors.New("GCS bucket name is required")
	}
	return &GCSStore{
		client: client,
		config: cfg,
		logger: logger.With().Str("component", "GCSStore").Logger(),
	}, nil
}

// Get retrieves the entry object for key, or ErrNotFound.
func (s *GCSStore) Get(ctx context.Context, key Key) ([]byte, error) {
	objName := s.objectName(key)
	reader, err := s.client.Bucket(s.config.BucketName).Object(objName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open GCS object %s: %w", objName, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %s: %w", objName, err)
	}
	s.logger.Debug().Str("key", key.String()).Str("object_name", objName).Msg("GCS cache hit.")
	return data, nil
}

// Put stores data under key. The object content is committed on Close; a
// failed write leaves any prior object version in place.
func (s *GCSStore) Put(ctx context.Context, key Key, data []byte) error {
	objName := s.objectName(key)
	writer := s.client.Bucket(s.config.BucketName).Object(objName).NewWriter(ctx)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write GCS object %s: %w", objName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to commit GCS object %s: %w", objName, err)
	}
	s.logger.Debug().Str("key", key.String()).Int("bytes", len(data)).Str("object_name", objName).Msg("Stored cache entry in GCS.")
	return nil
}

// Delete removes the entry object for key.
func (s *GCSStore) Delete(ctx context.Context, key Key) error {
	objName := s.objectName(key)
	err := s.client.Bucket(s.config.BucketName).Object(objName).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete GCS object %s: %w", objName, err)
	}
	return nil
}

// EntryIDs lists the identifiers of all persisted entries under the
// configured prefix, mirroring FileStore.EntryIDs.
func (s *GCSStore) EntryIDs(ctx context.Context) ([]string, error) {
	it := s.client.Bucket(s.config.BucketName).Objects(ctx, s.config.ObjectPrefix)
	var ids []string
	for {
		name, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list GCS objects under %s: %w", s.config.ObjectPrefix, err)
		}
		ids = append(ids, strings.TrimPrefix(name, s.config.ObjectPrefix+"/"))
	}
	return ids, nil
}

func (s *GCSStore) objectName(key Key) string {
	return path.Join(s.config.ObjectPrefix, key.Filename())
}
