package cachestore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
)

// ====================================================================================
// This file defines a set of interfaces to abstract the Google Cloud Storage client.
// This abstraction allows the GCSStore to be tested without needing a real
// GCS client, improving unit test quality and speed.
// ====================================================================================

// --- GCS Client Abstraction Interfaces ---

// GCSClient abstracts the top-level *storage.Client.
type GCSClient interface {
	Bucket(name string) GCSBucketHandle
}

// GCSBucketHandle abstracts a *storage.BucketHandle.
type GCSBucketHandle interface {
	Object(name string) GCSObjectHandle
	// Objects iterates the names of objects under prefix. The iterator
	// signals exhaustion with google.golang.org/api/iterator.Done.
	Objects(ctx context.Context, prefix string) GCSObjectIterator
}

// GCSObjectHandle abstracts a *storage.ObjectHandle.
type GCSObjectHandle interface {
	NewWriter(ctx context.Context) io.WriteCloser
	NewReader(ctx context.Context) (io.ReadCloser, error)
	Delete(ctx context.Context) error
}

// GCSObjectIterator abstracts a *storage.ObjectIterator down to the object
// names, which is all the store needs.
type GCSObjectIterator interface {
	Next() (string, error)
}

// --- Adapters to wrap the concrete Google Cloud Storage client ---

// gcsClientAdapter wraps a *storage.Client to satisfy the GCSClient interface.
type gcsClientAdapter struct {
	client *storage.Client
}

// NewGCSClientAdapter creates an adapter that makes the concrete *storage.Client
// conform to the GCSClient interface.
func NewGCSClientAdapter(client *storage.Client) GCSClient {
	if client == nil {
		return nil
	}
	return &gcsClientAdapter{client: client}
}

// Bucket returns an adapter for the underlying bucket handle.
func (a *gcsClientAdapter) Bucket(name string) GCSBucketHandle {
	return &gcsBucketHandleAdapter{handle: a.client.Bucket(name)}
}

// gcsBucketHandleAdapter wraps a *storage.BucketHandle to satisfy GCSBucketHandle.
type gcsBucketHandleAdapter struct {
	handle *storage.BucketHandle
}

// Object returns an adapter for the underlying object handle.
func (a *gcsBucketHandleAdapter) Object(name string) GCSObjectHandle {
	return &gcsObjectHandleAdapter{handle: a.handle.Object(name)}
}

// Objects returns an adapter over the underlying object iterator.
func (a *gcsBucketHandleAdapter) Objects(ctx context.Context, prefix string) GCSObjectIterator {
	return &gcsObjectIteratorAdapter{it: a.handle.Objects(ctx, &storage.Query{Prefix: prefix})}
}

// gcsObjectHandleAdapter wraps a *storage.ObjectHandle.
type gcsObjectHandleAdapter struct {
	handle *storage.ObjectHandle
}

// NewWriter returns the underlying *storage.Writer, which already satisfies io.WriteCloser.
func (a *gcsObjectHandleAdapter) NewWriter(ctx context.Context) io.WriteCloser {
	return a.handle.NewWriter(ctx)
}

// NewReader returns a reader over the object's content.
func (a *gcsObjectHandleAdapter) NewReader(ctx context.Context) (io.ReadCloser, error) {
	return a.handle.NewReader(ctx)
}

// Delete removes the object.
func (a *gcsObjectHandleAdapter) Delete(ctx context.Context) error {
	return a.handle.Delete(ctx)
}

// gcsObjectIteratorAdapter wraps a *storage.ObjectIterator, surfacing just
// the object name per step.
type gcsObjectIteratorAdapter struct {
	it *storage.ObjectIterator
}

// Next returns the next object name, or iterator.Done when exhausted.
func (a *gcsObjectIteratorAdapter) Next() (string, error) {
	attrs, err := a.it.Next()
	if err != nil {
		return "", err
	}
	return attrs.Name, nil
}
