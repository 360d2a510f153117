package cachestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStoreConfig holds configuration for the Firestore-backed store.
type FirestoreStoreConfig struct {
	ProjectID      string
	CollectionName string
}

// firestoreEntry is the document shape persisted per key. The clear-text key
// is stored alongside the blob so operators can tell entries apart; the
// document ID itself is the hashed filename form.
type firestoreEntry struct {
	Key  string `firestore:"key"`
	Data []byte `firestore:"data"`
}

// FirestoreStore is an EntryStore backed by a Firestore collection, one
// document per key. Suitable for low-volume shared caches; use RedisStore
// when fetch results are large or hot.
type FirestoreStore struct {
	client         *firestore.Client
	collectionName string
	logger         zerolog.Logger
}

// NewFirestoreStore creates a new FirestoreStore over an existing client.
// The client's lifecycle is managed by the caller.
func NewFirestoreStore(cfg *FirestoreStoreConfig, client *firestore.Client, logger zerolog.Logger) (*FirestoreStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client cannot be nil")
	}

	logger.Info().Str("project_id", cfg.ProjectID).Str("collection", cfg.CollectionName).Msg("FirestoreStore initialized.")

	return &FirestoreStore{
		client:         client,
		collectionName: cfg.CollectionName,
		logger:         logger.With().Str("component", "FirestoreStore").Logger(),
	}, nil
}

// Get retrieves the entry document for key, or ErrNotFound.
func (s *FirestoreStore) Get(ctx context.Context, key Key) ([]byte, error) {
	docRef := s.client.Collection(s.collectionName).Doc(key.Filename())
	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("key", key.String()).Msg("Failed to get entry document from Firestore.")
		return nil, fmt.Errorf("firestore get for %q: %w", key.String(), err)
	}

	var entry firestoreEntry
	if err := docSnap.DataTo(&entry); err != nil {
		s.logger.Error().Err(err).Str("key", key.String()).Msg("Failed to map Firestore entry document.")
		return nil, fmt.Errorf("firestore DataTo for %q: %w", key.String(), err)
	}

	s.logger.Debug().Str("key", key.String()).Msg("Firestore cache hit.")
	return entry.Data, nil
}

// Put stores data under key. Firestore document writes are atomic, so a
// reader sees either the previous entry or the new one.
func (s *FirestoreStore) Put(ctx context.Context, key Key, data []byte) error {
	entry := firestoreEntry{Key: key.String(), Data: data}
	_, err := s.client.Collection(s.collectionName).Doc(key.Filename()).Set(ctx, entry)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key.String()).Msg("Failed to write entry document to Firestore.")
		return fmt.Errorf("firestore set for %q: %w", key.String(), err)
	}
	s.logger.Debug().Str("key", key.String()).Msg("Stored cache entry in Firestore.")
	return nil
}

// Delete removes the entry document for key. Firestore reports success for
// deletes of missing documents, so existence is checked first to keep the
// ErrNotFound contract.
func (s *FirestoreStore) Delete(ctx context.Context, key Key) error {
	docRef := s.client.Collection(s.collectionName).Doc(key.Filename())
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("firestore get for %q: %w", key.String(), err)
	}
	if _, err := docRef.Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete for %q: %w", key.String(), err)
	}
	return nil
}

// Close is a no-op as the Firestore client's lifecycle is managed externally.
func (s *FirestoreStore) Close() error {
	s.logger.Info().Msg("FirestoreStore does not close the injected Firestore client.")
	return nil
}
