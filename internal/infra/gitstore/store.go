// Package gitstore persists the repository state inside a git repository
// using plumbing only (refs and blobs). The worktree and index are never
// touched.
package gitstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/infra/csvstore"
)

// Ensure Store implements domain.StateStore and domain.StoreInitializer.
var (
	_ domain.StateStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Store implements domain.StateStore using git refs.
//
// Data structure:
//
//	refs/<namespace>/
//	  initialized → blob (marker)
//	  state       → blob (record stream, same format as csvstore)
//	  meta        → blob (nextID and history, YAML)
type Store struct {
	repo      *git.Repository
	namespace string // e.g., "tracker"
	mu        sync.RWMutex
}

// New opens the repository at repoPath (searching parent directories).
func New(repoPath, namespace string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	return &Store{
		repo:      repo,
		namespace: namespace,
	}
}

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

// stateRef returns the ref name for the record stream.
func (s *Store) stateRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "state")
}

// metaRef returns the ref name for metadata.
func (s *Store) metaRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "meta")
}

// initializedRef returns the ref name for the initialized marker.
func (s *Store) initializedRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "initialized")
}

// Initialize creates the initialized marker if it doesn't exist.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	if err == nil {
		return nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("%w: check initialized ref: %w", domain.ErrPersistence, err)
	}

	return s.setBlobRef(s.initializedRef(), []byte("initialized"))
}

// IsInitialized checks if the store has been initialized.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	return err == nil
}

// Load reads the state blob and metadata. An initialized store without a
// state blob yields an empty state.
func (s *Store) Load() (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.repo.Reference(s.initializedRef(), true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("%w: check initialized ref: %w", domain.ErrPersistence, err)
	}

	state := &domain.State{}
	data, err := s.readRef(s.stateRef())
	if err != nil {
		return nil, err
	}
	if data != nil {
		if state, err = csvstore.NewDecoder(bytes.NewReader(data)).Decode(); err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
	}

	m, err := s.loadMeta()
	if err != nil {
		return nil, err
	}
	m.Apply(state)
	return state, nil
}

// Save writes the state and metadata blobs and moves both refs.
func (s *Store) Save(state *domain.State) error {
	var buf bytes.Buffer
	if err := csvstore.NewEncoder(&buf).Encode(state); err != nil {
		return fmt.Errorf("%w: encode state: %w", domain.ErrPersistence, err)
	}
	metaData, err := csvstore.EncodeMeta(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setBlobRef(s.stateRef(), buf.Bytes()); err != nil {
		return err
	}
	return s.setBlobRef(s.metaRef(), metaData)
}

// loadMeta loads metadata from the meta ref.
// A missing meta ref yields zero values; the ID counter is then derived
// from the records.
func (s *Store) loadMeta() (*csvstore.Meta, error) {
	data, err := s.readRef(s.metaRef())
	if err != nil {
		return nil, err
	}
	return csvstore.DecodeMeta(data)
}

// readRef returns the blob a ref points to, or nil if the ref is absent.
func (s *Store) readRef(name plumbing.ReferenceName) ([]byte, error) {
	ref, err := s.repo.Reference(name, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get ref %s: %w", domain.ErrPersistence, name, err)
	}
	return s.readBlob(ref.Hash())
}

// setBlobRef writes data as a blob and points name at it.
func (s *Store) setBlobRef(name plumbing.ReferenceName, data []byte) error {
	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(name, hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("%w: set ref %s: %w", domain.ErrPersistence, name, err)
	}
	return nil
}

// writeBlob writes data to a blob and returns the hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w: create blob writer: %w", domain.ErrPersistence, err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("%w: write blob: %w", domain.ErrPersistence, writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w: store blob: %w", domain.ErrPersistence, err)
	}

	return hash, nil
}

// readBlob reads the content of a blob.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: get blob: %w", domain.ErrPersistence, err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: read blob: %w", domain.ErrPersistence, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read blob data: %w", domain.ErrPersistence, err)
	}
	return data, nil
}
