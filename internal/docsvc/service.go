// Package docsvc manages design documents: metadata, versioned JSON
// snapshots, and ownership checks.
package docsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/store"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid document")
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

type DocumentInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

const timeFormat = "2006-01-02T15:04:05Z"

// Create registers a new document and seeds version 1 with an empty
// root frame, so every document has a loadable snapshot from birth.
func (s *Service) Create(ctx context.Context, name, ownerID string) (*DocumentInfo, error) {
	docID := typeid.NewDocumentID()

	dbDoc, err := s.store.CreateDocument(ctx, docID, name, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	seed := document.NewEmpty(typeid.NewNodeID())
	raw, err := seed.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal seed document: %w", err)
	}

	if _, err := s.store.CreateSnapshot(ctx, typeid.NewSnapshotID(), docID, raw); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toInfo(dbDoc), nil
}

func (s *Service) Get(ctx context.Context, docID, userID string) (*DocumentInfo, error) {
	dbDoc, err := s.owned(ctx, docID, userID)
	if err != nil {
		return nil, err
	}
	return toInfo(dbDoc), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]DocumentInfo, error) {
	dbDocs, err := s.store.ListDocumentsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	infos := make([]DocumentInfo, len(dbDocs))
	for i, d := range dbDocs {
		infos[i] = *toInfo(d)
	}
	return infos, nil
}

func (s *Service) Rename(ctx context.Context, docID, userID, name string) error {
	if _, err := s.owned(ctx, docID, userID); err != nil {
		return err
	}
	if err := s.store.RenameDocument(ctx, docID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("rename document: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, docID, userID string) error {
	if _, err := s.owned(ctx, docID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, docID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// LoadLatest returns the newest snapshot's document tree.
func (s *Service) LoadLatest(ctx context.Context, docID, userID string) (*document.Document, error) {
	if _, err := s.owned(ctx, docID, userID); err != nil {
		return nil, err
	}
	snap, err := s.store.GetLatestSnapshot(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	doc, err := document.FromJSON(snap.Document)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return doc, nil
}

// LatestSnapshotJSON returns the newest snapshot untouched, for
// handing straight to an HTTP response.
func (s *Service) LatestSnapshotJSON(ctx context.Context, docID, userID string) (json.RawMessage, error) {
	if _, err := s.owned(ctx, docID, userID); err != nil {
		return nil, err
	}
	snap, err := s.store.GetLatestSnapshot(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Document, nil
}

// Save validates the tree and appends it as a new snapshot version.
// Structurally broken documents are rejected rather than persisted.
func (s *Service) Save(ctx context.Context, docID string, doc *document.Document) error {
	if issues := document.Check(doc); len(issues) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, issues[0].Error())
	}
	raw, err := doc.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if _, err := s.store.CreateSnapshot(ctx, typeid.NewSnapshotID(), docID, raw); err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, docID, userID string) (store.Doc, error) {
	dbDoc, err := s.store.GetDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Doc{}, ErrNotFound
		}
		return store.Doc{}, fmt.Errorf("get document: %w", err)
	}
	if dbDoc.OwnerID != userID {
		return store.Doc{}, ErrForbidden
	}
	return dbDoc, nil
}

func toInfo(d store.Doc) *DocumentInfo {
	return &DocumentInfo{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: d.UpdatedAt.UTC().Format(timeFormat),
	}
}
