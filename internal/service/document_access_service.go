package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

// DocumentURL is a short-lived link to a document's content.
type DocumentURL struct {
	DocumentID uuid.UUID `json:"document_id"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DocumentContent is a document body streamed through the API.
type DocumentContent struct {
	Body        io.ReadCloser
	ContentType string
	FileName    string
}

// DocumentAccessConfig holds object-storage settings for document reads.
type DocumentAccessConfig struct {
	DefaultBucket string
	PresignExpiry int64
}

// DocumentAccessService gives reviewers read access to uploaded claim documents.
type DocumentAccessService interface {
	GetURL(ctx context.Context, docID uuid.UUID) (*DocumentURL, error)
	GetContent(ctx context.Context, docID uuid.UUID) (*DocumentContent, error)
}

type documentAccessService struct {
	docRepo port.DocumentRepository
	storage port.ObjectStorage
	cfg     DocumentAccessConfig
}

// NewDocumentAccessService creates a new DocumentAccessService.
func NewDocumentAccessService(docRepo port.DocumentRepository, storage port.ObjectStorage, cfg DocumentAccessConfig) DocumentAccessService {
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 3600
	}
	return &documentAccessService{docRepo: docRepo, storage: storage, cfg: cfg}
}

func (s *documentAccessService) resolve(ctx context.Context, docID uuid.UUID) (*domain.Document, domain.StorageObject, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, domain.StorageObject{}, err
	}
	obj, ok := domain.ResolveStorageObject(doc.StoragePath, s.cfg.DefaultBucket)
	if !ok {
		return nil, domain.StorageObject{}, fmt.Errorf("%w: unusable storage locator", domain.ErrDocumentNotFound)
	}
	return doc, obj, nil
}

func (s *documentAccessService) GetURL(ctx context.Context, docID uuid.UUID) (*DocumentURL, error) {
	doc, obj, err := s.resolve(ctx, docID)
	if err != nil {
		return nil, err
	}
	url, err := s.storage.GetPresignedURL(ctx, obj.Bucket, obj.Key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("documentAccess.GetURL: %w", err)
	}
	return &DocumentURL{
		DocumentID: doc.ID,
		URL:        url,
		ExpiresAt:  time.Now().UTC().Add(time.Duration(s.cfg.PresignExpiry) * time.Second),
	}, nil
}

func (s *documentAccessService) GetContent(ctx context.Context, docID uuid.UUID) (*DocumentContent, error) {
	doc, obj, err := s.resolve(ctx, docID)
	if err != nil {
		return nil, err
	}
	body, contentType, err := s.storage.Download(ctx, obj.Bucket, obj.Key)
	if err != nil {
		return nil, fmt.Errorf("documentAccess.GetContent: %w", err)
	}
	if contentType == "" {
		contentType = doc.MimeType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &DocumentContent{Body: body, ContentType: contentType, FileName: doc.FileName}, nil
}
