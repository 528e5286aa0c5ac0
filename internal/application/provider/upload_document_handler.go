package provider

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// MaxDocumentPhotoSize is the largest accepted document photo, in bytes.
const MaxDocumentPhotoSize = 5 << 20

// DocumentStorage stores provider document photos and returns their public URL.
type DocumentStorage interface {
	UploadDocumentPhoto(ctx context.Context, providerID string, filename string, data io.Reader, size int64, contentType string) (string, error)
}

// UploadDocumentCommand represents the upload document photo command.
type UploadDocumentCommand struct {
	ProviderID  string `json:"-"`
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp"`
	Content     []byte `json:"content" validate:"required,max=5242880"`
}

// UploadDocumentHandler handles the UploadDocumentPhoto command.
type UploadDocumentHandler struct {
	repo      provider.Repository
	storage   DocumentStorage
	validator *validation.Validator
}

// NewUploadDocumentHandler creates a new UploadDocumentHandler.
func NewUploadDocumentHandler(repo provider.Repository, storage DocumentStorage, validator *validation.Validator) *UploadDocumentHandler {
	return &UploadDocumentHandler{repo: repo, storage: storage, validator: validator}
}

// Handle uploads a document photo for a provider owned by the actor and
// returns its URL. Unverified providers may upload; the photos feed verification.
func (h *UploadDocumentHandler) Handle(ctx context.Context, act *actor.Actor, cmd UploadDocumentCommand) (string, error) {
	// 1. Resolve actor
	if err := actor.Require(act); err != nil {
		return "", err
	}

	// 2. Validate fields
	if err := h.validator.Validate(ctx, cmd); err != nil {
		return "", err
	}

	// 3. Load provider owned by the actor
	id, err := uuid.Parse(cmd.ProviderID)
	if err != nil {
		return "", provider.ErrNotFound
	}
	entity, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !entity.IsOwnedBy(act.ID) {
		return "", provider.ErrNotFound
	}

	// 4. Upload
	url, err := h.storage.UploadDocumentPhoto(ctx, entity.ID().String(), cmd.FileName,
		bytes.NewReader(cmd.Content), int64(len(cmd.Content)), cmd.ContentType)
	if err != nil {
		return "", err
	}

	// 5. Record and persist
	if err := entity.AddDocumentPhoto(url); err != nil {
		return "", err
	}
	if err := h.repo.Update(ctx, entity); err != nil {
		return "", err
	}

	return url, nil
}
