package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
	"github.com/apollineguerineau/OnTheFloor/internal/storage"
)

// PhotoWithURL pairs photo metadata with a temporary download URL.
type PhotoWithURL struct {
	Photo       domain.Photo `json:"photo"`
	DownloadURL string       `json:"downloadUrl"`
}

// PhotoService attaches photos to sessions. Metadata lives in the photo
// repository; the bytes go straight to object storage through presigned URLs,
// so image data never flows through this process.
type PhotoService interface {
	// AttachPhoto records photo metadata on a session and returns a
	// presigned URL the caller PUTs the image bytes to.
	AttachPhoto(ctx context.Context, userID, sessionID primitive.ObjectID, contentType, notes string) (*domain.Photo, string, error)
	ListPhotosBySession(ctx context.Context, userID, sessionID primitive.ObjectID) ([]PhotoWithURL, error)
	DeletePhoto(ctx context.Context, userID, photoID primitive.ObjectID) error
}

// photoService implements the PhotoService interface.
type photoService struct {
	photoRepo   repository.PhotoRepository
	ownership   OwnershipService
	fileStorage storage.FileStorage
}

// NewPhotoService creates a new instance of photoService.
func NewPhotoService(
	photoRepo repository.PhotoRepository,
	ownership OwnershipService,
	fileStorage storage.FileStorage,
) PhotoService {
	return &photoService{
		photoRepo:   photoRepo,
		ownership:   ownership,
		fileStorage: fileStorage,
	}
}

// AttachPhoto creates the metadata record and a presigned upload URL.
func (s *photoService) AttachPhoto(ctx context.Context, userID, sessionID primitive.ObjectID, contentType, notes string) (*domain.Photo, string, error) {
	if contentType == "" {
		return nil, "", ErrValidationFailed
	}
	if err := s.ownership.CheckSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, "", err
	}

	objectKey := fmt.Sprintf("sessions/%s/photos/%s", sessionID.Hex(), uuid.NewString())

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, "", err
	}

	photo := &domain.Photo{
		SessionID: sessionID,
		ObjectKey: objectKey,
		Notes:     notes,
	}
	photoID, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		return nil, "", err
	}
	photo.ID = photoID
	return photo, uploadURL, nil
}

// ListPhotosBySession returns a session's photos with download URLs.
func (s *photoService) ListPhotosBySession(ctx context.Context, userID, sessionID primitive.ObjectID) ([]PhotoWithURL, error) {
	if err := s.ownership.CheckSessionOwner(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := make([]PhotoWithURL, 0, len(photos))
	for _, photo := range photos {
		downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		result = append(result, PhotoWithURL{Photo: photo, DownloadURL: downloadURL})
	}
	return result, nil
}

// DeletePhoto removes the stored object and then the metadata.
func (s *photoService) DeletePhoto(ctx context.Context, userID, photoID primitive.ObjectID) error {
	if err := s.ownership.CheckPhotoOwner(ctx, userID, photoID); err != nil {
		return err
	}

	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}

	if err := s.fileStorage.DeleteObject(ctx, photo.ObjectKey); err != nil {
		return err
	}
	return s.photoRepo.Delete(ctx, photoID)
}
