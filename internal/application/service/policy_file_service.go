package service

import (
	"context"
	"io"
	"strings"

	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/internal/infrastructure/storage"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"go.uber.org/zap"
)

// FileService stores uploads and manages policy attachments
type FileService struct {
	policyRepo repository.PolicyRepository
	fileRepo   repository.PolicyFileRepository
	files      FileStore
	maxSize    int64
	log        *zap.Logger
}

// NewFileService creates a new file service. maxSize <= 0 disables the size check.
func NewFileService(
	policyRepo repository.PolicyRepository,
	fileRepo repository.PolicyFileRepository,
	files FileStore,
	maxSize int64,
	log *zap.Logger,
) *FileService {
	return &FileService{
		policyRepo: policyRepo,
		fileRepo:   fileRepo,
		files:      files,
		maxSize:    maxSize,
		log:        log,
	}
}

// UploadInput is a single multipart file
type UploadInput struct {
	Name string
	Size int64
	Body io.Reader
}

// Upload writes the file to storage and returns its public descriptor
func (s *FileService) Upload(ctx context.Context, input *UploadInput) (*storage.StoredFile, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewFieldError("file", "is required")
	}
	if input.Size == 0 {
		return nil, apperror.NewFieldError("file", "is empty")
	}
	if s.maxSize > 0 && input.Size > s.maxSize {
		return nil, apperror.NewFieldError("file", "exceeds the upload size limit")
	}

	return s.files.Save(ctx, input.Name, input.Body)
}

// ListFiles returns a policy's attachments in upload order
func (s *FileService) ListFiles(ctx context.Context, policyID uint) ([]entity.PolicyFile, error) {
	if err := s.requirePolicy(ctx, policyID); err != nil {
		return nil, err
	}
	files, err := s.fileRepo.ListByPolicy(ctx, policyID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []entity.PolicyFile{}
	}
	return files, nil
}

// AttachFile uploads a file and links it to the policy
func (s *FileService) AttachFile(ctx context.Context, policyID uint, input *UploadInput) (*entity.PolicyFile, error) {
	if err := s.requirePolicy(ctx, policyID); err != nil {
		return nil, err
	}

	stored, err := s.Upload(ctx, input)
	if err != nil {
		return nil, err
	}

	file := &entity.PolicyFile{
		PolicyID: policyID,
		Name:     stored.Name,
		URL:      stored.URL,
		MimeType: stored.MimeType,
		Size:     stored.Size,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		if rmErr := s.files.Remove(stored.URL); rmErr != nil {
			s.log.Warn("Failed to remove stored file", zap.String("url", stored.URL), zap.Error(rmErr))
		}
		return nil, err
	}
	return file, nil
}

// DeleteFile detaches a file from its policy and removes the binary
func (s *FileService) DeleteFile(ctx context.Context, policyID, fileID uint) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file == nil || file.PolicyID != policyID {
		return apperror.NewNotFoundError("File")
	}

	orphaned, err := s.fileRepo.Delete(ctx, fileID)
	if err != nil {
		return err
	}
	for _, f := range orphaned {
		if err := s.files.Remove(f.URL); err != nil {
			s.log.Warn("Failed to remove stored file", zap.String("url", f.URL), zap.Error(err))
		}
	}
	return nil
}

func (s *FileService) requirePolicy(ctx context.Context, policyID uint) error {
	policy, err := s.policyRepo.GetByID(ctx, policyID)
	if err != nil {
		return err
	}
	if policy == nil {
		return apperror.NewNotFoundError("Policy")
	}
	return nil
}
