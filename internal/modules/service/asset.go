package service

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/contenthub/contenthub/internal/infra/blob"
	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/pkg/access"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlobStore is satisfied by *blob.S3Deps.
type BlobStore interface {
	Presigner
	UploadFormFile(ctx context.Context, keyPrefix string, fh *multipart.FileHeader) (*blob.UploadedMeta, error)
	Delete(ctx context.Context, key string) error
}

type AssetService interface {
	Upload(ctx context.Context, caller *model.User, in UploadAssetInput) (*model.Asset, error)
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*AssetDetail, error)
	Update(ctx context.Context, caller *model.User, id uuid.UUID, in UpdateAssetInput) (*model.Asset, error)
	TrackView(ctx context.Context, caller *model.User, id uuid.UUID) error
	TrackDownload(ctx context.Context, caller *model.User, id uuid.UUID) (string, error)
}

type UploadAssetInput struct {
	File           *multipart.FileHeader
	Title          string
	Description    string
	Department     string
	Usage          model.AssetUsage
	ProductionYear *int
	Tags           []string
	Width          *int
	Height         *int
	Duration       *float64
}

// UpdateAssetInput is a metadata patch; nil fields are left unchanged.
type UpdateAssetInput struct {
	Title          *string
	Description    *string
	Department     *string
	Usage          *model.AssetUsage
	ProductionYear *int
	Tags           *[]string
}

type AssetDetail struct {
	Asset       *model.Asset `json:"asset"`
	DownloadURL string       `json:"download_url,omitempty"`
}

type assetService struct {
	r      repo.AssetRepo
	blob   BlobStore
	expire time.Duration
	log    *zap.Logger
}

func NewAssetService(r repo.AssetRepo, blob BlobStore, presignExpire time.Duration, log *zap.Logger) AssetService {
	return &assetService{r: r, blob: blob, expire: presignExpire, log: log}
}

func (s *assetService) Upload(ctx context.Context, caller *model.User, in UploadAssetInput) (*model.Asset, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	if in.File == nil {
		return nil, apperr.Validation("A file is required")
	}
	if in.Usage == "" {
		in.Usage = model.UsageInternal
	}
	if !in.Usage.IsValid() {
		return nil, apperr.Validation("Usage must be internal or public")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSuffix(in.File.Filename, filepath.Ext(in.File.Filename))
	}

	meta, err := s.blob.UploadFormFile(ctx, "assets/"+caller.ID.String(), in.File)
	if err != nil {
		return nil, apperr.Unavailable("File storage unavailable", err)
	}

	a := &model.Asset{
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		Type:             model.AssetTypeFromMIME(meta.MIME),
		MimeType:         meta.MIME,
		FileSize:         meta.SizeB,
		Width:            in.Width,
		Height:           in.Height,
		Duration:         in.Duration,
		Department:       strings.TrimSpace(in.Department),
		Usage:            in.Usage,
		ProductionYear:   in.ProductionYear,
		ProcessingStatus: model.ProcessingCompleted,
		Bucket:           meta.Bucket,
		S3Key:            meta.Key,
		ETag:             meta.ETag,
		SHA256:           meta.SHA256,
		UploadedBy:       caller.ID,
	}
	if err := s.r.Create(ctx, a, in.Tags); err != nil {
		if derr := s.blob.Delete(context.WithoutCancel(ctx), meta.Key); derr != nil {
			s.log.Sugar().Warnw("orphaned upload", "key", meta.Key, "err", derr)
		}
		return nil, translate(err, msgAssetNotFound, "Asset already exists")
	}

	s.log.Sugar().Infow("asset uploaded", "asset_id", a.ID, "user_id", caller.ID, "type", a.Type, "size", a.FileSize)
	return a, nil
}

func (s *assetService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*AssetDetail, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}
	a, err := s.r.Get(ctx, id)
	if err != nil {
		return nil, translate(err, msgAssetNotFound, msgAssetNotFound)
	}
	return &AssetDetail{Asset: a, DownloadURL: s.presign(ctx, a, false)}, nil
}

// Update patches metadata. Assets under review are frozen, and any change to
// an approved asset withdraws its publishing approval.
func (s *assetService) Update(ctx context.Context, caller *model.User, id uuid.UUID, in UpdateAssetInput) (*model.Asset, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated(msgSignInRequired)
	}

	fields := map[string]any{}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, apperr.Validation("Title cannot be empty")
		}
		fields["title"] = t
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Department != nil {
		fields["department"] = strings.TrimSpace(*in.Department)
	}
	if in.Usage != nil {
		if !in.Usage.IsValid() {
			return nil, apperr.Validation("Usage must be internal or public")
		}
		fields["usage"] = *in.Usage
	}
	if in.ProductionYear != nil {
		fields["production_year"] = *in.ProductionYear
	}
	var tags []string
	if in.Tags != nil {
		tags = append([]string{}, *in.Tags...)
	}
	if len(fields) == 0 && in.Tags == nil {
		return nil, apperr.Validation("Nothing to update")
	}
	fields["ready_for_publishing"] = false

	a, err := s.r.Update(ctx, id, fields, tags, func(a *model.Asset) error {
		if !access.CanSubmit(caller, a) {
			return apperr.Forbidden(msgUploaderOnly)
		}
		if a.ProcessingStatus == model.ProcessingReviewing {
			return apperr.Conflict("This asset is under review and cannot be edited")
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, msgAssetNotFound, "This asset changed, reload and try again")
	}
	return a, nil
}

func (s *assetService) TrackView(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if caller == nil {
		return apperr.Unauthenticated(msgSignInRequired)
	}
	return translate(s.r.IncrementCounter(ctx, id, repo.CounterViews), msgAssetNotFound, msgAssetNotFound)
}

// TrackDownload counts the download and returns a URL that serves the file
// as an attachment.
func (s *assetService) TrackDownload(ctx context.Context, caller *model.User, id uuid.UUID) (string, error) {
	if caller == nil {
		return "", apperr.Unauthenticated(msgSignInRequired)
	}
	if err := s.r.IncrementCounter(ctx, id, repo.CounterDownloads); err != nil {
		return "", translate(err, msgAssetNotFound, msgAssetNotFound)
	}
	a, err := s.r.Get(ctx, id)
	if err != nil {
		return "", translate(err, msgAssetNotFound, msgAssetNotFound)
	}
	return s.presign(ctx, a, true), nil
}

func (s *assetService) presign(ctx context.Context, a *model.Asset, attachment bool) string {
	if s.blob == nil || a.S3Key == "" {
		return ""
	}
	filename := ""
	if attachment {
		filename = a.Title + filepath.Ext(a.S3Key)
	}
	url, err := s.blob.PresignGet(ctx, a.S3Key, filename, s.expire)
	if err != nil {
		s.log.Sugar().Warnw("presign asset failed", "asset_id", a.ID, "err", err)
		return ""
	}
	return url
}
