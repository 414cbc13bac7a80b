package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssetType string

const (
	AssetTypeImage    AssetType = "IMAGE"
	AssetTypeVideo    AssetType = "VIDEO"
	AssetTypeDocument AssetType = "DOCUMENT"
	AssetTypeAudio    AssetType = "AUDIO"
	AssetTypeModel3D  AssetType = "MODEL_3D"
	AssetTypeDesign   AssetType = "DESIGN"
)

func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeImage, AssetTypeVideo, AssetTypeDocument, AssetTypeAudio, AssetTypeModel3D, AssetTypeDesign:
		return true
	}
	return false
}

// mime types whose generic prefix does not tell the asset type
var assetTypeByMIME = map[string]AssetType{
	"application/pdf":            AssetTypeDocument,
	"application/msword":         AssetTypeDocument,
	"text/plain":                 AssetTypeDocument,
	"image/vnd.adobe.photoshop":  AssetTypeDesign,
	"application/postscript":     AssetTypeDesign,
	"application/illustrator":    AssetTypeDesign,
	"application/x-figma":        AssetTypeDesign,
	"application/x-sketch":       AssetTypeDesign,
	"application/vnd.ms-pki.stl": AssetTypeModel3D,
	"application/x-blender":      AssetTypeModel3D,
}

// AssetTypeFromMIME guesses the asset type for an uploaded file.
func AssetTypeFromMIME(mime string) AssetType {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if t, ok := assetTypeByMIME[mime]; ok {
		return t
	}
	switch {
	case strings.HasPrefix(mime, "model/"):
		return AssetTypeModel3D
	case strings.HasPrefix(mime, "image/"):
		return AssetTypeImage
	case strings.HasPrefix(mime, "video/"):
		return AssetTypeVideo
	case strings.HasPrefix(mime, "audio/"):
		return AssetTypeAudio
	}
	return AssetTypeDocument
}

type ProcessingStatus string

const (
	ProcessingUploading  ProcessingStatus = "UPLOADING"
	ProcessingProcessing ProcessingStatus = "PROCESSING"
	ProcessingCompleted  ProcessingStatus = "COMPLETED"
	ProcessingFailed     ProcessingStatus = "FAILED"
	ProcessingReviewing  ProcessingStatus = "REVIEWING"
)

type AssetUsage string

const (
	UsageInternal AssetUsage = "internal"
	UsagePublic   AssetUsage = "public"
)

func (u AssetUsage) IsValid() bool {
	return u == UsageInternal || u == UsagePublic
}

type Asset struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Type        AssetType `gorm:"type:text;not null;index" json:"type"`
	MimeType    string    `gorm:"column:mime_type;type:text;not null" json:"mime_type"`
	FileSize    int64     `gorm:"type:bigint;not null;default:0;check:file_size >= 0" json:"file_size"`
	Width       *int      `gorm:"column:width" json:"width,omitempty"`
	Height      *int      `gorm:"column:height" json:"height,omitempty"`
	Duration    *float64  `gorm:"column:duration_seconds;type:numeric" json:"duration_seconds,omitempty"`

	Tags []Tag `gorm:"many2many:asset_tags;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"tags"`

	Department     string     `gorm:"type:text;not null;default:''" json:"department"`
	Usage          AssetUsage `gorm:"type:text;not null;default:'internal'" json:"usage"`
	ProductionYear *int       `gorm:"column:production_year" json:"production_year,omitempty"`

	ReadyForPublishing bool             `gorm:"not null;default:false" json:"ready_for_publishing"`
	ProcessingStatus   ProcessingStatus `gorm:"type:text;not null;default:'COMPLETED';index" json:"processing_status"`

	ViewCount     int64 `gorm:"not null;default:0;check:view_count >= 0" json:"view_count"`
	DownloadCount int64 `gorm:"not null;default:0;check:download_count >= 0" json:"download_count"`

	// storage location, never exposed directly; clients get presigned URLs
	Bucket string `gorm:"type:text;not null;default:''" json:"-"`
	S3Key  string `gorm:"column:s3_key;type:text;not null;default:''" json:"-"`
	ETag   string `gorm:"column:etag;type:text" json:"-"`
	SHA256 string `gorm:"column:sha256;type:text" json:"sha256,omitempty"`

	UploadedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	Uploader   *User     `gorm:"foreignKey:UploadedBy;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE;" json:"uploader,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Submittable reports whether the asset's own state allows a new review.
// Open reviews are checked separately against the reviews table.
func (a *Asset) Submittable() bool {
	return a.ProcessingStatus == ProcessingCompleted && !a.ReadyForPublishing
}

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null;uniqueIndex" json:"name"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"-"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NormalizeTagNames lowercases, trims and de-duplicates tag names, keeping order.
func NormalizeTagNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
