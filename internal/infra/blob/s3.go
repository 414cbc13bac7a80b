package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/contenthub/contenthub/internal/config"
)

type S3Deps struct {
	Client    *s3.Client
	Uploader  *manager.Uploader
	Presigner *s3.PresignClient
	Bucket    string
	SSE       *s3types.ServerSideEncryption
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	loadOpts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		loadOpts = append(loadOpts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	acfg, err := awsCfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	s3Opts := func(o *s3.Options) {
		if ep := strings.TrimSpace(cfg.S3.Endpoint); ep != "" {
			if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
				ep = "https://" + ep
			}
			if u, uerr := url.Parse(ep); uerr == nil {
				o.BaseEndpoint = aws.String(u.String())
			}
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	}

	client := s3.NewFromConfig(acfg, s3Opts)

	var sse *s3types.ServerSideEncryption
	if cfg.S3.SSE != "" {
		v := s3types.ServerSideEncryption(cfg.S3.SSE)
		sse = &v
	}

	return &S3Deps{
		Client:    client,
		Uploader:  manager.NewUploader(client),
		Presigner: s3.NewPresignClient(client),
		Bucket:    cfg.S3.Bucket,
		SSE:       sse,
	}, nil
}

// PresignGet returns a time-limited GET URL. A non-empty filename makes the
// browser download the object under that name instead of rendering it inline.
func (s *S3Deps) PresignGet(ctx context.Context, key, filename string, expire time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("key is empty")
	}
	in := &s3.GetObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	}
	if filename != "" {
		in.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", filename))
	}
	ps, err := s.Presigner.PresignGetObject(ctx, in, func(po *s3.PresignOptions) {
		po.Expires = expire
	})
	if err != nil {
		return "", err
	}
	return ps.URL, nil
}

// UploadedMeta describes an object written by UploadFormFile.
type UploadedMeta struct {
	Bucket string
	Key    string
	ETag   string
	SHA256 string
	MIME   string
	SizeB  int64
}

// UploadFormFile stores fh under keyPrefix/yyyy/mm/dd/<sha256><ext>.
func (s *S3Deps) UploadFormFile(ctx context.Context, keyPrefix string, fh *multipart.FileHeader) (*UploadedMeta, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	digest, err := hashAndRewind(f)
	if err != nil {
		return nil, fmt.Errorf("hash upload: %w", err)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	meta := &UploadedMeta{
		Bucket: s.Bucket,
		Key: fmt.Sprintf("%s/%s/%s%s",
			strings.TrimSuffix(keyPrefix, "/"),
			time.Now().UTC().Format("2006/01/02"),
			digest,
			strings.ToLower(filepath.Ext(fh.Filename)),
		),
		SHA256: digest,
		MIME:   mimeType,
		SizeB:  fh.Size,
	}

	put := &s3.PutObjectInput{
		Bucket:      aws.String(meta.Bucket),
		Key:         aws.String(meta.Key),
		Body:        f,
		ContentType: aws.String(meta.MIME),
		Metadata: map[string]string{
			"sha256":        digest,
			"original-name": fh.Filename,
		},
	}
	if s.SSE != nil {
		put.ServerSideEncryption = *s.SSE
	}

	out, err := s.Uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", meta.Key, err)
	}
	meta.ETag = aws.ToString(out.ETag)
	return meta, nil
}

// Delete removes an object, used to undo an upload whose record could not be saved.
func (s *S3Deps) Delete(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	})
	return err
}

// hashAndRewind returns the hex sha256 of f and seeks back to the start.
func hashAndRewind(f multipart.File) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
