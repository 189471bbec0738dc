package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"slideshow/internal/config"
	"slideshow/internal/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	uploadsPrefix = "uploads"
	tracksPrefix  = "tracks"
)

// Store хранит ресурсы слайд-шоу в S3-совместимом бакете.
// Ключи повторяют раскладку локального хранилища: uploads/<owner>/<name>, tracks/<owner>/<name>.
type Store struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

func New(cfg config.MinioConfig) (*Store, error) {
	const op = "objectstore.New"

	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("%s: parse endpoint: %w", op, err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: init minio: %w", op, err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + endpoint + "/" + cfg.Bucket
	}

	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *Store) Store(ctx context.Context, data []byte, name string, category storage.Category, owner string) (string, error) {
	const op = "objectstore.Store.Store"

	key, err := objectKey(category, owner, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// ключи не перезаписываются
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return "", fmt.Errorf("%s: object %s already exists", op, key)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.publicURL + "/" + storage.EscapePath(key), nil
}

func (s *Store) Remove(ctx context.Context, ref string) error {
	const op = "objectstore.Store.Remove"

	key, ok := s.keyFromRef(ref)
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrFileNotFound)
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return fmt.Errorf("%s: %w", op, storage.ErrFileNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, ref string) bool {
	key, ok := s.keyFromRef(ref)
	if !ok {
		return false
	}

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	return err == nil
}

// RemoveOwner ничего не делает: в бакете нет каталогов
func (s *Store) RemoveOwner(ctx context.Context, owner string) error {
	return nil
}

func (s *Store) keyFromRef(ref string) (string, bool) {
	escaped, ok := strings.CutPrefix(ref, s.publicURL+"/")
	if !ok {
		return "", false
	}
	key := storage.UnescapePath(escaped)
	if key == "" || path.Clean("/"+key) != "/"+key {
		return "", false
	}
	return key, true
}

func objectKey(category storage.Category, owner, name string) (string, error) {
	if owner == "" || owner != path.Base(owner) || owner == "." || owner == ".." {
		return "", fmt.Errorf("invalid owner %q", owner)
	}

	base := path.Base(path.Clean("/" + filepath.ToSlash(name)))
	if base == "/" || base == "." {
		return "", fmt.Errorf("invalid name %q", name)
	}

	switch category {
	case storage.CategoryImage, storage.CategoryQR:
		return path.Join(uploadsPrefix, owner, base), nil
	case storage.CategoryAudio:
		return path.Join(tracksPrefix, owner, base), nil
	default:
		return "", fmt.Errorf("unknown category %q: %w", category, storage.ErrInvalidFileType)
	}
}

func contentType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}
