package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lizet96/hms-backend/config"
	"github.com/lizet96/hms-backend/models"
)

// ErrNotConfigured se devuelve cuando no hay almacenamiento de objetos configurado
var ErrNotConfigured = errors.New("object storage not configured")

// AvatarStore guarda las imágenes de perfil de los médicos en un bucket S3/MinIO
type AvatarStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewAvatarStore crea el cliente de MinIO a partir de la configuración.
// No hace llamadas de red; el bucket se verifica en EnsureBucket.
func NewAvatarStore(cfg config.Storage) (*AvatarStore, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.Bucket)
	}

	return &AvatarStore{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

// EnsureBucket crea el bucket si todavía no existe
func (s *AvatarStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// PutAvatar sube el archivo ya guardado en disco y devuelve su referencia pública
func (s *AvatarStore) PutAvatar(ctx context.Context, localPath, originalName, contentType string) (*models.Avatar, error) {
	key := ObjectKey(originalName)
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	return &models.Avatar{
		PublicID: key,
		URL:      s.publicURL + "/" + url.PathEscape(key),
	}, nil
}

// ObjectKey genera una clave única conservando la extensión original
func ObjectKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return "avatars/" + uuid.NewString() + ext
}

// normaliseEndpoint acepta "minio:9000" o "http(s)://minio:9000"
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	return raw, false, nil
}
