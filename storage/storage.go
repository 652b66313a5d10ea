package storage

// go generate: mockery --name ObjectStore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/cybermitra/guardian-api/config"
)

var (
	// ErrObjectNotFound is returned when the stored object does not exist
	ErrObjectNotFound = errors.New("object not found")
	// ErrListUnsupported is returned by backends that cannot enumerate keys
	ErrListUnsupported = errors.New("listing objects is not supported by this backend")
)

// EvidencePrefix is the root folder for every uploaded evidence file
const EvidencePrefix = "evidence/"

// Object describes a stored blob
type Object struct {
	Key string
	URL string
}

// ObjectStore is the binary storage used for evidence files
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces anything outside [a-zA-Z0-9.-] with an underscore
func SanitizeFileName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// EvidenceKey builds evidence/<caseId>/<unixMillis>-<sanitized name>
func EvidenceKey(caseID, fileName string, now time.Time) string {
	return fmt.Sprintf("%s%s/%d-%s", EvidencePrefix, caseID, now.UnixMilli(), SanitizeFileName(fileName))
}

// New returns the backend selected by STORAGE_BACKEND
func New(conf *config.Config) (ObjectStore, error) {
	switch conf.StorageBackend {
	case "minio":
		return NewMinio(conf.MinioEndpoint, conf.MinioAccessKey, conf.MinioSecretKey, conf.MinioBucket, conf.MinioUseSSL)
	case "cloudinary":
		return NewCloudinary(conf.CloudinaryCloudName, conf.CloudinaryAPIKey, conf.CloudinaryAPISecret)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.StorageBackend)
	}
}
