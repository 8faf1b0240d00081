package docs

import (
	"time"

	"mortgage-office-api/internal/util"
)

// GCSStore is the bucket-backed ObjectStore used in production.
type GCSStore struct {
	Bucket string
}

func (g *GCSStore) UploadBase64(base64Data, contentType, objectName string) (string, int64, error) {
	return util.UploadBase64ToGCS(base64Data, contentType, g.Bucket, objectName)
}

func (g *GCSStore) SignedURL(objectName string, ttl time.Duration) (string, error) {
	return util.SignedDownloadURL(g.Bucket, objectName, ttl)
}

func (g *GCSStore) Delete(objectName string) error {
	return util.DeleteObject(g.Bucket, objectName)
}
