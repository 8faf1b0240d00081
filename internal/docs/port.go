package docs

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ObjectStore abstracts the bucket operations the document service needs.
// The production implementation lives in gcs.go; tests substitute a stub.
type ObjectStore interface {
	UploadBase64(base64Data, contentType, objectName string) (string, int64, error)
	SignedURL(objectName string, ttl time.Duration) (string, error)
	Delete(objectName string) error
}

type DocumentServiceAPI interface {
	Upload(req UploadDocumentRequest, userID uint) (*LoanDocument, error)
	ListByClient(clientName string) ([]LoanDocument, error)
	ListByLoan(loanID int) ([]LoanDocument, error)
	DownloadURL(id int) (string, error)
	Delete(id int) error
}

type DocumentControllerAPI interface {
	Upload(c *gin.Context)
	List(c *gin.Context)
	DownloadURL(c *gin.Context)
	Delete(c *gin.Context)
}
