package docs

import (
	"fmt"
	"strings"
	"time"

	"mortgage-office-api/internal/util"

	"gorm.io/gorm"
)

const signedURLTTL = 15 * time.Minute

var allowedDocTypes = map[string]bool{
	"paystub":           true,
	"w2":                true,
	"bank_statement":    true,
	"tax_return":        true,
	"appraisal":         true,
	"purchase_contract": true,
	"id":                true,
	"other":             true,
}

type DocumentService struct {
	DB    *gorm.DB
	Store ObjectStore
}

// Upload decodes and stores the document in the bucket, then records its
// metadata. The object key is derived from client name and filename so
// documents for one client cluster under a common prefix.
func (ds *DocumentService) Upload(req UploadDocumentRequest, userID uint) (*LoanDocument, error) {
	docType := strings.ToLower(strings.TrimSpace(req.DocType))
	if !allowedDocTypes[docType] {
		return nil, fmt.Errorf("unsupported document type: %s", req.DocType)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("documents/%s/%s_%d_%s",
		util.SanitizePart(req.ClientName),
		docType,
		time.Now().Unix(),
		util.SanitizePart(req.Filename),
	)

	_, sizeBytes, err := ds.Store.UploadBase64(req.Data, contentType, objectName)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	doc := LoanDocument{
		LoanID:      req.LoanID,
		ClientName:  req.ClientName,
		DocType:     docType,
		Filename:    req.Filename,
		ObjectPath:  objectName,
		ContentType: contentType,
		SizeKB:      float64(sizeBytes) / 1024.0,
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}
	if err := ds.DB.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (ds *DocumentService) ListByClient(clientName string) ([]LoanDocument, error) {
	var documents []LoanDocument
	if err := ds.DB.Where("client_name = ?", clientName).Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

func (ds *DocumentService) ListByLoan(loanID int) ([]LoanDocument, error) {
	var documents []LoanDocument
	if err := ds.DB.Where("loan_id = ?", loanID).Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// DownloadURL issues a short-lived signed URL; the bucket is never public.
func (ds *DocumentService) DownloadURL(id int) (string, error) {
	var doc LoanDocument
	if err := ds.DB.First(&doc, id).Error; err != nil {
		return "", err
	}
	return ds.Store.SignedURL(doc.ObjectPath, signedURLTTL)
}

// Delete removes the bucket object before the metadata row.
func (ds *DocumentService) Delete(id int) error {
	var doc LoanDocument
	if err := ds.DB.First(&doc, id).Error; err != nil {
		return err
	}
	if err := ds.Store.Delete(doc.ObjectPath); err != nil {
		return fmt.Errorf("could not delete stored object: %w", err)
	}
	return ds.DB.Delete(&doc).Error
}
