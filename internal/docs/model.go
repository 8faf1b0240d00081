package docs

import "time"

// LoanDocument is the metadata record for one stored document. The bytes
// themselves live in GCS; ObjectPath is the object key inside the bucket.
type LoanDocument struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	LoanID      *int      `gorm:"column:loan_id;index" json:"loan_id,omitempty"`
	ClientName  string    `gorm:"size:255;not null;column:client_name" json:"client_name"`
	DocType     string    `gorm:"size:100;not null;column:doc_type" json:"doc_type"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	ObjectPath  string    `gorm:"size:512;not null;column:object_path" json:"object_path"`
	ContentType string    `gorm:"size:100;column:content_type" json:"content_type"`
	SizeKB      float64   `gorm:"column:size_kb" json:"size_kb"`
	UploadedBy  uint      `gorm:"column:uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (LoanDocument) TableName() string {
	return "loan_documents"
}

type UploadDocumentRequest struct {
	LoanID      *int   `json:"loan_id"`
	ClientName  string `json:"client_name" binding:"required"`
	DocType     string `json:"doc_type" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
	Data        string `json:"data" binding:"required"`
}
