package content

import "time"

const generationModel = "gemini-2.5-flash"

// Content kinds the generator knows how to write.
const (
	KindClientUpdate = "client_update"
	KindSocialPost   = "social_post"
	KindRateAlert    = "rate_alert"
)

// GeneratedContent is a saved draft. Drafts are kept so office staff can
// review and reuse what was generated.
type GeneratedContent struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind      string    `gorm:"size:50;not null" json:"kind"`
	LoanID    *int      `gorm:"column:loan_id" json:"loan_id,omitempty"`
	Topic     string    `gorm:"size:255" json:"topic"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedBy uint      `gorm:"column:created_by" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (GeneratedContent) TableName() string {
	return "generated_content"
}

type GenerateRequest struct {
	Kind   string `json:"kind" binding:"required"`
	LoanID *int   `json:"loan_id"`
	Topic  string `json:"topic"`
	Tone   string `json:"tone"`
}

type GenerateResponse struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}
