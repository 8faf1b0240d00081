package auth

import (
	"time"
)

type User struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"size:100;not null;column:firstname" json:"firstname"`
	LastName  string    `gorm:"size:100;not null;column:lastname" json:"lastname"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ServiceCredential stores a per-user token for an external integration
// (e.g. service="monday"). Secret is AES-GCM ciphertext, never plaintext.
type ServiceCredential struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int       `gorm:"not null;index:idx_user_service,unique" json:"user_id"`
	Service   string    `gorm:"size:100;not null;index:idx_user_service,unique" json:"service"`
	Secret    string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ServiceCredential) TableName() string {
	return "service_credentials"
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type SaveCredentialRequest struct {
	Service string `json:"service" binding:"required"`
	Secret  string `json:"secret" binding:"required"`
}
