package auth

import (
	"errors"
	"mortgage-office-api/config"
	"mortgage-office-api/internal/util"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCredentialNotFound = errors.New("credential not found")

type AuthService struct {
	DB  *gorm.DB
	CFG *config.Config
}

func (s *AuthService) CreateUser(user User) (*User, error) {
	if user.Role == "" {
		user.Role = "User"
	}

	hashed, err := util.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	if err := s.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return nil, errors.New("An account with this email already exists. Please log in or use a different email.")
		}
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) Login(email, password string) (*LoginResponse, error) {
	var user User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := util.VerifyPassword(password, user.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.CFG.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     signed,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
	}, nil
}

func (s *AuthService) GetUserByID(id int) (*User, error) {
	var user User
	result := s.DB.Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *AuthService) GetAllUsers() ([]User, error) {
	var users []User
	result := s.DB.Order("lastname ASC, firstname ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// UserNameMap returns lowercase trimmed "firstname lastname" -> user id,
// used by the Monday sync to resolve assigned loan officers.
func (s *AuthService) UserNameMap() (map[string]int, error) {
	var users []User
	if err := s.DB.Find(&users).Error; err != nil {
		return nil, err
	}

	m := make(map[string]int, len(users))
	for _, u := range users {
		name := strings.ToLower(strings.TrimSpace(u.FirstName + " " + u.LastName))
		if name != "" {
			m[name] = u.ID
		}
	}
	return m, nil
}

// SaveCredential encrypts and upserts a per-user integration token.
func (s *AuthService) SaveCredential(userID int, service, secret string) error {
	enc, err := util.EncryptSecret(secret, s.CFG.CredentialKey)
	if err != nil {
		return err
	}

	cred := ServiceCredential{
		UserID:  userID,
		Service: service,
		Secret:  enc,
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "service"}},
		DoUpdates: clause.AssignmentColumns([]string{"secret", "updated_at"}),
	}).Create(&cred).Error
}

// GetCredential returns the decrypted token for (userID, service), or
// ErrCredentialNotFound when none is stored.
func (s *AuthService) GetCredential(userID int, service string) (string, error) {
	var cred ServiceCredential
	err := s.DB.Where("user_id = ? AND service = ?", userID, service).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCredentialNotFound
		}
		return "", err
	}

	return util.DecryptSecret(cred.Secret, s.CFG.CredentialKey)
}
