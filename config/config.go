package config

import "os"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// Process-wide fallback token for the Monday.com API. Per-user stored
	// credentials take precedence when present.
	MondayToken string

	// Key used to encrypt stored third-party credentials at rest.
	CredentialKey string

	GCSBucket string

	GmailUser string
	GmailPass string
}

func LoadConfig() Config {
	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MondayToken:   os.Getenv("MONDAY_API_TOKEN"),
		CredentialKey: os.Getenv("CREDENTIAL_KEY"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		GmailUser: os.Getenv("GMAIL_USER"),
		GmailPass: os.Getenv("GMAIL_APP_PASSWORD"),
	}
}
