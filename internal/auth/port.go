package auth

type AuthServiceAPI interface {
	CreateUser(user User) (*User, error)
	Login(email, password string) (*LoginResponse, error)
	GetUserByID(id int) (*User, error)
	GetAllUsers() ([]User, error)
	SaveCredential(userID int, service, secret string) error
}

// CredentialStore is the narrow surface the Monday sync engine depends on.
type CredentialStore interface {
	GetCredential(userID int, service string) (string, error)
}

// UserDirectory resolves display names to internal user ids.
type UserDirectory interface {
	UserNameMap() (map[string]int, error)
}
