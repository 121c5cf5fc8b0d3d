// Package identity authenticates the club's staff accounts and issues and
// verifies their bearer tokens.
package identity

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Roles found in operation allow-lists.
const (
	RoleAdmin     = "admin"
	RoleCommodore = "commodore"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// User is the profile embedded in a token.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Credential pairs a profile with its bcrypt password hash.
type Credential struct {
	User         User
	PasswordHash string
}

// CredentialLookup finds the credential for a username.
type CredentialLookup interface {
	Lookup(username string) (Credential, bool)
}

// StaticUsers is an in-memory, read-only credential table keyed by
// lowercased username.
type StaticUsers map[string]Credential

// NewStaticUsers builds a table from creds, skipping entries without a hash.
func NewStaticUsers(creds ...Credential) StaticUsers {
	users := StaticUsers{}
	for _, c := range creds {
		if c.PasswordHash == "" {
			continue
		}
		users[normalize(c.User.Username)] = c
	}
	return users
}

// Lookup implements CredentialLookup.
func (u StaticUsers) Lookup(username string) (Credential, bool) {
	c, ok := u[normalize(username)]
	return c, ok
}

// Claims extends jwt.RegisteredClaims with the user profile.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service authenticates users and signs tokens with an HMAC key.
type Service struct {
	users CredentialLookup
	key   []byte
	now   func() time.Time
}

// New returns a Service backed by users and signing with key.
func New(users CredentialLookup, key []byte) *Service {
	return &Service{users: users, key: key, now: time.Now}
}

// dummyHash keeps the cost of a failed lookup close to that of a bad password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

// Authenticate checks password against the stored hash for username.
func (s *Service) Authenticate(username, password string) (*User, bool) {
	cred, ok := s.users.Lookup(username)
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, false
	}
	u := cred.User
	return &u, true
}

// IssueToken signs a token for u valid for TokenTTL.
func (s *Service) IssueToken(u User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(TokenTTL)
	claims := &Claims{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyToken returns the profile in token, or false when the token is
// malformed, expired or badly signed.
func (s *Service) VerifyToken(token string) (*User, bool) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, false
	}
	return &User{ID: claims.ID, Username: claims.Username, Name: claims.Name, Role: claims.Role}, true
}

// HashPassword returns a bcrypt hash for storage in configuration.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Allowed reports whether u holds one of roles.
func Allowed(u *User, roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
