// Package token issues and verifies the HS256 access tokens the REST
// layer authenticates with. Claims carry the actor identity the scoping
// filter needs, so handlers never hit the directory on the hot path.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/signoffhq/signoff/internal/ports"
)

var ErrInvalid = errors.New("invalid token")

// Claims is the JWT payload for a signoff session.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
	OrgID    string `json:"org_id"`
	BranchID string `json:"branch_id,omitempty"`
}

// Actor converts verified claims into the identity services act on.
func (c *Claims) Actor() ports.Actor {
	return ports.Actor{
		UserID:   c.Subject,
		Role:     ports.Role(c.Role),
		OrgID:    c.OrgID,
		BranchID: c.BranchID,
	}
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for the user.
func (m *Manager) Sign(u *ports.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: u.Username,
		Role:     string(u.Role),
		OrgID:    u.OrgID,
		BranchID: u.BranchID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token, rejecting any signing method
// other than HS256.
func (m *Manager) Verify(tok string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	return &claims, nil
}
