package services

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/AgusMolinaCode/usuarios-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidToken = errors.New("token inválido ou expirado")

// Claims carrega a identidade do usuário dentro do token.
type Claims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Credentials struct {
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewCredentials(secret []byte, ttl time.Duration, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Credentials{
		secret: secret,
		ttl:    ttl,
		cost:   cost,
		now:    time.Now,
	}
}

// bcrypt só aceita 72 bytes; o digest em base64 tem 44 e não contém NUL.
func prehash(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func (c *Credentials) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(plain), c.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (c *Credentials) VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), prehash(plain)) == nil
}

func (c *Credentials) IssueToken(user *models.User) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:    user.ID,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	return token.SignedString(c.secret)
}

func (c *Credentials) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
