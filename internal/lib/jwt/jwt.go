package jwt

import (
	"errors"
	"fmt"
	"time"

	"adriarent/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// NewToken issues a signed bearer token carrying the id and role claims the
// identity collaborator contract requires.
func NewToken(user models.User, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.ID.String()
	claims["role"] = string(user.Role)
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	return token.SignedString([]byte(secret))
}

// ParseIdentity validates a bearer token and extracts the caller identity.
func ParseIdentity(tokenStr, secret string) (models.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrInvalidToken
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return models.Identity{}, ErrInvalidToken
	}
	id, err := uuid.Parse(uid)
	if err != nil {
		return models.Identity{}, ErrInvalidToken
	}

	role, _ := claims["role"].(string)

	return models.Identity{ID: id, Role: models.Role(role)}, nil
}
