// Package auth implements the credential primitives of the workflow: signed
// bearer tokens carrying an identity snapshot, and the role partial order
// used for authorization decisions.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

// Claims extends the registered JWT claims with the identity snapshot the
// edge needs to authorize requests without a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"uid"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// GenerateToken signs an HS256 bearer token embedding the identity with a
// fixed expiry.
func GenerateToken(ident models.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: ident.UserID,
		Email:  ident.Email,
		Roles:  ident.Roles,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetIdentityFromToken verifies the token signature and expiry and returns
// the embedded identity. Any verification failure yields ErrInvalidToken.
func GetIdentityFromToken(tokenString string, secretKey []byte) (models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return models.Identity{}, common.ErrInvalidToken
	}

	if !token.Valid {
		return models.Identity{}, common.ErrInvalidToken
	}

	return models.Identity{UserID: claims.UserID, Email: claims.Email, Roles: claims.Roles}, nil
}
