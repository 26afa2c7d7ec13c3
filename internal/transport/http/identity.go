package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var errNoIdentity = errors.New("missing or invalid credentials")

// IdentityProvider extracts the authenticated buyer id from a request.
// Issuing credentials is someone else's job; this service only consumes
// them.
type IdentityProvider interface {
	BuyerID(r *http.Request) (string, error)
}

// JWTIdentity reads the buyer id from the subject claim of a bearer
// token signed with a shared HMAC secret.
type JWTIdentity struct {
	secret []byte
}

func NewJWTIdentity(secret string) *JWTIdentity {
	return &JWTIdentity{secret: []byte(secret)}
}

func (j *JWTIdentity) BuyerID(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || raw == "" {
		return "", errNoIdentity
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errNoIdentity
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errNoIdentity
	}
	return sub, nil
}
