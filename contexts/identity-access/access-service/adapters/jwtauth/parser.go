package jwtauth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"keystone/contexts/identity-access/access-service/domain/entities"
	domainerrors "keystone/contexts/identity-access/access-service/domain/errors"
)

// Parser verifies HMAC-signed bearer tokens and projects the claim set into
// entities.Claims. Token issuance lives with the identity provider, not here.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type tokenClaims struct {
	Username    string `json:"preferred_username"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	jwt.RegisteredClaims
}

func (p *Parser) Parse(token string) (entities.Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return entities.Claims{}, domainerrors.ErrTokenInvalid
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return entities.Claims{}, fmt.Errorf("%w: sub", domainerrors.ErrMissingClaim)
	}
	if len(claims.RealmAccess.Roles) == 0 {
		return entities.Claims{}, fmt.Errorf("%w: realm_access.roles", domainerrors.ErrMissingClaim)
	}

	return entities.Claims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    append([]string(nil), claims.RealmAccess.Roles...),
	}, nil
}
