package ports

import (
	"keystone/contexts/identity-access/access-service/domain/entities"
)

// TokenParser turns a raw bearer token into verified claims.
type TokenParser interface {
	Parse(token string) (entities.Claims, error)
}
