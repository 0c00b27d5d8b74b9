package accessservice

import (
	"keystone/contexts/identity-access/access-service/adapters/jwtauth"
	"keystone/contexts/identity-access/access-service/domain/services"
	"keystone/contexts/identity-access/access-service/ports"
)

type Module struct {
	Parser ports.TokenParser
	Policy services.Policy
}

type Dependencies struct {
	JWTSecret string
}

func NewModule(deps Dependencies) Module {
	return Module{
		Parser: jwtauth.NewParser(deps.JWTSecret),
		Policy: services.NewPolicy(),
	}
}
