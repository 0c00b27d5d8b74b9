package entities

// Platform roles carried in token realm access. These gate org-level actions;
// membership roles inside an org are a separate concept owned by
// account-management.
const (
	RolePublicUser = "PUBLIC_USER"
	RoleStaff      = "STAFF"
	RoleStaffAdmin = "STAFF_ADMIN"
	RoleSystem     = "SYSTEM"
)

// Claims is the identity extracted from a verified token.
// It is a pure projection of the claim set; no lookup happens here.
type Claims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (c Claims) HasRole(role string) bool {
	for _, item := range c.Roles {
		if item == role {
			return true
		}
	}
	return false
}

func (c Claims) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if c.HasRole(role) {
			return true
		}
	}
	return false
}
