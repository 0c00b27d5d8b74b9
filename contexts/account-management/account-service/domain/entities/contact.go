package entities

import (
	"strings"
	"time"
)

// Contact is the single point-of-contact record attached to an org.
type Contact struct {
	ContactID      string
	OrgID          string
	Email          string
	Phone          string
	PhoneExtension string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Contact) ValidateBasics() bool {
	email := strings.TrimSpace(c.Email)
	return email != "" && strings.Count(email, "@") == 1
}
