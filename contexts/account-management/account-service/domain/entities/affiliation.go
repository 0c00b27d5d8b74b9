package entities

import (
	"strings"
	"time"
)

// Affiliation links an organization to an external business entity.
// The business identifier uniquely determines at most one affiliation per org.
type Affiliation struct {
	AffiliationID      string
	OrgID              string
	BusinessIdentifier string
	EntityName         string
	CreatedAt          time.Time
}

func (a Affiliation) ValidateBasics() bool {
	return strings.TrimSpace(a.OrgID) != "" &&
		strings.TrimSpace(a.BusinessIdentifier) != ""
}
