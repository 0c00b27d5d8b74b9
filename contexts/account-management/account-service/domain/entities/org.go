package entities

import (
	"strings"
	"time"
)

type AccessType string
type OrgType string
type OrgStatus string
type ChangeDirection string

const (
	AccessTypeRegular   AccessType = "REGULAR"
	AccessTypeAnonymous AccessType = "ANONYMOUS"
	AccessTypeGovm      AccessType = "GOVM"

	OrgTypeBasic   OrgType = "BASIC"
	OrgTypePremium OrgType = "PREMIUM"

	OrgStatusActive   OrgStatus = "ACTIVE"
	OrgStatusInactive OrgStatus = "INACTIVE"

	ChangeDirectionUpgrade   ChangeDirection = "UPGRADE"
	ChangeDirectionDowngrade ChangeDirection = "DOWNGRADE"
)

// orgTypeOrder is the fixed upgrade ladder. UPGRADE walks forward,
// DOWNGRADE walks backward; both fail at the boundary.
var orgTypeOrder = []OrgType{OrgTypeBasic, OrgTypePremium}

type Org struct {
	OrgID      string
	Name       string
	AccessType AccessType
	OrgType    OrgType
	Status     OrgStatus
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (o Org) ValidateBasics() bool {
	name := strings.TrimSpace(o.Name)
	return name != "" &&
		len(name) >= 2 &&
		len(name) <= 250 &&
		IsSupportedAccessType(o.AccessType) &&
		IsSupportedOrgType(o.OrgType)
}

func IsSupportedAccessType(value AccessType) bool {
	switch value {
	case AccessTypeRegular, AccessTypeAnonymous, AccessTypeGovm:
		return true
	default:
		return false
	}
}

func IsSupportedOrgType(value OrgType) bool {
	switch value {
	case OrgTypeBasic, OrgTypePremium:
		return true
	default:
		return false
	}
}

func IsSupportedChangeDirection(value ChangeDirection) bool {
	return value == ChangeDirectionUpgrade || value == ChangeDirectionDowngrade
}

// NextOrgType resolves the target type for a change direction. The second
// return is false when the org already sits at the relevant boundary.
func NextOrgType(current OrgType, direction ChangeDirection) (OrgType, bool) {
	index := -1
	for i, item := range orgTypeOrder {
		if item == current {
			index = i
			break
		}
	}
	if index < 0 {
		return current, false
	}

	switch direction {
	case ChangeDirectionUpgrade:
		if index == len(orgTypeOrder)-1 {
			return current, false
		}
		return orgTypeOrder[index+1], true
	case ChangeDirectionDowngrade:
		if index == 0 {
			return current, false
		}
		return orgTypeOrder[index-1], true
	default:
		return current, false
	}
}
