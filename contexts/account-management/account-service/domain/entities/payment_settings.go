package entities

import "time"

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodProductFee PaymentMethod = "PRODUCT_FEE"
)

// PaymentSettings is created alongside the org; one row per org.
type PaymentSettings struct {
	SettingsID    string
	OrgID         string
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

// DefaultPaymentMethod picks the method the org starts with; premium
// accounts settle through product fees.
func DefaultPaymentMethod(orgType OrgType) PaymentMethod {
	if orgType == OrgTypePremium {
		return PaymentMethodProductFee
	}
	return PaymentMethodCreditCard
}
