package entitlement

import "time"

// Identifiers that the billing dashboard must be configured to match exactly.
const (
	// PremiumEntitlement is the entitlement granted by every paid plan.
	PremiumEntitlement = "premium"

	// ProductIDMonthly and ProductIDYearly are the two purchasable plans.
	ProductIDMonthly = "oxakit_premium_monthly"
	ProductIDYearly  = "oxakit_premium_yearly"
)

// Status is the resolved subscription tier.
type Status string

const (
	// StatusLoading is the initial state before the first provider response.
	StatusLoading Status = "loading"
	StatusFree    Status = "free"
	StatusPremium Status = "premium"
)

// Entitlement is a single named grant as reported by the billing provider.
type Entitlement struct {
	IsActive          bool       `json:"is_active"`
	WillRenew         bool       `json:"will_renew"`
	ProductIdentifier string     `json:"product_identifier"`
	ExpirationDate    *time.Time `json:"expiration_date,omitempty"`
}

// Entitlements groups the provider's entitlement maps. Active holds grants
// the customer can currently use; All additionally includes expired ones.
type Entitlements struct {
	Active map[string]Entitlement `json:"active"`
	All    map[string]Entitlement `json:"all"`
}

// CustomerInfo is the provider's customer document. The toolkit holds a
// cached copy that is replaced wholesale on every successful billing call or
// listener callback, never merged.
type CustomerInfo struct {
	AppUserID           string       `json:"app_user_id,omitempty"`
	Entitlements        Entitlements `json:"entitlements"`
	ActiveSubscriptions []string     `json:"active_subscriptions,omitempty"`
	RequestDate         *time.Time   `json:"request_date,omitempty"`
}

// Active returns the named entitlement from the active set.
func (c *CustomerInfo) Active(name string) (Entitlement, bool) {
	if c == nil || c.Entitlements.Active == nil {
		return Entitlement{}, false
	}
	e, ok := c.Entitlements.Active[name]
	return e, ok
}
