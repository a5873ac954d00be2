package entitlement

// Resolve maps a provider customer document to a subscription tier.
//
// The customer is premium iff the premium entitlement is present in the
// active set. WillRenew is ignored: a cancelled subscription stays premium
// until the provider removes it from the active set at expiration. Any
// malformed or missing input resolves to StatusFree.
func Resolve(info *CustomerInfo) Status {
	if _, ok := info.Active(PremiumEntitlement); ok {
		return StatusPremium
	}
	return StatusFree
}

// IsPremium is a convenience wrapper around Resolve.
func IsPremium(info *CustomerInfo) bool {
	return Resolve(info) == StatusPremium
}
