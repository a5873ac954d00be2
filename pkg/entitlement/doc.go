// Package entitlement maps billing-provider customer data to the two-tier
// access model used across the toolkit.
//
// The billing provider is the single source of truth for what a customer has
// paid for. It reports a customer-info document whose active-entitlements set
// may or may not contain the "premium" grant; everything else in the document
// is opaque to this package. Resolve collapses that document to a Status:
//
//	status := entitlement.Resolve(info)
//	if status == entitlement.StatusPremium { ... }
//
// Resolution is deliberately forgiving: a nil document, missing entitlement
// maps, or partially populated records all resolve to StatusFree rather than
// failing. A cancelled subscription that the provider still lists as active
// (cancelled but not yet past its expiration date) resolves to StatusPremium;
// the provider drops it from the active set when it actually expires.
package entitlement
