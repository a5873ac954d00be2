package entitlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oxalabs/oxakit/pkg/entitlement"
)

func TestResolve_MalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info *entitlement.CustomerInfo
	}{
		{name: "nil document", info: nil},
		{name: "zero document", info: &entitlement.CustomerInfo{}},
		{
			name: "nil active map",
			info: &entitlement.CustomerInfo{
				Entitlements: entitlement.Entitlements{Active: nil},
			},
		},
		{
			name: "empty active map",
			info: &entitlement.CustomerInfo{
				Entitlements: entitlement.Entitlements{
					Active: map[string]entitlement.Entitlement{},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotPanics(t, func() {
				assert.Equal(t, entitlement.StatusFree, entitlement.Resolve(tt.info))
			})
		})
	}
}

func TestResolve_ActivePremium(t *testing.T) {
	t.Parallel()

	info := &entitlement.CustomerInfo{
		Entitlements: entitlement.Entitlements{
			Active: map[string]entitlement.Entitlement{
				entitlement.PremiumEntitlement: {
					IsActive:          true,
					WillRenew:         true,
					ProductIdentifier: entitlement.ProductIDMonthly,
				},
			},
		},
	}

	assert.Equal(t, entitlement.StatusPremium, entitlement.Resolve(info))
	assert.True(t, entitlement.IsPremium(info))
}

func TestResolve_CancelledButUnexpired(t *testing.T) {
	t.Parallel()

	// Provider keeps cancelled subscriptions in the active set until the
	// paid-through date passes.
	expires := time.Now().Add(20 * 24 * time.Hour)
	info := &entitlement.CustomerInfo{
		Entitlements: entitlement.Entitlements{
			Active: map[string]entitlement.Entitlement{
				entitlement.PremiumEntitlement: {
					IsActive:          true,
					WillRenew:         false,
					ProductIdentifier: entitlement.ProductIDYearly,
					ExpirationDate:    &expires,
				},
			},
		},
	}

	assert.Equal(t, entitlement.StatusPremium, entitlement.Resolve(info))
}

func TestResolve_ExpiredSubscription(t *testing.T) {
	t.Parallel()

	// Expired grants move out of Active but remain in All; they must not
	// grant premium.
	expired := time.Now().Add(-24 * time.Hour)
	info := &entitlement.CustomerInfo{
		Entitlements: entitlement.Entitlements{
			Active: map[string]entitlement.Entitlement{},
			All: map[string]entitlement.Entitlement{
				entitlement.PremiumEntitlement: {
					IsActive:          false,
					ProductIdentifier: entitlement.ProductIDMonthly,
					ExpirationDate:    &expired,
				},
			},
		},
	}

	assert.Equal(t, entitlement.StatusFree, entitlement.Resolve(info))
}

func TestResolve_UnrelatedEntitlement(t *testing.T) {
	t.Parallel()

	info := &entitlement.CustomerInfo{
		Entitlements: entitlement.Entitlements{
			Active: map[string]entitlement.Entitlement{
				"beta_access": {IsActive: true},
			},
		},
	}

	assert.Equal(t, entitlement.StatusFree, entitlement.Resolve(info))
}
