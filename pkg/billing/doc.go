// Package billing wraps the subscription billing provider behind a small
// interface and an orchestrator that owns the cached customer state.
//
// # Providers
//
// Provider is modeled on mobile in-app-purchase SDKs: configure once per
// user, fetch customer info and offerings, purchase a product, restore past
// purchases, and receive pushed customer-info updates. Three implementations
// ship with the toolkit:
//
//   - RevenueCatProvider talks to the RevenueCat REST API (there is no
//     official Go SDK). Purchases themselves must originate from a store
//     client, so PurchaseProduct reports a not-allowed billing error; info,
//     offerings and restore work fully.
//   - PaddleProvider drives Paddle hosted checkout and derives entitlements
//     from verified Paddle webhooks.
//   - NoopProvider is the stub selected on platforms without any billing
//     backend; every call reports billing as unavailable and the customer
//     stays on the free tier.
//
// # Error handling
//
// Every provider failure is classified into an Error with a stable Code.
// The code decides whether the orchestrator retries (network and transient
// backend problems) or aborts (user cancelled, misconfigured credentials),
// and supplies the user-facing message. Raw provider errors never reach the
// UI layer; they are logged for diagnostics only.
//
// # Orchestration
//
// Orchestrator serializes access to the cached CustomerInfo, replaces it
// wholesale on every successful call or listener push, and recomputes the
// subscription status through the entitlement resolver. Purchase uses a
// single attempt to avoid duplicate charges; initialize and restore retry
// twice with exponential backoff (1s initial, doubling, capped at 10s).
package billing
