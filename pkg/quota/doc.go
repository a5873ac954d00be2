// Package quota enforces the per-feature usage limits that separate the free
// tier from premium: Oracle questions, recipe generation, and meal-tracking
// days.
//
// # Tracks and tiers
//
// Each feature is an independent track with its own counters and reset
// period:
//
//	Track     Free tier                      Premium tier
//	Oracle    10 questions / calendar month  40 questions / calendar day
//	Recipes   1 recipe total (lifetime)      10 recipes / calendar day
//	Tracking  3 cumulative days              unlimited
//
// Unlimited tracks report a remaining count of UnlimitedRemaining (999)
// rather than a special type, matching what UIs display.
//
// # Lazy resets
//
// Counters are never reset by a timer. Instead every operation first
// computes the effective state for the current period: if the stored reset
// stamp no longer matches today (or this month), the counter is treated as
// zero. Read-only operations (CanAskOracle, RemainingRecipes, ...) apply
// this computation purely, without mutating or persisting anything; only the
// consuming operations (AskOracle, RecordRecipe, ...) write the rolled-over
// state back through the store.
//
// # Usage
//
//	store := kv.NewMemoryStore()
//	engine := quota.NewEngine(store, orchestrator.Status)
//	if err := engine.Load(ctx); err != nil { ... }
//
//	if ok, err := engine.AskOracle(ctx); ok {
//		// perform the gated action
//	}
//
// Limit-exceeded is never an error: consuming operations return false and
// emit a notification through the injected notifier so the caller can branch
// into an upgrade prompt. Errors are reserved for persistence failures.
//
// The engine guards all state with a mutex, so check-then-increment is
// atomic per engine instance even with concurrent callers.
package quota
