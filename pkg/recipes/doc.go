// Package recipes generates low-oxalate recipes through a chat-completion
// endpoint, parses the returned text into a structured Recipe, and keeps
// the user's saved recipes in the key-value store.
//
// Generation is a premium-gated feature: the Service consumes the usage
// engine's recipe allowance before every call, so free-tier users get their
// single trial recipe and premium users their daily budget.
package recipes
