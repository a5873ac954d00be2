// Package kv provides the small persisted key-value capability the toolkit
// stores its state in: usage limits, cached subscription status, and saved
// recipes are all serialized to JSON strings under fixed keys.
//
// Two implementations are provided: MemoryStore for tests and single-process
// use, and RedisStore for shared deployments. Both are safe for concurrent
// use. A missing key is reported with ErrKeyNotFound so callers can fall
// back to freshly initialized state.
package kv
