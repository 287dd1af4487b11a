// Package kv provides the persistence substrate for the storefront stores.
//
// Every store owns exactly one namespaced key (two for loyalty) and
// re-serializes its whole collection on every mutation. The gateway is a
// plain string-to-string map with asynchronous-looking, context-aware
// Get and Set; nothing here knows about the payload shapes.
//
// # Backends
//
//   - SQLite: single kv table, WAL mode, one pinned connection
//   - Redis: GET/SET under a configurable key prefix
//   - Memory: map-backed, with fault injection for tests
//
// Instrumented wraps any backend with Prometheus counters and a latency
// histogram.
//
// # Atomicity
//
// A single Set is atomic for its key. No multi-key write is ever atomic:
// a wallet debit and its ledger entry are two independent writes.
package kv
