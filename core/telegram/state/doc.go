// Package state keeps per-chat conversation sessions.
//
// A Store persists one value per chat id; MemoryStore serves single-process
// deployments and tests, RedisStore survives restarts and is shared between
// replicas. Locks serializes work on a single chat.
package state
