// Package storage is the durable key/value store behind the session.
//
// Values are strings under string keys and survive a process restart. Three
// implementations are provided:
//
//   - SQLiteStore: the on-device store, a metadata table in a SQLite file
//     migrated with goose. SetMany/RemoveMany run in one transaction.
//   - MemoryStore: a map guarded by a mutex, for tests and ephemeral runs.
//   - SealedStore: a decorator that AES-GCM seals every value with a key
//     derived from a device secret.
//
// Absent keys are reported with ok == false, never with an error.
package storage
