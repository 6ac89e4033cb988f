// Package players keeps player accounts and their win/loss statistics.
//
// A Registry sits on top of a Store. Two stores are provided: JSONStore keeps
// everything in a single JSON document on disk, PostgresStore uses a
// PostgreSQL table. Usernames are case-insensitive.
package players
