// Package storage provides persistent stores over sql databases: moderation records used for
// message deduplication and auditing, and approved users.
// Each table is represented by a struct working on top of engine.SQL, sqlite and postgres supported.
package storage
