// Package store persists characters and their fact lines.
//
// Two backends implement the Store interface: an in-memory map for
// tests and ephemeral deployments, and a SQLite backend for durable
// single-instance deployments. Deletion is soft; a retention pruner
// removes soft-deleted characters permanently on a cron schedule.
package store
