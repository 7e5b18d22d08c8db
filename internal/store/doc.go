// Package store provides SQLite-backed durable storage for prospectus
// projects and their artifacts.
//
// Tables:
//   - Projects: one row per prospectus deal being worked on
//   - Documents: versioned source/draft files per project
//   - Templates: versioned placeholder-bearing templates with coverage reports
//   - Deal Profiles: raw and normalized input payloads per project
//   - Analyses: persisted block-classification results
//   - Generation Runs: one row per draft-generation attempt, keyed by run token
//   - Audit Logs: append-only record of state-changing operations
//
// # Critical Patterns
//
// Version allocation: documents version per (project_id, doc_type) and
// templates per name. The next version is read as MAX(version)+1 and the row
// inserted inside one transaction on a single-writer connection pool, so
// concurrent allocations serialize and versions are gap-free.
//
// Run identity: generation runs carry a UUIDv7 run token assigned at insert,
// so runs sort by creation time and remain unique across databases.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
