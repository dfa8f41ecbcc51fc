// Package repositories provides the persistence layer for the record catalog.
//
// RecordRepository implements models.Repository[*models.Record] over SQLite,
// handling CRUD operations, sequence generation and the cover URL write-back.
// Writes publish notifications on a ChangeFeed so that views can re-pull a
// fresh snapshot.
package repositories
