// Package models defines domain entities and persistence interfaces for the vinylvault catalog service.
//
// The package contains two categories of types:
//
// 1. Persistent Entities: Database-backed models with full lifecycle management
//   - [Record] : A vinyl record in the collection, the central entity
//
// 2. Request-scoped values:
//   - [Session] : Explicit privilege context passed to operations that expose
//     cost data or perform writes
//
// All persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
