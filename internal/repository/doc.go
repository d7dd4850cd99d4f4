// Package repository implements the activity stores behind the service layer.
//
// Four interchangeable stores are provided, selected by STORE_BACKEND:
//
//   - MemoryActivityRepository: process memory, the default
//   - SurrealActivityRepository: SurrealDB `activity` table
//   - RedisActivityRepository: a hash and a list per activity
//   - PostgresActivityRepository: activities + activity_participants tables
//
// # Contract
//
// Every store performs the membership check and the mutation as one atomic
// step, so an email can never end up on a roster twice even when signups
// race. Failures use the database package's error vocabulary:
//
//   - database.ErrNotFound: the activity does not exist
//   - database.ErrDuplicate: the email is already on the roster
//   - ErrParticipantNotFound: the email is not on the roster
//
// GetByName returns (nil, nil) for an unknown activity, matching the rest of
// our repositories.
package repository
