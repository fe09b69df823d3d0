/*
Package session orchestrates access to persisted design documents.

A document has a single writer at a time: the Manager serializes work on the
same document ID within a process and, when a DistributedLocker is configured,
across replicas. Each Update loads a fresh copy, applies the caller's edits and
compilations, and persists the result only when the whole callback succeeds.
*/
package session
