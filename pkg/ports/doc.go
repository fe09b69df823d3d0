/*
Package ports defines the driven ports (interfaces) of the strand compiler.

These interfaces decouple the core logic from external implementations, allowing
documents and part libraries to live in various storage backends.

# Key Interfaces

  - DocumentStore: Persists and loads document snapshots (memory, file, SQLite, Redis).
  - PartsLibrary: Supplies reusable leaf designs (e.g., from a Loam repository).
  - DistributedLocker: Provides distributed locking so a document has a single writer.
*/
package ports
