/*
Package observability turns compiler lifecycle events into Prometheus metrics.

Metrics are registered on a caller supplied registry and fed through
domain.LifecycleHooks, so the compiler itself stays free of metric code.
*/
package observability
