package domain

import (
	"context"
	"time"
)

// CompileKind distinguishes the two compilation cases.
type CompileKind string

const (
	CompileInsertion CompileKind = "insertion"
	CompileAssembly  CompileKind = "assembly"
)

// CompileEvent describes one design being compiled.
// Nested is true when the design was compiled while resolving another one.
type CompileEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Design    string      `json:"design"`
	Kind      CompileKind `json:"kind"`
	Nested    bool        `json:"nested,omitempty"`
	Length    int         `json:"length,omitempty"`
	Err       error       `json:"-"`
}

// LifecycleHooks defines callbacks for compiler observability.
type LifecycleHooks struct {
	OnCompileStart func(context.Context, *CompileEvent)
	OnCompileDone  func(context.Context, *CompileEvent)
	OnCompileError func(context.Context, *CompileEvent)
}
