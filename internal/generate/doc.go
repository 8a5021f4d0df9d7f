// Package generate is the core pipeline behind every image tool: it
// validates typed requests, composes the literal prompt text, fans a batch
// out across bounded concurrent attempts, walks the model fallback chain
// per attempt, and turns successful responses into named, persisted
// artifacts.
//
// The package is organized around a Service constructed once per process.
// Per-call state (the filename claim set, the batch results array) lives
// exactly as long as one tool invocation.
package generate
