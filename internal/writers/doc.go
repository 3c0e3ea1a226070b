// Package writers turns scored records into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (bedGraph rows, JSONL).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
package writers
