// Package launcher implements the bootstrap sequence of the pylot CLI.
//
// The sequence is strictly linear, with each step gating the next:
//
//	runtime check → dependency check → [install] → launch
//
// The install step runs only when the dependency check fails, at most
// once, and is never retried. Every step is a synchronous sub-process
// invocation with no timeout — a hung probe, installer, or target blocks
// the launcher until it exits.
//
// The Launcher produces a model.Report of typed per-step outcomes, and
// the sub-process touchpoints sit behind the Runner interface so the
// sequencing invariants can be tested without real processes.
package launcher
