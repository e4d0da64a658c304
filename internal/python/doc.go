// Package python probes the host's Python installation for the pylot CLI.
//
// This package wraps interpreter invocations (via os/exec) behind two
// probes: a version query that discovers and validates the interpreter,
// and an import probe that checks whether a named module is loadable.
// Both probes suppress their sub-process output from the operator — a
// presence test has nothing useful to show — but captured stderr is
// forwarded to the diagnostic logger rather than dropped.
//
// Design decisions:
//   - We shell out to the interpreter rather than inspecting the
//     filesystem because "python is installed" is only meaningful if the
//     binary actually executes and answers a version query.
//   - Older interpreters print the version banner on stderr instead of
//     stdout, so both streams are read when parsing.
//   - Failures are wrapped in model.CLIError with ExitRuntimeMissing to
//     enable proper CLI exit code handling.
package python
