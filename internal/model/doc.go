// Package model defines the domain types and value objects for the
// pylot CLI.
//
// This package contains pure data structures with no external dependencies.
// The central entities are StepResult and Report, which capture the outcome
// of each bootstrap step (runtime check, dependency check, install, launch)
// as typed data rather than bare process exit codes.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
