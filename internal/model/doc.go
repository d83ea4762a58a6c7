// Package model defines the domain types and value objects for the
// logical-task runner.
//
// This package contains pure data structures with no external dependencies.
// Targets and Taskfiles are assembled at startup from the built-in defaults
// and an optional task file; StepResults and RunRecords describe what ran.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
// Exit codes of delegated commands are never translated into these: the
// runner surfaces them verbatim.
package model
