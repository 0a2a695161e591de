// Package domain provides canonical type definitions for release pipeline entities.
//
// This package is Layer 0 of the library: a zero-dependency collection of pure
// data structures with struct tags for JSON serialization. It defines the
// model shared across the pipeline, reporting, and CLI layers.
//
// # Design Principles
//
//   - Zero dependencies (standard library only)
//   - Pure data structures (no business logic)
//   - No constructors or validation functions
//   - Type-safe enumerations for domain concepts
//   - Flat structure with no sub-packages
//
// Construction and validation live in consuming packages: the trigger package
// builds TriggerEvents, the pipeline package maintains RunReports.
//
// # Domain Model
//
// The package organizes types into two groups:
//
//   - Run execution: TriggerEvent, StepRecord, RunReport
//   - Artifacts: ArtifactType
//
// # Quick Start
//
// Creating entities:
//
//	import (
//	    "time"
//	    "github.com/input-output-hk/catalyst-forge-release/domain"
//	)
//
//	record := domain.StepRecord{
//	    Name:   "build",
//	    Status: domain.RunStatusRunning,
//	}
//
// JSON serialization:
//
//	data, err := json.Marshal(report)
//	// {"id":"...","status":"SUCCESS","steps":[...]}
//
// # Enumerations
//
// Type-safe enumerations provide compile-time safety for domain concepts:
//
//	status := domain.RunStatusRunning
//	fmt.Println(status.String()) // "RUNNING"
//
// Available enumerations:
//
//   - RunStatus: PENDING, RUNNING, SUCCESS, FAILED, CANCELLED, SKIPPED
//   - TriggerKind: TAG_PUSH, MANUAL
//   - ArtifactType: WHEEL, SDIST, ARCHIVE, PACKAGE
//
// # Optional vs Required Fields
//
// Pointer types distinguish optional fields from required ones:
//
//	StartedAt   *time.Time // Optional: nil = not started yet
//	CompletedAt *time.Time // Optional: nil = still running
//	ExitCode    *int       // Optional: nil = no external command ran
package domain
