// Package core provides the business logic for catalog export operations.
//
// This package turns one catalog CSV, exported from an inventory tool, into
// an upload file per marketplace plus a warning log. It has no UI
// dependencies and can be driven by the CLI, the terminal UI, or tests.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Fields: the canonical catalogue every source column is bound to.
//   - Targets: registered marketplace definitions with header maps and
//     required fields.
//   - Processor: the entry point that previews, binds and runs.
//   - Ledger: per-lot warnings shared by every target in a run.
//
// # Target Registry
//
// Targets are registered at init time using [Register]. Each
// [TargetDefinition] contains everything needed to write one upload file:
//
//	core.Register(TargetDefinition{
//	    Info: TargetInfo{Key: "invaluable", Label: "Invaluable", FilePrefix: "Invalu"},
//	    Headers: map[Field]string{
//	        FieldLotNum: "Lot Number",
//	        FieldTitle:  "Lot Title",
//	    },
//	    Required:          []Field{FieldLotNum, FieldTitle, FieldDesc},
//	    SplitLotExtension: true,
//	})
//
// # Run Flow
//
//  1. Caller calls [Processor.Preview] to read a few rows and the column count
//  2. Caller binds one field per column with [Processor.BindHeaders]
//  3. [Processor.Run] loads the records and merges the description fragments
//  4. Each target validates, normalizes and writes its own copy of the records
//  5. Warnings from all targets are written to one log at the end
//
// # Error Handling
//
// Structural errors, such as [ErrSchemaMismatch], stop a run before anything
// is written. Target errors ([ErrMissingRequired], [ErrMalformedLot]) skip one
// target; [ErrNonNumeric] ends the run. Technical errors are mapped to
// operator-facing messages with codes using [MapError].
package core
