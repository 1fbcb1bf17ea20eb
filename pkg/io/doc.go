// Package io reads and writes family data: flat person-record lists and
// TOML family definitions.
//
// # Record Lists
//
// A record list is the only persisted form of a family. It is an ordered
// list of [Record] values with names, national id, coordinates and dates.
// Records carry no identifiers and no relationships; loading a list clears
// the family and re-adds each record in order.
//
// Two encodings are supported, chosen by file extension:
//
//   - .json (default): a JSON array
//   - .yaml / .yml: a YAML sequence
//
// Use [ImportRecords] and [ExportRecords] for files, or [ReadRecords] and
// [WriteRecords] for any reader or writer.
//
// # Definitions
//
// A [Definition] is a TOML file describing people together with partner and
// parent/child declarations that reference people by a local key. It is
// replayed through the family model, so cycle and parent-limit checks apply
// exactly as for direct calls. Definitions are inputs only; exporting a
// family always produces a record list.
//
//	def, err := io.LoadDefinition("mora.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Validation
//
// Both readers validate names, coordinates and lifespans before returning.
// Errors carry [errors.ErrCodeInvalidFormat] for undecodable input and
// [errors.ErrCodeInvalidInput] or [errors.ErrCodeInvalidReference] for
// invalid content.
//
// [errors.ErrCodeInvalidFormat]: github.com/matzehuels/kintree/pkg/errors.ErrCodeInvalidFormat
// [errors.ErrCodeInvalidInput]: github.com/matzehuels/kintree/pkg/errors.ErrCodeInvalidInput
// [errors.ErrCodeInvalidReference]: github.com/matzehuels/kintree/pkg/errors.ErrCodeInvalidReference
package io
