// Package core provides the lookup logic for merged roll data.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers and the CLI without modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Table: an immutable, column-ordered set of nullable text cells loaded
//     from CSV ([ReadCSV]) or a PostgreSQL query ([LoadQuery]).
//   - Merge: an inner join of two tables on the ID column ([Merge]). The ID
//     column is dropped from the result.
//   - Roles: logical columns (serial number, name, relative name, EPIC, AC)
//     resolved per table from alias lists with a positional fallback
//     ([ResolveRoles]).
//   - Filter: up to seven independent criteria combined with AND
//     ([Engine.Apply], [Select]).
//   - Service: session state for the web and CLI shells ([Service]).
//
// # Filtering
//
// Text criteria are matched as literal, case-insensitive substrings. Name
// criteria are first passed through a [Normalizer] so that a Latin query can
// match Gujarati data:
//
//	engine := core.NewEngine(adapter, core.DefaultRoleSpecs())
//	res := engine.Apply(ctx, merged.Table, core.Criteria{Name1: "ramesh"})
//	fmt.Println(res.Matched, res.Total)
//
// A criterion whose column cannot be resolved in the table is ignored rather
// than treated as an error.
//
// # Error Handling
//
// Only a missing join key is fatal ([MissingKeyError]). Technical errors are
// mapped to user-friendly messages with support codes by [MapError].
package core
