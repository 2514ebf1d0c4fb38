package core

import "strings"

// Role is a logical column that filters target. The actual column name is
// resolved separately for every table, since raw headers vary by source file.
type Role int

const (
	RoleSerialNumber Role = iota
	RolePrimaryName
	RoleRelativeName
	RoleEpicID
	RoleAcID
)

// Roles lists every role in resolution order.
var Roles = []Role{RoleSerialNumber, RolePrimaryName, RoleRelativeName, RoleEpicID, RoleAcID}

// String returns the key used for the role in alias files and JSON.
func (r Role) String() string {
	switch r {
	case RoleSerialNumber:
		return "serial"
	case RolePrimaryName:
		return "name"
	case RoleRelativeName:
		return "relative_name"
	case RoleEpicID:
		return "epic"
	case RoleAcID:
		return "ac"
	default:
		return "unknown"
	}
}

// RoleSpec describes how to find a role's column: aliases are tried in
// order (case-insensitive, exact), then the optional fallback position.
type RoleSpec struct {
	Aliases  []string
	Fallback *int
}

// RoleSpecs maps every role to its resolution rule.
type RoleSpecs map[Role]RoleSpec

func position(i int) *int { return &i }

// DefaultRoleSpecs returns the built-in alias lists for roll exports.
func DefaultRoleSpecs() RoleSpecs {
	return RoleSpecs{
		RoleSerialNumber: {Aliases: []string{"serial_no", "serial no", "srno", "sr_no"}, Fallback: position(0)},
		RolePrimaryName:  {Aliases: []string{"name", "નામ"}, Fallback: position(1)},
		RoleRelativeName: {Aliases: []string{"relative_name", "relative name", "સંબંધિત નામ"}, Fallback: position(3)},
		RoleEpicID:       {Aliases: []string{"epic_no", "epic no", "epic"}},
		RoleAcID:         {Aliases: []string{"ac_no", "ac no", "ac"}},
	}
}

// ResolveColumn finds the column matching the first alias that appears in
// columns. Matching is case-insensitive but otherwise exact; no substring
// matching is done. When no alias matches and fallback is a valid position,
// the column at that position is returned. ok is false when neither applies,
// which callers treat as "criterion not applicable to this table".
func ResolveColumn(columns []string, aliases []string, fallback *int) (string, bool) {
	lowered := make(map[string]string, len(columns))
	for _, c := range columns {
		lowered[strings.ToLower(c)] = c
	}

	for _, alias := range aliases {
		if c, ok := lowered[strings.ToLower(strings.TrimSpace(alias))]; ok {
			return c, true
		}
	}

	if fallback != nil && *fallback >= 0 && *fallback < len(columns) {
		return columns[*fallback], true
	}
	return "", false
}

// ResolvedColumns holds the actual column name per role for one table.
// Roles that could not be resolved are absent.
type ResolvedColumns map[Role]string

// Get returns the column for a role.
func (rc ResolvedColumns) Get(r Role) (string, bool) {
	c, ok := rc[r]
	return c, ok
}

// ResolveRoles resolves every role in specs against the table's columns.
func ResolveRoles(t *Table, specs RoleSpecs) ResolvedColumns {
	out := make(ResolvedColumns, len(specs))
	for _, role := range Roles {
		spec, ok := specs[role]
		if !ok {
			continue
		}
		if c, ok := ResolveColumn(t.Columns, spec.Aliases, spec.Fallback); ok {
			out[role] = c
		}
	}
	return out
}
