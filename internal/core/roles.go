package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// roleFile is the on-disk shape of a column alias override file:
//
//	roles:
//	  name:
//	    aliases: ["name", "નામ", "elector_name"]
//	    fallback: 1
//	  epic:
//	    aliases: ["epic_no", "card_no"]
//
// Omitted roles keep their defaults. Within a role, omitted aliases keep the
// default list and an omitted fallback keeps the default position; a
// negative fallback disables positional fallback.
type roleFile struct {
	Roles map[string]roleEntry `yaml:"roles"`
}

type roleEntry struct {
	Aliases  []string `yaml:"aliases"`
	Fallback *int     `yaml:"fallback"`
}

// roleByKey maps alias-file keys to roles.
func roleByKey(key string) (Role, bool) {
	for _, r := range Roles {
		if r.String() == key {
			return r, true
		}
	}
	return 0, false
}

// LoadRoleSpecs reads alias overrides from a YAML file and applies them on
// top of DefaultRoleSpecs. An empty path returns the defaults.
func LoadRoleSpecs(path string) (RoleSpecs, error) {
	if path == "" {
		return DefaultRoleSpecs(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column aliases: %w", err)
	}
	return ParseRoleSpecs(data)
}

// ParseRoleSpecs applies YAML alias overrides on top of DefaultRoleSpecs.
func ParseRoleSpecs(data []byte) (RoleSpecs, error) {
	specs := DefaultRoleSpecs()

	var file roleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return specs, nil
		}
		return nil, fmt.Errorf("parse column aliases: %w", err)
	}

	var unknown []string
	for key, entry := range file.Roles {
		role, ok := roleByKey(strings.ToLower(strings.TrimSpace(key)))
		if !ok {
			unknown = append(unknown, key)
			continue
		}

		spec := specs[role]
		if entry.Aliases != nil {
			spec.Aliases = entry.Aliases
		}
		if entry.Fallback != nil {
			if *entry.Fallback < 0 {
				spec.Fallback = nil
			} else {
				spec.Fallback = position(*entry.Fallback)
			}
		}
		specs[role] = spec
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("parse column aliases: unknown roles: %s", strings.Join(unknown, ", "))
	}
	return specs, nil
}
