package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/blo/internal/core"
)

// criteriaFromQuery reads search fields from URL parameters. The serial
// bounds must parse as numbers when present.
func criteriaFromQuery(q url.Values) (core.Criteria, error) {
	c := core.Criteria{
		Name1:        q.Get("name1"),
		Name2:        q.Get("name2"),
		RelativeName: q.Get("relative_name"),
		Epic:         q.Get("epic"),
		AC:           q.Get("ac"),
	}

	var err error
	if c.SerialFrom, err = parseBound(q, "serial_from"); err != nil {
		return core.Criteria{}, err
	}
	if c.SerialTo, err = parseBound(q, "serial_to"); err != nil {
		return core.Criteria{}, err
	}
	return c, nil
}

func parseBound(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid criteria: %s %q is not a number", key, raw)
	}
	return &v, nil
}

// hasCriteria reports whether any search parameter is present in q.
func hasCriteria(q url.Values) bool {
	for _, key := range []string{"name1", "name2", "relative_name", "serial_from", "serial_to", "epic", "ac"} {
		if _, ok := q[key]; ok {
			return true
		}
	}
	return false
}
