package core

// SerialBounds returns the smallest and largest numeric serial number in t.
// ok is false when the serial column cannot be resolved or holds no numbers.
func SerialBounds(t *Table, cols ResolvedColumns) (lo, hi float64, ok bool) {
	name, found := cols.Get(RoleSerialNumber)
	if !found {
		return 0, 0, false
	}
	ci, found := t.ColumnIndex(name)
	if !found {
		return 0, 0, false
	}

	for _, row := range t.Rows {
		n, valid := ParseNumber(row[ci])
		if !valid {
			continue
		}
		if !ok {
			lo, hi, ok = n, n, true
			continue
		}
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi, ok
}

// DefaultCriteria returns the reset state of the search form for t: every
// text field empty and, when t has numeric serials, the range spanning them.
func DefaultCriteria(t *Table, specs RoleSpecs) Criteria {
	var c Criteria
	if lo, hi, ok := SerialBounds(t, ResolveRoles(t, specs)); ok {
		c.SerialFrom = &lo
		c.SerialTo = &hi
	}
	return c
}
