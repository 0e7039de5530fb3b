package extraction

// Verification-editor mutations. Every mutation replaces the affected
// branch of the data tree rather than aliasing into it, so a snapshot
// taken before the call stays intact. Value writes go through
// Cell.WithValue, which keeps the source-location box when one exists.

// SetScalar sets the value of a scalar field, preserving its annotation.
func (d *Data) SetScalar(key string, newValue any) {
	if d.Scalars == nil {
		d.Scalars = make(map[string]Cell)
	}
	d.Scalars[key] = d.Scalars[key].WithValue(newValue)
}

// SetCell sets one table cell, preserving its annotation. A rowIndex past
// the current end extends the table with empty rows up to and including
// that index; negative indexes are ignored.
func (d *Data) SetCell(tableKey string, rowIndex int, colKey string, newValue any) {
	if rowIndex < 0 {
		return
	}
	if d.Tables == nil {
		d.Tables = make(map[string][]Row)
	}
	rows := d.Tables[tableKey]
	next := make([]Row, len(rows))
	copy(next, rows)
	for len(next) <= rowIndex {
		next = append(next, Row{})
	}
	row := next[rowIndex].Clone()
	row[colKey] = row[colKey].WithValue(newValue)
	next[rowIndex] = row
	d.Tables[tableKey] = next
}

// AddRow appends one empty row to the table.
func (d *Data) AddRow(tableKey string) {
	if d.Tables == nil {
		d.Tables = make(map[string][]Row)
	}
	rows := d.Tables[tableKey]
	next := make([]Row, len(rows), len(rows)+1)
	copy(next, rows)
	d.Tables[tableKey] = append(next, Row{})
}

// RemoveRow removes the row at rowIndex; later rows shift up. Out-of-range
// indexes leave the table unchanged.
func (d *Data) RemoveRow(tableKey string, rowIndex int) {
	if d.Tables == nil {
		return
	}
	rows := d.Tables[tableKey]
	if rowIndex < 0 || rowIndex >= len(rows) {
		return
	}
	next := make([]Row, 0, len(rows)-1)
	next = append(next, rows[:rowIndex]...)
	next = append(next, rows[rowIndex+1:]...)
	d.Tables[tableKey] = next
}
