package entity

import "database/sql"

// SlotCount is the number of generic data columns read per field row.
// data11..data15 carry photos and sync state and are not read.
const SlotCount = 10

// FieldRow is one row of the `data` table. The meaning of data1..data10
// depends on the row's content type.
type FieldRow struct {
	ContentTypeID int64          `db:"mimetype_id"`
	Data1         sql.NullString `db:"data1"`
	Data2         sql.NullString `db:"data2"`
	Data3         sql.NullString `db:"data3"`
	Data4         sql.NullString `db:"data4"`
	Data5         sql.NullString `db:"data5"`
	Data6         sql.NullString `db:"data6"`
	Data7         sql.NullString `db:"data7"`
	Data8         sql.NullString `db:"data8"`
	Data9         sql.NullString `db:"data9"`
	Data10        sql.NullString `db:"data10"`
}

// Slots holds the data columns of a row, addressed 1-based like the
// column names.
type Slots [SlotCount]sql.NullString

// Slots returns the positional values of the row.
func (r FieldRow) Slots() Slots {
	return Slots{r.Data1, r.Data2, r.Data3, r.Data4, r.Data5, r.Data6, r.Data7, r.Data8, r.Data9, r.Data10}
}

// Get returns slot n (1-based) and whether it holds a non-NULL value.
// Out of range slots read as NULL.
func (s Slots) Get(n int) (string, bool) {
	if n < 1 || n > SlotCount {
		return "", false
	}
	v := s[n-1]
	return v.String, v.Valid
}

// Str returns slot n, with NULL read as the empty string.
func (s Slots) Str(n int) string {
	v, _ := s.Get(n)
	return v
}

// SlotsOf builds Slots from plain values, all non-NULL. Slots past the
// given values stay NULL.
func SlotsOf(values ...string) Slots {
	var s Slots
	for i, v := range values {
		if i >= SlotCount {
			break
		}
		s[i] = sql.NullString{String: v, Valid: true}
	}
	return s
}
