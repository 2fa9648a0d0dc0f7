// Package storetest builds throwaway contacts2.db files for tests.
package storetest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// schema is the subset of the Android contacts provider schema read by the
// exporter.
const schema = `
CREATE TABLE accounts (
	_id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_name TEXT,
	account_type TEXT,
	data_set TEXT
);
CREATE TABLE raw_contacts (
	_id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER REFERENCES accounts(_id),
	deleted INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE mimetypes (
	_id INTEGER PRIMARY KEY AUTOINCREMENT,
	mimetype TEXT NOT NULL UNIQUE
);
CREATE TABLE data (
	_id INTEGER PRIMARY KEY AUTOINCREMENT,
	raw_contact_id INTEGER NOT NULL REFERENCES raw_contacts(_id),
	mimetype_id INTEGER NOT NULL REFERENCES mimetypes(_id),
	data1 TEXT, data2 TEXT, data3 TEXT, data4 TEXT, data5 TEXT,
	data6 TEXT, data7 TEXT, data8 TEXT, data9 TEXT, data10 TEXT,
	data11 TEXT, data12 TEXT, data13 TEXT, data14 TEXT, data15 BLOB
);
`

// Store is a writable contacts2.db fixture.
type Store struct {
	t    testing.TB
	db   *sql.DB
	path string
}

// New creates an empty store under t.TempDir(). It is closed on cleanup.
func New(t testing.TB) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts2.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return &Store{t: t, db: db, path: path}
}

// Path returns the file location of the store.
func (s *Store) Path() string { return s.path }

// AddAccount inserts an account and returns its id.
func (s *Store) AddAccount(name, accountType string) int64 {
	s.t.Helper()
	return s.insert(`INSERT INTO accounts (account_name, account_type) VALUES (?, ?)`, name, accountType)
}

// AddRawContact inserts a raw contact owned by accountID.
func (s *Store) AddRawContact(accountID int64) int64 {
	s.t.Helper()
	return s.insert(`INSERT INTO raw_contacts (account_id) VALUES (?)`, accountID)
}

// MimetypeID returns the id of mimetype, registering it when missing.
func (s *Store) MimetypeID(mimetype string) int64 {
	s.t.Helper()
	_, err := s.db.Exec(`INSERT OR IGNORE INTO mimetypes (mimetype) VALUES (?)`, mimetype)
	require.NoError(s.t, err)
	var id int64
	require.NoError(s.t, s.db.QueryRow(`SELECT _id FROM mimetypes WHERE mimetype = ?`, mimetype).Scan(&id))
	return id
}

// AddRow inserts a data row. Values fill data1 onward; pass nil for NULL.
func (s *Store) AddRow(rawContactID int64, mimetype string, values ...any) int64 {
	s.t.Helper()
	return s.AddRowWithTypeID(rawContactID, s.MimetypeID(mimetype), values...)
}

// AddRowWithTypeID inserts a data row with a raw mimetype id, which need not
// exist in the mimetypes table.
func (s *Store) AddRowWithTypeID(rawContactID, mimetypeID int64, values ...any) int64 {
	s.t.Helper()
	require.LessOrEqual(s.t, len(values), 10, "at most data1..data10")
	cols := []string{"raw_contact_id", "mimetype_id"}
	args := []any{rawContactID, mimetypeID}
	for i, v := range values {
		cols = append(cols, fmt.Sprintf("data%d", i+1))
		args = append(args, v)
	}
	q := fmt.Sprintf(`INSERT INTO data (%s) VALUES (%s)`,
		strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	return s.insert(q, args...)
}

// Exec runs an arbitrary statement against the store.
func (s *Store) Exec(q string, args ...any) {
	s.t.Helper()
	_, err := s.db.Exec(q, args...)
	require.NoError(s.t, err)
}

func (s *Store) insert(q string, args ...any) int64 {
	s.t.Helper()
	res, err := s.db.Exec(q, args...)
	require.NoError(s.t, err)
	id, err := res.LastInsertId()
	require.NoError(s.t, err)
	return id
}
