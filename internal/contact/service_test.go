package contact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/repo"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/storetest"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/output"
	"github.com/ovaphlow/pitchfork/contacts-export/pkg/database"
)

type memSink struct {
	records []string
	failAt  int
}

func (m *memSink) Write(record string) error {
	if m.failAt > 0 && len(m.records)+1 == m.failAt {
		return errors.New("disk full")
	}
	m.records = append(m.records, record)
	return nil
}

// fakeStore serves accounts and rows from memory.
type fakeStore struct {
	accounts map[string][]entity.Account
	contacts map[int64][]int64
	rows     map[int64][]entity.FieldRow
	types    map[int64]string

	failRowsFor int64
	failTypes   bool
}

func (f *fakeStore) ListAccountsByType(_ context.Context, t string) ([]entity.Account, error) {
	return f.accounts[t], nil
}

func (f *fakeStore) CountRawContacts(_ context.Context, id int64) (int, error) {
	return len(f.contacts[id]), nil
}

func (f *fakeStore) ListRawContactIDs(_ context.Context, id int64) ([]int64, error) {
	return f.contacts[id], nil
}

func (f *fakeStore) CountFieldRows(_ context.Context, id int64) (int, error) {
	return len(f.rows[id]), nil
}

func (f *fakeStore) ListFieldRows(_ context.Context, id int64) ([]entity.FieldRow, error) {
	if id == f.failRowsFor {
		return nil, errors.New("database disk image is malformed")
	}
	return f.rows[id], nil
}

func (f *fakeStore) ListContentTypes(context.Context) (map[int64]string, error) {
	if f.failTypes {
		return nil, errors.New("no such table: mimetypes")
	}
	return f.types, nil
}

func nameRow(display, given, family string) entity.FieldRow {
	return entity.FieldRow{
		ContentTypeID: 1,
		Data1:         valid(display),
		Data2:         valid(given),
		Data3:         valid(family),
	}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: map[string][]entity.Account{
			"com.google":   {{ID: 1, Name: "a@example.com", Type: "com.google"}, {ID: 2, Name: "b@example.com", Type: "com.google"}},
			"com.whatsapp": {{ID: 3, Name: "WhatsApp", Type: "com.whatsapp"}},
			"vnd.sec.sim":  {{ID: 4, Name: "SIM", Type: "vnd.sec.sim"}},
		},
		contacts: map[int64][]int64{
			1: {10, 11},
			2: {11, 12},
			3: {10, 13},
		},
		rows: map[int64][]entity.FieldRow{
			10: {nameRow("Ten", "", "")},
			11: {nameRow("Eleven", "", "")},
			12: {nameRow("Twelve", "", "")},
			13: {nameRow("Thirteen", "", "")},
		},
		types: map[int64]string{1: MimeName},
	}
}

func TestExportDeduplicatesAcrossAccounts(t *testing.T) {
	store := newFakeStore()
	sink := &memSink{}
	stats, err := NewService(store, nil).Export(context.Background(), []string{"com.google", "com.whatsapp", "vnd.sec.sim"}, sink)
	require.NoError(t, err)

	require.Len(t, sink.records, 4)
	var fns []string
	for _, r := range sink.records {
		for _, line := range strings.Split(r, "\n") {
			if strings.HasPrefix(line, "FN:") {
				fns = append(fns, line)
			}
		}
	}
	assert.Equal(t, []string{"FN:Ten", "FN:Eleven", "FN:Twelve", "FN:Thirteen"}, fns)
	assert.Equal(t, Stats{Accounts: 3, Skipped: 1, Contacts: 4, Rows: 4}, stats)
}

func TestExportNoTypesWritesNothing(t *testing.T) {
	store := newFakeStore()
	store.failTypes = true
	sink := &memSink{}
	stats, err := NewService(store, nil).Export(context.Background(), nil, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.records)
	assert.Equal(t, Stats{}, stats)
}

func TestExportStoreFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.failRowsFor = 12
	sink := &memSink{}
	stats, err := NewService(store, nil).Export(context.Background(), []string{"com.google"}, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact 12")
	// records written before the failure remain
	assert.Len(t, sink.records, 2)
	assert.Equal(t, 2, stats.Contacts)

	store = newFakeStore()
	store.failTypes = true
	_, err = NewService(store, nil).Export(context.Background(), []string{"com.google"}, &memSink{})
	assert.ErrorContains(t, err, "list content types")
}

func TestExportSinkFailure(t *testing.T) {
	sink := &memSink{failAt: 2}
	_, err := NewService(newFakeStore(), nil).Export(context.Background(), []string{"com.google"}, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, sink.records, 1)
}

func TestAssembleIgnoresUnknownTypes(t *testing.T) {
	store := newFakeStore()
	store.types[2] = "vnd.android.cursor.item/photo"
	store.rows[10] = append(store.rows[10],
		entity.FieldRow{ContentTypeID: 2, Data1: valid("blob")},
		entity.FieldRow{ContentTypeID: 99, Data1: valid("???")},
	)
	var stats Stats
	card, err := NewService(store, nil).Assemble(context.Background(), 10, store.types, &stats)
	require.NoError(t, err)
	assert.Equal(t, "Ten", card.DisplayName())
	assert.Equal(t, Stats{Rows: 1, Ignored: 2}, stats)
}

// openStore exports straight from a contacts2.db fixture.
func openStore(t *testing.T, path string) *repo.StoreRepo {
	t.Helper()
	sqlDB, err := database.Connect(database.Config{Path: path})
	require.NoError(t, err)
	db := sqlx.NewDb(sqlDB, database.DriverName)
	t.Cleanup(func() { _ = db.Close() })
	return repo.NewStoreRepo(db)
}

func TestExportJaneDoe(t *testing.T) {
	st := storetest.New(t)
	acc := st.AddAccount("jane@example.com", "com.google")
	id := st.AddRawContact(acc)
	st.AddRow(id, MimeName, "Jane", "Jane", "Doe")
	st.AddRow(id, MimePhone, "555-0100-9", "2")

	sink := &memSink{}
	_, err := NewService(openStore(t, st.Path()), nil).Export(context.Background(), []string{"com.google"}, sink)
	require.NoError(t, err)
	require.Len(t, sink.records, 1)

	lines := strings.Split(sink.records[0], "\n")
	assert.Contains(t, lines, "N:Doe;Jane")
	assert.Contains(t, lines, "FN:Jane")
	assert.Contains(t, lines, "TEL;type=CELL:555-0100-9")
}

func TestExportPreservesRowOrder(t *testing.T) {
	st := storetest.New(t)
	acc := st.AddAccount("a", "com.google")
	id := st.AddRawContact(acc)
	st.AddRow(id, MimePhone, "333333333", "1")
	st.AddRow(id, MimeEmail, "z@example.com")
	st.AddRow(id, MimePhone, "111", "2")
	st.AddRow(id, MimePostalAddress, nil, "2", nil, "Second St")
	st.AddRow(id, MimeEmail, "a@example.com")
	st.AddRow(id, MimePhone, "222222222", "2")
	st.AddRow(id, MimePostalAddress, nil, "1", nil, "First St")

	sink := &memSink{}
	_, err := NewService(openStore(t, st.Path()), nil).Export(context.Background(), []string{"com.google"}, sink)
	require.NoError(t, err)
	require.Len(t, sink.records, 1)

	want := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:;",
		"FN:?",
		"TEL;type=HOME:333333333",
		"TEL;type=WORK:111",
		"TEL;type=CELL:222222222",
		"EMAIL;type=INTERNET;type=WORK:z@example.com",
		"EMAIL;type=INTERNET;type=WORK:a@example.com",
		"ADR;type=WORK:;;Second St;;;;",
		"ADR;type=HOME:;;First St;;;;",
		"END:VCARD",
	}, "\n")
	assert.Equal(t, want, sink.records[0])
}

func TestExportIsIdempotent(t *testing.T) {
	st := storetest.New(t)
	google := st.AddAccount("a", "com.google")
	wa := st.AddAccount("wa", "com.whatsapp")
	for i, acc := range []int64{google, wa, google} {
		id := st.AddRawContact(acc)
		st.AddRow(id, MimeName, nil, "Given", strings.Repeat("X", i+1))
		st.AddRow(id, MimeOrganization, "Acme", nil, nil, "CTO", "Ops")
		st.AddRow(id, MimeNote, "multi\nline")
	}
	store := openStore(t, st.Path())

	run := func() []byte {
		path := filepath.Join(t.TempDir(), "out.vcf")
		_, err := NewService(store, nil).Export(context.Background(), []string{"com.whatsapp", "com.google"}, output.NewFileSink(path))
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, 3, strings.Count(string(first), "BEGIN:VCARD"))
	assert.Contains(t, string(first), "NOTE:multi line\n")
	assert.Contains(t, string(first), "ORG:Acme;Ops\nROLE:CTO\n")
}
