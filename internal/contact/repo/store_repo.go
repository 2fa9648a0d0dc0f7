package repo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/entity"
)

// StoreRepo reads accounts, raw contacts and field rows from an Android
// contacts2.db using sqlx. It never writes.
type StoreRepo struct {
	db *sqlx.DB
}

func NewStoreRepo(db *sqlx.DB) *StoreRepo { return &StoreRepo{db: db} }

// ListAccounts returns every account in table order.
func (r *StoreRepo) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	const q = `SELECT _id, COALESCE(account_name, '') AS account_name, COALESCE(account_type, '') AS account_type FROM accounts ORDER BY _id`
	var rows []entity.Account
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAccountsByType returns the accounts whose account_type matches.
func (r *StoreRepo) ListAccountsByType(ctx context.Context, accountType string) ([]entity.Account, error) {
	const q = `SELECT _id, COALESCE(account_name, '') AS account_name, COALESCE(account_type, '') AS account_type FROM accounts WHERE account_type = ? ORDER BY _id`
	var rows []entity.Account
	if err := r.db.SelectContext(ctx, &rows, q, accountType); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountRawContacts counts raw contacts owned by an account.
func (r *StoreRepo) CountRawContacts(ctx context.Context, accountID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM raw_contacts WHERE account_id = ?`
	var n int
	if err := r.db.GetContext(ctx, &n, q, accountID); err != nil {
		return 0, err
	}
	return n, nil
}

// ListRawContactIDs returns the raw contact ids of an account in id order.
func (r *StoreRepo) ListRawContactIDs(ctx context.Context, accountID int64) ([]int64, error) {
	const q = `SELECT _id FROM raw_contacts WHERE account_id = ? ORDER BY _id`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, q, accountID); err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFieldRows counts the data rows attached to a raw contact.
func (r *StoreRepo) CountFieldRows(ctx context.Context, rawContactID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM data WHERE raw_contact_id = ?`
	var n int
	if err := r.db.GetContext(ctx, &n, q, rawContactID); err != nil {
		return 0, err
	}
	return n, nil
}

// ListFieldRows returns the data rows of a raw contact in insertion order.
func (r *StoreRepo) ListFieldRows(ctx context.Context, rawContactID int64) ([]entity.FieldRow, error) {
	const q = `SELECT mimetype_id, data1, data2, data3, data4, data5, data6, data7, data8, data9, data10
		FROM data WHERE raw_contact_id = ? ORDER BY _id`
	var rows []entity.FieldRow
	if err := r.db.SelectContext(ctx, &rows, q, rawContactID); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListContentTypes loads the mimetypes table as an id to name map.
func (r *StoreRepo) ListContentTypes(ctx context.Context) (map[int64]string, error) {
	const q = `SELECT _id, mimetype FROM mimetypes`
	var rows []entity.ContentType
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(rows))
	for _, ct := range rows {
		out[ct.ID] = ct.Name
	}
	return out, nil
}
