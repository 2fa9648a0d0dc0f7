package entity

// Account is one row of the `accounts` table. Type is the identity
// provider package (e.g. com.google, com.whatsapp).
type Account struct {
	ID   int64  `db:"_id"`
	Name string `db:"account_name"`
	Type string `db:"account_type"`
}

// ContentType maps a mimetypes row id to its name.
type ContentType struct {
	ID   int64  `db:"_id"`
	Name string `db:"mimetype"`
}
