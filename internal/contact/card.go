package contact

import (
	"database/sql"
	"strings"
)

// placeholderName is the FN value of a card with no name at all.
const placeholderName = "?"

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// stripLineBreaks replaces each CR and LF with a space. A record line
// must never contain a line break of its own.
func stripLineBreaks(s string) string {
	return lineBreaks.Replace(s)
}

// Card accumulates the fields of one raw contact and renders it as a
// vCard 3.0 record. Every setter normalizes line breaks. Setters given a
// NULL value leave the field as it was.
//
// Values are emitted verbatim: `;`, `,` and `\` are not escaped.
type Card struct {
	id int64

	displayName string
	familyName  string
	givenName   string
	org         string
	role        string
	note        string
	birthday    string

	phones    []string
	emails    []string
	addresses []string
}

// NewCard returns an empty card for a raw contact id.
func NewCard(rawContactID int64) *Card {
	return &Card{id: rawContactID}
}

func (c *Card) ID() int64 { return c.id }

func (c *Card) DisplayName() string  { return c.displayName }
func (c *Card) FamilyName() string   { return c.familyName }
func (c *Card) GivenName() string    { return c.givenName }
func (c *Card) Organization() string { return c.org }
func (c *Card) Role() string         { return c.role }
func (c *Card) Note() string         { return c.note }
func (c *Card) Birthday() string     { return c.birthday }

// Phones, Emails and Addresses return the pre-formatted entries in
// insertion order. Callers must not modify the returned slices.
func (c *Card) Phones() []string    { return c.phones }
func (c *Card) Emails() []string    { return c.emails }
func (c *Card) Addresses() []string { return c.addresses }

func set(dst *string, v sql.NullString) {
	if v.Valid {
		*dst = stripLineBreaks(v.String)
	}
}

func (c *Card) SetDisplayName(v sql.NullString)  { set(&c.displayName, v) }
func (c *Card) SetFamilyName(v sql.NullString)   { set(&c.familyName, v) }
func (c *Card) SetGivenName(v sql.NullString)    { set(&c.givenName, v) }
func (c *Card) SetOrganization(v sql.NullString) { set(&c.org, v) }
func (c *Card) SetRole(v sql.NullString)         { set(&c.role, v) }
func (c *Card) SetNote(v sql.NullString)         { set(&c.note, v) }
func (c *Card) SetBirthday(v sql.NullString)     { set(&c.birthday, v) }

// AddPhone appends a `type=<T>:<number>` entry.
func (c *Card) AddPhone(entry string) { c.phones = append(c.phones, stripLineBreaks(entry)) }

// AddEmail appends a `type=INTERNET;type=WORK:<addr>` entry.
func (c *Card) AddEmail(entry string) { c.emails = append(c.emails, stripLineBreaks(entry)) }

// AddAddress appends a `type=<T>:;;<street>;...` entry.
func (c *Card) AddAddress(entry string) { c.addresses = append(c.addresses, stripLineBreaks(entry)) }

// FormattedName picks the FN value: the display name, then "given family",
// then whichever part is set, then a placeholder.
func (c *Card) FormattedName() string {
	switch {
	case c.displayName != "":
		return c.displayName
	case c.familyName != "" && c.givenName != "":
		return c.givenName + " " + c.familyName
	case c.familyName != "":
		return c.familyName
	case c.givenName != "":
		return c.givenName
	default:
		return placeholderName
	}
}

// Lines renders the card one property per line, without line terminators.
func (c *Card) Lines() []string {
	lines := make([]string, 0, 6+len(c.phones)+len(c.emails)+len(c.addresses))
	lines = append(lines,
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:"+c.familyName+";"+c.givenName,
		"FN:"+c.FormattedName(),
	)
	for _, p := range c.phones {
		lines = append(lines, "TEL;"+p)
	}
	for _, e := range c.emails {
		lines = append(lines, "EMAIL;"+e)
	}
	for _, a := range c.addresses {
		lines = append(lines, "ADR;"+a)
	}
	if c.org != "" {
		lines = append(lines, "ORG:"+c.org)
	}
	if c.role != "" {
		lines = append(lines, "ROLE:"+c.role)
	}
	if c.note != "" {
		lines = append(lines, "NOTE:"+c.note)
	}
	if c.birthday != "" {
		lines = append(lines, "BDAY:"+c.birthday)
	}
	return append(lines, "END:VCARD")
}

// Record joins Lines with "\n". The result has no trailing newline.
func (c *Card) Record() string {
	return strings.Join(c.Lines(), "\n")
}
