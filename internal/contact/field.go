package contact

import (
	"database/sql"
	"strings"
	"unicode/utf8"

	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/entity"
)

// Mimetype names of the field rows the exporter understands.
const (
	MimeEmail         = "vnd.android.cursor.item/email_v2"
	MimeOrganization  = "vnd.android.cursor.item/organization"
	MimePhone         = "vnd.android.cursor.item/phone_v2"
	MimeName          = "vnd.android.cursor.item/name"
	MimePostalAddress = "vnd.android.cursor.item/postal-address_v2"
	MimeNote          = "vnd.android.cursor.item/note"
	MimeLunarBirthday = "vnd.com.miui.cursor.item/lunarBirthday"
)

// Kind is the closed set of content types a field row can be folded as.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmail
	KindOrganization
	KindPhone
	KindName
	KindPostalAddress
	KindNote
	KindLunarBirthday

	kindCount
)

var kindByMime = map[string]Kind{
	MimeEmail:         KindEmail,
	MimeOrganization:  KindOrganization,
	MimePhone:         KindPhone,
	MimeName:          KindName,
	MimePostalAddress: KindPostalAddress,
	MimeNote:          KindNote,
	MimeLunarBirthday: KindLunarBirthday,
}

// ParseKind maps a mimetype name to its Kind. Unrecognized names are
// KindUnknown.
func ParseKind(mimetype string) Kind {
	return kindByMime[mimetype]
}

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindOrganization:
		return "organization"
	case KindPhone:
		return "phone"
	case KindName:
		return "name"
	case KindPostalAddress:
		return "postal-address"
	case KindNote:
		return "note"
	case KindLunarBirthday:
		return "lunar-birthday"
	default:
		return "unknown"
	}
}

// rule folds the slots of one row into a card.
type rule func(c *Card, s entity.Slots)

// rules is indexed by Kind. KindUnknown has no rule.
var rules = [kindCount]rule{
	KindEmail:         applyEmail,
	KindOrganization:  applyOrganization,
	KindPhone:         applyPhone,
	KindName:          applyName,
	KindPostalAddress: applyPostalAddress,
	KindNote:          applyNote,
	KindLunarBirthday: applyLunarBirthday,
}

// Apply folds one field row into c. It reports false when the kind has no
// rule and the row was ignored.
func Apply(c *Card, k Kind, s entity.Slots) bool {
	if k <= KindUnknown || k >= kindCount || rules[k] == nil {
		return false
	}
	rules[k](c, s)
	return true
}

// Category tags written in front of phone and address values.
const (
	tagHome     = "HOME"
	tagCell     = "CELL"
	tagWork     = "WORK"
	tagInternet = "INTERNET"
)

// Android type codes stored in data2.
const (
	typeCodeHome   = "1"
	typeCodeMobile = "2"
)

// minClassifiedPhoneLen is the length a number must exceed before its home
// or mobile type code is used. Anything up to this length is WORK.
const minClassifiedPhoneLen = 8

func valid(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func applyEmail(c *Card, s entity.Slots) {
	addr, ok := s.Get(1)
	if !ok {
		return
	}
	c.AddEmail("type=" + tagInternet + ";type=" + tagWork + ":" + addr)
}

func applyOrganization(c *Card, s entity.Slots) {
	org, unit, role := s.Str(1), s.Str(5), s.Str(4)
	if org != "" || unit != "" {
		c.SetOrganization(valid(org + ";" + unit))
	}
	if role != "" {
		c.SetRole(valid(role))
	}
}

// PhoneCategory classifies a phone number from its data2 type code. A NULL
// number or code falls back to WORK.
func PhoneCategory(number, typeCode sql.NullString) string {
	if !number.Valid || !typeCode.Valid {
		return tagWork
	}
	long := utf8.RuneCountInString(number.String) > minClassifiedPhoneLen
	switch {
	case typeCode.String == typeCodeHome && long:
		return tagHome
	case typeCode.String == typeCodeMobile && long:
		return tagCell
	default:
		return tagWork
	}
}

func applyPhone(c *Card, s entity.Slots) {
	number := s[0]
	tag := PhoneCategory(number, s[1])
	if !number.Valid {
		return
	}
	c.AddPhone("type=" + tag + ":" + number.String)
}

func applyName(c *Card, s entity.Slots) {
	c.SetDisplayName(s[0])
	c.SetGivenName(s[1])
	c.SetFamilyName(s[2])
}

// AddressCategory classifies a postal address from its data2 type code.
func AddressCategory(typeCode sql.NullString) string {
	if typeCode.Valid && typeCode.String == typeCodeHome {
		return tagHome
	}
	return tagWork
}

func applyPostalAddress(c *Card, s entity.Slots) {
	// post office box and extended address are left empty
	parts := []string{
		"", "",
		s.Str(4),  // street
		s.Str(7),  // locality
		s.Str(8),  // region
		s.Str(9),  // postal code
		s.Str(10), // country
	}
	c.AddAddress("type=" + AddressCategory(s[1]) + ":" + strings.Join(parts, ";"))
}

func applyNote(c *Card, s entity.Slots) {
	c.SetNote(s[0])
}

func applyLunarBirthday(c *Card, s entity.Slots) {
	c.SetBirthday(s[0])
}
