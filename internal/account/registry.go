package account

// KnownAccount pairs a short operator-facing alias with an account type.
type KnownAccount struct {
	Alias string
	Type  string
}

// Registry is the ordered table of account types the exporter knows by
// name. "All" exports include every registry type even when the store's
// accounts table does not list it.
type Registry []KnownAccount

// DefaultRegistry returns the providers commonly found on Android phones.
func DefaultRegistry() Registry {
	return Registry{
		{Alias: "exchange", Type: "com.google.android.gm.exchange"},
		{Alias: "google", Type: "com.google"},
		{Alias: "imap", Type: "com.google.android.gm.legacyimap"},
		{Alias: "phone", Type: "vnd.sec.contact.phone"},
		{Alias: "sim", Type: "vnd.sec.contact.sim"},
		{Alias: "telegram", Type: "org.telegram.messenger"},
		{Alias: "tuenti", Type: "com.tuenti.messenger.auth"},
		{Alias: "twitter", Type: "com.twitter.android.auth.login"},
		{Alias: "whatsapp", Type: "com.whatsapp"},
	}
}

// Lookup returns the account type registered under alias.
func (r Registry) Lookup(alias string) (string, bool) {
	for _, k := range r {
		if k.Alias == alias {
			return k.Type, true
		}
	}
	return "", false
}

// Types returns every registered account type in table order.
func (r Registry) Types() []string {
	out := make([]string, 0, len(r))
	for _, k := range r {
		out = append(out, k.Type)
	}
	return out
}
