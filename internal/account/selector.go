package account

import (
	"fmt"

	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/entity"
)

// Request is what the operator asked to export.
type Request struct {
	Types    []string // explicit account types, possibly repeated
	All      bool     // every present and registered type
	ListOnly bool     // print the store's accounts and stop
}

// Selection is the outcome of Select.
type Selection struct {
	// Listing has one "type (name)" line per store account in list mode.
	Listing []string
	// Done is set when nothing should be exported after the listing.
	Done bool
	// Types are the account types to export, deduplicated in first-seen
	// order: requested, then present in the store, then registered.
	Types []string
}

// Empty reports whether there is nothing to export.
func (s Selection) Empty() bool { return !s.Done && len(s.Types) == 0 }

// Select resolves req against the accounts present in the store.
func Select(req Request, present []entity.Account, reg Registry) Selection {
	if req.ListOnly {
		listing := make([]string, 0, len(present))
		for _, acc := range present {
			listing = append(listing, fmt.Sprintf("%s (%s)", acc.Type, acc.Name))
		}
		return Selection{Listing: listing, Done: true}
	}

	var types []string
	seen := make(map[string]struct{})
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}

	for _, t := range req.Types {
		add(t)
	}
	if req.All {
		for _, acc := range present {
			add(acc.Type)
		}
		for _, t := range reg.Types() {
			add(t)
		}
	}
	return Selection{Types: types}
}
