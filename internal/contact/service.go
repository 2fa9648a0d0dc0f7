package contact

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/entity"
)

// Store is the read-only view of the contacts database used by Service.
type Store interface {
	ListAccountsByType(ctx context.Context, accountType string) ([]entity.Account, error)
	CountRawContacts(ctx context.Context, accountID int64) (int, error)
	ListRawContactIDs(ctx context.Context, accountID int64) ([]int64, error)
	CountFieldRows(ctx context.Context, rawContactID int64) (int, error)
	ListFieldRows(ctx context.Context, rawContactID int64) ([]entity.FieldRow, error)
	ListContentTypes(ctx context.Context) (map[int64]string, error)
}

// Sink receives one serialized record per contact.
type Sink interface {
	Write(record string) error
}

// Stats summarizes one export.
type Stats struct {
	Accounts int // accounts with at least one raw contact
	Skipped  int // accounts without raw contacts
	Contacts int // records written
	Rows     int // field rows folded into a card
	Ignored  int // field rows with an unknown content type
}

// Service assembles raw contacts into cards and hands their records to a sink.
type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

// NewService constructs a Service. A nil logger discards log output.
func NewService(store Store, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, logger: logger}
}

// Export writes one record per distinct raw contact owned by an account of
// the given types. A raw contact reachable through several accounts is
// exported once, at its first occurrence. Store and sink failures abort the
// export; records already written stay written.
func (s *Service) Export(ctx context.Context, accountTypes []string, sink Sink) (Stats, error) {
	var stats Stats
	ids, err := s.collect(ctx, accountTypes, &stats)
	if err != nil {
		return stats, err
	}
	if len(ids) == 0 {
		return stats, nil
	}

	contentTypes, err := s.store.ListContentTypes(ctx)
	if err != nil {
		return stats, fmt.Errorf("list content types: %w", err)
	}

	for _, id := range ids {
		card, err := s.Assemble(ctx, id, contentTypes, &stats)
		if err != nil {
			return stats, err
		}
		if err := sink.Write(card.Record()); err != nil {
			return stats, fmt.Errorf("write contact %d: %w", id, err)
		}
		stats.Contacts++
	}
	return stats, nil
}

// collect returns the raw contact ids of the selected accounts,
// deduplicated, in first-seen order.
func (s *Service) collect(ctx context.Context, accountTypes []string, stats *Stats) ([]int64, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, accountType := range accountTypes {
		accounts, err := s.store.ListAccountsByType(ctx, accountType)
		if err != nil {
			return nil, fmt.Errorf("list accounts of type %q: %w", accountType, err)
		}
		for _, acc := range accounts {
			n, err := s.store.CountRawContacts(ctx, acc.ID)
			if err != nil {
				return nil, fmt.Errorf("count contacts of account %d: %w", acc.ID, err)
			}
			if n == 0 {
				stats.Skipped++
				s.logger.Infow("skipping account without contacts", "account", acc.Name, "type", acc.Type)
				continue
			}
			stats.Accounts++
			s.logger.Infow("exporting contacts", "count", n, "account", acc.Name, "type", acc.Type)

			accIDs, err := s.store.ListRawContactIDs(ctx, acc.ID)
			if err != nil {
				return nil, fmt.Errorf("list contacts of account %d: %w", acc.ID, err)
			}
			for _, id := range accIDs {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// Assemble builds the card of one raw contact from its field rows.
// contentTypes maps mimetype ids to names; rows of unmapped or unknown
// types are skipped.
func (s *Service) Assemble(ctx context.Context, rawContactID int64, contentTypes map[int64]string, stats *Stats) (*Card, error) {
	if stats == nil {
		stats = &Stats{}
	}
	if s.logger.Desugar().Core().Enabled(zapcore.DebugLevel) {
		n, err := s.store.CountFieldRows(ctx, rawContactID)
		if err != nil {
			return nil, fmt.Errorf("count rows of contact %d: %w", rawContactID, err)
		}
		s.logger.Debugw("assembling contact", "raw_contact_id", rawContactID, "rows", n)
	}

	rows, err := s.store.ListFieldRows(ctx, rawContactID)
	if err != nil {
		return nil, fmt.Errorf("list rows of contact %d: %w", rawContactID, err)
	}

	card := NewCard(rawContactID)
	for _, row := range rows {
		name, ok := contentTypes[row.ContentTypeID]
		if ok && Apply(card, ParseKind(name), row.Slots()) {
			stats.Rows++
			continue
		}
		stats.Ignored++
		s.logger.Debugw("ignoring field row", "raw_contact_id", rawContactID, "mimetype_id", row.ContentTypeID, "mimetype", name)
	}
	return card, nil
}
