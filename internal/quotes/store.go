package quotes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	dbpkg "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// StoreSubmitter writes quote requests to the service database and queues a
// quote_requested event in the same transaction.
type StoreSubmitter struct {
	db     txRunner
	repo   *Repository
	events eventEmitter
}

func NewStoreSubmitter(db txRunner, repo *Repository, events eventEmitter) *StoreSubmitter {
	return &StoreSubmitter{db: db, repo: repo, events: events}
}

func (s *StoreSubmitter) Name() string { return config.QuoteBackendDatabase }

func (s *StoreSubmitter) Submit(ctx context.Context, req Request) (Receipt, error) {
	if s == nil || s.db == nil || s.repo == nil {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeDependency, "quote store not configured")
	}
	row := ToModel(req)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, row); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_quote_requests_reference") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "quote reference already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store quote request")
		}
		if s.events == nil {
			return nil
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteRequested,
			AggregateType: enums.AggregateQuoteRequest,
			AggregateID:   row.ID,
			Origin:        &outbox.Origin{SessionID: req.SessionID, RequestID: req.RequestID},
			Data:          quoteRequestedPayload(row.ID, req),
			OccurredAt:    req.RequestedAt,
		})
	})
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Reference: row.Reference, Backend: s.Name()}, nil
}

func quoteRequestedPayload(id uuid.UUID, req Request) payloads.QuoteRequestedEvent {
	event := payloads.QuoteRequestedEvent{
		QuoteRequestID: id,
		Reference:      req.Reference,
		FullName:       req.FullName,
		Email:          req.Email,
		ClientType:     req.ClientType,
		Phone:          req.Phone,
		Items:          make([]payloads.QuoteRequestItem, 0, len(req.Items)),
		RequestedAt:    req.RequestedAt,
	}
	if req.HasNotes() {
		event.Notes = req.Notes
	}
	for _, item := range req.Items {
		event.Items = append(event.Items, payloads.QuoteRequestItem{
			ServiceCode: item.ServiceCode,
			ServiceName: item.ServiceName,
			Category:    item.Category,
			Quantity:    item.Quantity,
			Details:     item.Details,
		})
	}
	return event
}
