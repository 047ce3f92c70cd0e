package redistribution

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TransferService runs transfer lifecycle steps. Each step holds the keyed
// locks of the surplus posting and request involved, loads the records
// inside one transaction, applies the workflow and saves every touched
// record with a version check. Events are published after commit.
type TransferService struct {
	txScope        TransactionScope
	transferRepo   redistribution.TransferRepository
	locker         KeyLocker
	workflow       *redistribution.TransferWorkflow
	eventPublisher shared.EventPublisher
	clock          shared.Clock
	logger         *zap.Logger
	metrics        TransferRecorder
}

// TransferRecorder counts transfers as they enter a status
type TransferRecorder interface {
	RecordTransfer(ctx context.Context, status string, quantity int64)
}

// TransferServiceOption configures a TransferService
type TransferServiceOption func(*TransferService)

// WithTransferClock sets the clock used to stamp transfer dates
func WithTransferClock(clock shared.Clock) TransferServiceOption {
	return func(s *TransferService) {
		s.clock = clock
	}
}

// WithTransferLogger sets the logger
func WithTransferLogger(logger *zap.Logger) TransferServiceOption {
	return func(s *TransferService) {
		s.logger = logger
	}
}

// WithTransferMetrics sets the recorder for status transitions
func WithTransferMetrics(metrics TransferRecorder) TransferServiceOption {
	return func(s *TransferService) {
		s.metrics = metrics
	}
}

// NewTransferService creates a new TransferService
func NewTransferService(
	txScope TransactionScope,
	transferRepo redistribution.TransferRepository,
	locker KeyLocker,
	workflow *redistribution.TransferWorkflow,
	opts ...TransferServiceOption,
) *TransferService {
	s := &TransferService{
		txScope:      txScope,
		transferRepo: transferRepo,
		locker:       locker,
		workflow:     workflow,
		clock:        shared.SystemClock,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Propose creates a pending transfer from a surplus posting to a request
func (s *TransferService) Propose(ctx context.Context, req ProposeTransferRequest) (_ *TransferResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "propose",
		telemetry.SpanAttrSurplusID, req.SurplusPostingID,
		telemetry.SpanAttrRequestID, req.RequestID,
	)
	defer telemetry.EndSpan(span, &err)

	release, err := s.locker.Acquire(ctx, surplusKey(req.SurplusPostingID), requestKey(req.RequestID))
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		result *TransferResult
		events []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		surplus, err := repos.SurplusRepo().FindByID(ctx, req.SurplusPostingID)
		if err != nil {
			return lookupError(err, "Surplus posting", req.SurplusPostingID)
		}
		request, err := repos.RequestRepo().FindByID(ctx, req.RequestID)
		if err != nil {
			return lookupError(err, "Request", req.RequestID)
		}
		item, err := repos.InventoryRepo().FindByID(ctx, surplus.InventoryItemID)
		if err != nil {
			return lookupError(err, "Inventory item", surplus.InventoryItemID)
		}

		transfer, err := s.workflow.Propose(surplus, request, item, req.Notes, s.clock())
		if err != nil {
			return err
		}

		if err := repos.SurplusRepo().SaveWithLock(ctx, surplus); err != nil {
			return err
		}
		if err := repos.RequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}
		if err := repos.TransferRepo().Save(ctx, transfer); err != nil {
			return err
		}

		events = collectEvents(transfer, surplus, request)
		result = &TransferResult{
			Transfer: ToTransferResponse(transfer),
			Surplus:  surplusResult(surplus),
			Request:  requestResult(request),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, result)
	s.publish(ctx, events)
	return result, nil
}

// Approve accepts a pending transfer
func (s *TransferService) Approve(ctx context.Context, transferID uuid.UUID) (*TransferResult, error) {
	return s.step(ctx, "approve", transferID, func(repos TransactionalRepositories, t *redistribution.Transfer) (*TransferResult, []shared.DomainEvent, error) {
		if err := s.workflow.Approve(t, s.clock()); err != nil {
			return nil, nil, err
		}
		if err := repos.TransferRepo().SaveWithLock(ctx, t); err != nil {
			return nil, nil, err
		}
		return &TransferResult{Transfer: ToTransferResponse(t)}, collectEvents(t), nil
	})
}

// MarkInTransit records that an approved transfer has left the sender
func (s *TransferService) MarkInTransit(ctx context.Context, transferID uuid.UUID) (*TransferResult, error) {
	return s.step(ctx, "mark_in_transit", transferID, func(repos TransactionalRepositories, t *redistribution.Transfer) (*TransferResult, []shared.DomainEvent, error) {
		if err := s.workflow.MarkInTransit(t, s.clock()); err != nil {
			return nil, nil, err
		}
		if err := repos.TransferRepo().SaveWithLock(ctx, t); err != nil {
			return nil, nil, err
		}
		return &TransferResult{Transfer: ToTransferResponse(t)}, collectEvents(t), nil
	})
}

// Reject aborts a pending or approved transfer, returning the surplus
// posting to Available and the request to Open. A posting or request that
// no longer resolves is left alone.
func (s *TransferService) Reject(ctx context.Context, transferID uuid.UUID) (*TransferResult, error) {
	return s.step(ctx, "reject", transferID, func(repos TransactionalRepositories, t *redistribution.Transfer) (*TransferResult, []shared.DomainEvent, error) {
		surplus, err := optional(repos.SurplusRepo().FindByID(ctx, t.SurplusPostingID))
		if err != nil {
			return nil, nil, err
		}
		request, err := optional(repos.RequestRepo().FindByID(ctx, t.RequestID))
		if err != nil {
			return nil, nil, err
		}

		var surplusVersion, requestVersion int
		if surplus != nil {
			surplusVersion = surplus.Version
		}
		if request != nil {
			requestVersion = request.Version
		}
		if err := s.workflow.Reject(t, surplus, request, s.clock()); err != nil {
			return nil, nil, err
		}

		result := &TransferResult{}
		if surplus != nil && surplus.Version != surplusVersion {
			if err := repos.SurplusRepo().SaveWithLock(ctx, surplus); err != nil {
				return nil, nil, err
			}
			result.Surplus = surplusResult(surplus)
		}
		if request != nil && request.Version != requestVersion {
			if err := repos.RequestRepo().SaveWithLock(ctx, request); err != nil {
				return nil, nil, err
			}
			result.Request = requestResult(request)
		}
		if err := repos.TransferRepo().SaveWithLock(ctx, t); err != nil {
			return nil, nil, err
		}
		result.Transfer = ToTransferResponse(t)

		events := collectEvents(t)
		if result.Surplus != nil {
			events = append(events, collectEvents(surplus)...)
		}
		if result.Request != nil {
			events = append(events, collectEvents(request)...)
		}
		return result, events, nil
	})
}

// Complete finishes a transfer: the surplus posting becomes Transferred,
// the request Fulfilled and the sender's inventory item loses the
// transferred quantity.
func (s *TransferService) Complete(ctx context.Context, transferID uuid.UUID) (*TransferResult, error) {
	return s.step(ctx, "complete", transferID, func(repos TransactionalRepositories, t *redistribution.Transfer) (*TransferResult, []shared.DomainEvent, error) {
		surplus, err := repos.SurplusRepo().FindByID(ctx, t.SurplusPostingID)
		if err != nil {
			return nil, nil, lookupError(err, "Surplus posting", t.SurplusPostingID)
		}
		request, err := repos.RequestRepo().FindByID(ctx, t.RequestID)
		if err != nil {
			return nil, nil, lookupError(err, "Request", t.RequestID)
		}
		item, err := repos.InventoryRepo().FindByID(ctx, t.InventoryItemID)
		if err != nil {
			return nil, nil, lookupError(err, "Inventory item", t.InventoryItemID)
		}

		if err := s.workflow.Complete(t, surplus, request, item, s.clock()); err != nil {
			return nil, nil, err
		}

		if err := repos.InventoryRepo().SaveWithLock(ctx, item); err != nil {
			return nil, nil, err
		}
		if err := repos.SurplusRepo().SaveWithLock(ctx, surplus); err != nil {
			return nil, nil, err
		}
		if err := repos.RequestRepo().SaveWithLock(ctx, request); err != nil {
			return nil, nil, err
		}
		if err := repos.TransferRepo().SaveWithLock(ctx, t); err != nil {
			return nil, nil, err
		}

		return &TransferResult{
			Transfer:  ToTransferResponse(t),
			Surplus:   surplusResult(surplus),
			Request:   requestResult(request),
			Inventory: toInventorySnapshot(item),
		}, collectEvents(t, surplus, request, item), nil
	})
}

// GetByID retrieves a transfer by ID
func (s *TransferService) GetByID(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	t, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, lookupError(err, "Transfer", transferID)
	}
	response := ToTransferResponse(t)
	return &response, nil
}

// List retrieves transfers, optionally narrowed to one clinic and direction
func (s *TransferService) List(ctx context.Context, filter TransferListFilter) ([]TransferResponse, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize)
	domainFilter.OrderBy = "requested_date"

	if filter.ClinicID != nil {
		switch filter.Direction {
		case DirectionIncoming:
			domainFilter.Filters["to_clinic_id"] = *filter.ClinicID
		case DirectionOutgoing:
			domainFilter.Filters["from_clinic_id"] = *filter.ClinicID
		case DirectionAll, "":
			domainFilter.Filters["clinic_id"] = *filter.ClinicID
		default:
			return nil, shared.NewInvalidInputError("Invalid transfer direction: " + string(filter.Direction))
		}
	}
	if filter.Status != "" {
		status := redistribution.TransferStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewInvalidInputError("Invalid transfer status: " + filter.Status)
		}
		domainFilter.Filters["status"] = status
	}

	transfers, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i])
	}
	return responses, nil
}

type stepFunc func(repos TransactionalRepositories, t *redistribution.Transfer) (*TransferResult, []shared.DomainEvent, error)

// step resolves the transfer to find its lock keys, then reloads it under
// the locks and inside a transaction before applying fn.
func (s *TransferService) step(ctx context.Context, op string, transferID uuid.UUID, fn stepFunc) (result *TransferResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", op, telemetry.SpanAttrTransferID, transferID)
	defer telemetry.EndSpan(span, &err)

	t, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, lookupError(err, "Transfer", transferID)
	}

	release, err := s.locker.Acquire(ctx,
		transferKey(t.ID), surplusKey(t.SurplusPostingID), requestKey(t.RequestID))
	if err != nil {
		return nil, err
	}
	defer release()

	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.TransferRepo().FindByID(ctx, transferID)
		if err != nil {
			return lookupError(err, "Transfer", transferID)
		}
		result, events, err = fn(repos, current)
		return err
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrTransferStatus, result.Transfer.Status)
	s.record(ctx, result)
	s.publish(ctx, events)
	return result, nil
}

func (s *TransferService) record(ctx context.Context, result *TransferResult) {
	if s.metrics != nil {
		s.metrics.RecordTransfer(ctx, result.Transfer.Status, result.Transfer.Quantity)
	}
}

func (s *TransferService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish transfer events",
			zap.Int("event_count", len(events)),
			zap.Error(err))
	}
}

func collectEvents(aggregates ...shared.AggregateRoot) []shared.DomainEvent {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	return events
}

// lookupError maps a repository miss to a NOT_FOUND error naming the entity
func lookupError(err error, entity string, id uuid.UUID) error {
	if shared.IsNotFound(err) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}

// optional turns a repository miss into a nil record
func optional[T any](record *T, err error) (*T, error) {
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func surplusResult(sp *redistribution.SurplusPosting) *SurplusResponse {
	r := ToSurplusResponse(sp)
	return &r
}

func requestResult(req *redistribution.MedicineRequest) *RequestResponse {
	r := ToRequestResponse(req)
	return &r
}

func listFilter(page, pageSize int) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}
