package event

import (
	"context"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogger records redistribution activity as structured log lines.
// It subscribes to the transfer lifecycle and to inventory changes.
type ActivityLogger struct {
	logger *zap.Logger
}

// NewActivityLogger creates a new ActivityLogger
func NewActivityLogger(logger *zap.Logger) *ActivityLogger {
	return &ActivityLogger{logger: logger.Named("activity")}
}

// EventTypes returns the event types this handler is interested in
func (h *ActivityLogger) EventTypes() []string {
	types := append([]string{}, redistribution.TransferEventTypes...)
	return append(types,
		redistribution.EventTypeSurplusPosted,
		redistribution.EventTypeMedicineRequested,
		inventory.EventTypeInventoryItemAdded,
		inventory.EventTypeInventoryDecreased,
		inventory.EventTypeInventoryStatusChanged,
	)
}

// Handle logs one event. It never fails.
func (h *ActivityLogger) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *redistribution.TransferProposedEvent:
		h.logger.Info("Transfer proposed", append(fields,
			zap.String("transfer_id", e.TransferID.String()),
			zap.String("surplus_posting_id", e.SurplusPostingID.String()),
			zap.String("request_id", e.RequestID.String()),
			zap.String("from_clinic_id", e.FromClinicID.String()),
			zap.String("to_clinic_id", e.ToClinicID.String()),
			zap.Int64("quantity", e.Quantity),
		)...)
	case *redistribution.TransferStatusEvent:
		h.logger.Info("Transfer status changed", append(fields,
			zap.String("transfer_id", e.TransferID.String()),
			zap.String("status", string(e.Status)),
			zap.String("from_clinic_id", e.FromClinicID.String()),
			zap.String("to_clinic_id", e.ToClinicID.String()),
		)...)
	case *redistribution.TransferCompletedEvent:
		h.logger.Info("Transfer completed", append(fields,
			zap.String("transfer_id", e.TransferID.String()),
			zap.String("from_clinic_id", e.FromClinicID.String()),
			zap.String("to_clinic_id", e.ToClinicID.String()),
			zap.Int64("quantity", e.Quantity),
		)...)
	case *redistribution.SurplusPostedEvent:
		h.logger.Info("Surplus posted", append(fields,
			zap.String("surplus_posting_id", e.SurplusPostingID.String()),
			zap.String("clinic_id", e.ClinicID.String()),
			zap.Int64("quantity", e.Quantity),
			zap.String("reason", string(e.Reason)),
		)...)
	case *redistribution.MedicineRequestedEvent:
		h.logger.Info("Medicine requested", append(fields,
			zap.String("request_id", e.RequestID.String()),
			zap.String("clinic_id", e.ClinicID.String()),
			zap.Int64("quantity", e.Quantity),
			zap.String("urgency", string(e.Urgency)),
		)...)
	case *inventory.InventoryItemAddedEvent:
		h.logger.Info("Inventory added", append(fields,
			zap.String("inventory_item_id", e.InventoryItemID.String()),
			zap.String("clinic_id", e.ClinicID.String()),
			zap.Int64("quantity", e.Quantity),
			zap.String("status", string(e.Status)),
		)...)
	case *inventory.InventoryDecreasedEvent:
		h.logger.Info("Inventory decreased", append(fields,
			zap.String("inventory_item_id", e.InventoryItemID.String()),
			zap.String("transfer_id", e.TransferID.String()),
			zap.Int64("quantity", e.Quantity),
			zap.Int64("remaining", e.Remaining),
		)...)
	case *inventory.InventoryStatusChangedEvent:
		level := h.logger.Info
		if e.To == inventory.StockStatusExpired {
			level = h.logger.Warn
		}
		level("Inventory status changed", append(fields,
			zap.String("inventory_item_id", e.InventoryItemID.String()),
			zap.String("clinic_id", e.ClinicID.String()),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)),
		)...)
	default:
		h.logger.Debug("Activity event", append(fields,
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)...)
	}
	return nil
}

var _ shared.EventHandler = (*ActivityLogger)(nil)
