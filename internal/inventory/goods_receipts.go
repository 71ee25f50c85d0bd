package inventory

import (
	"context"
	"errors"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/kafka"
	"github.com/tair/field-inventory/pkg/logger"
)

// GoodsReceiptHandler places announced deliveries. Receipts that reference an
// unknown item or location, or are otherwise invalid, are logged and skipped so
// they do not block the partition.
func GoodsReceiptHandler(h *command.ReceiveGoodsHandler) kafka.EventHandler {
	return kafka.GoodsReceivedHandler(func(ctx context.Context, event kafka.GoodsReceivedEvent) error {
		stock, err := h.Handle(ctx, command.ReceiveGoodsCommand{
			SKU:        event.SKU,
			LocationID: event.LocationID,
			Quantity:   event.Quantity,
			Reference:  event.Reference,
		})
		if err != nil {
			if isPermanent(err) {
				logger.Warn(ctx).
					Err(err).
					Str("event_id", event.EventID).
					Str("sku", event.SKU).
					Uint("location_id", event.LocationID).
					Msg("Skipping goods receipt")
				return nil
			}
			return err
		}

		logger.Info(ctx).
			Str("event_id", event.EventID).
			Str("sku", event.SKU).
			Uint("location_id", stock.LocationID).
			Int("quantity", stock.Quantity).
			Msg("Goods receipt placed")
		return nil
	})
}

// RegisterGoodsReceipts subscribes the goods receipt handler on consumer
func RegisterGoodsReceipts(consumer *kafka.Consumer, h *command.ReceiveGoodsHandler) {
	consumer.RegisterHandler(kafka.EventTypeGoodsReceived, GoodsReceiptHandler(h))
}

func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidOperation)
}
