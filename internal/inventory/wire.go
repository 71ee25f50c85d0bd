//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/tair/field-inventory/internal/inventory/delivery/http"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/metrics"
	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/internal/inventory/usecase/query"
	"github.com/tair/field-inventory/kafka"
	"github.com/tair/field-inventory/pkg/config"
)

// Wire sets
var InfrastructureSet = wire.NewSet(
	ProvideScopeCache,
	ProvideResolver,
	ProvideAuditPublisher,
	ProvideEmitter,
	ProvideLedger,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateItemHandler,
	command.NewUpdateItemHandler,
	command.NewDeleteItemHandler,
	command.NewCreateCategoryHandler,
	command.NewCreateLocationHandler,
	command.NewUpdateLocationHandler,
	command.NewAddLocationPermissionHandler,
	command.NewRemoveLocationPermissionHandler,
	command.NewPlaceStockHandler,
	command.NewTransferStockHandler,
	command.NewWriteOffStockHandler,
	command.NewCreatePickingOrderHandler,
	command.NewStartPickingHandler,
	command.NewFulfillPickingOrderHandler,
	command.NewCancelPickingOrderHandler,
	command.NewReceiveGoodsHandler,
	wire.Struct(new(http.Commands), "*"),
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetItemHandler,
	query.NewListItemsHandler,
	query.NewListLowStockHandler,
	query.NewGetItemStockHandler,
	query.NewListAuditLogHandler,
	query.NewListCategoriesHandler,
	query.NewListLocationsHandler,
	query.NewGetLocationPermissionsHandler,
	query.NewListPickingOrdersHandler,
	query.NewGetPickingOrderHandler,
	wire.Struct(new(http.Queries), "*"),
)

var AllHandlersSet = wire.NewSet(
	InfrastructureSet,
	CommandHandlerSet,
	QueryHandlerSet,
	http.NewInventoryHandler,
	wire.Struct(new(Service), "*"),
)

// InitializeService initializes the HTTP handler and the goods receipt handler
// with all dependencies
func InitializeService(uow domain.UnitOfWork, redisClient *redis.Client, publisher *kafka.Publisher, m *metrics.Metrics, cfg *config.Config) (*Service, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}
