package inventory

import (
	"github.com/redis/go-redis/v9"

	"github.com/tair/field-inventory/internal/inventory/access"
	"github.com/tair/field-inventory/internal/inventory/audit"
	"github.com/tair/field-inventory/internal/inventory/delivery/http"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/ledger"
	"github.com/tair/field-inventory/internal/inventory/metrics"
	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/kafka"
	"github.com/tair/field-inventory/pkg/config"
)

// Service bundles what cmd/inventory serves
type Service struct {
	Handler      *http.InventoryHandler
	ReceiveGoods *command.ReceiveGoodsHandler
}

// ProvideScopeCache provides the Redis scope cache, or none without a client
func ProvideScopeCache(client *redis.Client, cfg *config.Config) access.ScopeCache {
	if client == nil {
		return nil
	}
	return access.NewRedisScopeCache(client, cfg.ScopeCacheTTL)
}

// ProvideResolver provides the access scope resolver
func ProvideResolver(cache access.ScopeCache) *access.Resolver {
	return access.NewResolver(cache)
}

// ProvideAuditPublisher provides the Kafka audit publisher, or none without brokers
func ProvideAuditPublisher(publisher *kafka.Publisher) audit.Publisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

// ProvideEmitter provides the audit emitter
func ProvideEmitter(publisher audit.Publisher) *audit.Emitter {
	return audit.NewEmitter(publisher)
}

// ProvideLedger provides the stock ledger
func ProvideLedger(uow domain.UnitOfWork, resolver *access.Resolver, emitter *audit.Emitter, m *metrics.Metrics) *ledger.Ledger {
	return ledger.New(uow, resolver, emitter, m)
}
