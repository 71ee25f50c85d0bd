// Package audit appends immutable audit entries inside the mutating
// transaction and forwards them to downstream consumers after commit.
package audit

import (
	"context"
	"fmt"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/pkg/logger"
)

// Publisher forwards committed entries, e.g. to Kafka
type Publisher interface {
	PublishAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error
}

// Emitter records audit entries
type Emitter struct {
	publisher Publisher
}

// NewEmitter creates a new emitter; publisher may be nil
func NewEmitter(publisher Publisher) *Emitter {
	return &Emitter{publisher: publisher}
}

// Journal collects the entries appended in one transaction
type Journal struct {
	actor   domain.Actor
	tx      domain.Tx
	entries []domain.AuditLogEntry
}

// Begin starts a journal bound to tx
func (e *Emitter) Begin(tx domain.Tx, actor domain.Actor) *Journal {
	return &Journal{actor: actor, tx: tx}
}

// Record appends entry in the journal's transaction. The actor is filled in
// from the journal.
func (j *Journal) Record(ctx context.Context, entry domain.AuditLogEntry) error {
	entry.ActorID = j.actor.AuditID()
	if err := j.tx.Audit().Append(ctx, &entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	j.entries = append(j.entries, entry)
	return nil
}

// Entries returns the recorded entries in order
func (j *Journal) Entries() []domain.AuditLogEntry {
	return j.entries
}

// Publish forwards committed entries. Failures are logged only: the mutation
// has already been committed.
func (e *Emitter) Publish(ctx context.Context, j *Journal) {
	if e.publisher == nil || j == nil {
		return
	}
	for _, entry := range j.entries {
		if err := e.publisher.PublishAuditEntry(ctx, entry); err != nil {
			logger.Error(ctx).
				Err(err).
				Uint("entry_id", entry.ID).
				Str("action", string(entry.Action)).
				Msg("Failed to publish audit entry")
		}
	}
}

// Visible checks if entry touches a location accepted by contains. Entries without a
// location are visible to everyone who can see the item.
func Visible(entry *domain.AuditLogEntry, contains func(locationID uint) bool) bool {
	ids := entry.LocationIDs()
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if contains(id) {
			return true
		}
	}
	return false
}
