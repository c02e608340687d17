package encounter

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types published on the event bus after a change is committed
const (
	EventEncounterStarted     = "encounter.started"
	EventEncounterTurnAdvance = "encounter.turn_advanced"
	EventEncounterFinished    = "encounter.finished"
	EventParticipantHPChanged = "participant.hp_changed"
)

// recordEntity adapts a stored record to core.Entity
type recordEntity struct {
	id         int64
	entityType string
}

func (e *recordEntity) GetID() string {
	return strconv.FormatInt(e.id, 10)
}

func (e *recordEntity) GetType() string {
	return e.entityType
}

func encounterEntity(id int64) *recordEntity {
	return &recordEntity{id: id, entityType: "encounter"}
}

func participantEntity(id int64) *recordEntity {
	return &recordEntity{id: id, entityType: "participant"}
}

// publish never fails the caller; the change is already stored
func (o *orchestrator) publish(ctx context.Context, eventType string, source, target core.Entity) {
	if o.eventBus == nil {
		return
	}
	if err := o.eventBus.Publish(ctx, events.NewGameEvent(eventType, source, target)); err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			"event_type", eventType,
			"source_id", source.GetID(),
			"error", err,
		)
	}
}
