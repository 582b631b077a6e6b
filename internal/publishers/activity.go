package publishers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kasirhub/ppob-ledger/internal/service"
	"github.com/kasirhub/ppob-ledger/pkg/mq"
	"go.uber.org/zap"
)

const ActivityQueue = "ledger.activity"

type activityEvent struct {
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Module    string    `json:"module"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityPublisher forwards audit events to the activity-log consumer over
// the queue. Publishing is best-effort: a failed publish is logged and
// dropped, never propagated, so the ledger write it describes stays
// committed.
type ActivityPublisher struct {
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewActivityPublisher(publisher mq.Publisher, logger *zap.Logger) service.ActivityRecorder {
	return &ActivityPublisher{publisher: publisher, logger: logger}
}

func (p *ActivityPublisher) Record(ctx context.Context, cmd service.ActivityCommand) {
	event := activityEvent{
		ActorID:   cmd.ActorID,
		Action:    cmd.Action,
		Module:    cmd.Module,
		Details:   cmd.Details,
		CreatedAt: time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to encode activity event", zap.Error(err))
		return
	}

	if err := p.publisher.Publish(ctx, "", ActivityQueue, body); err != nil {
		p.logger.Warn("Failed to publish activity event, dropping",
			zap.Error(err),
			zap.String("action", cmd.Action),
			zap.String("module", cmd.Module),
		)
	}
}
