package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/glaadoo/print-power-purpose/internal/donation"
)

// Worker holds the asynq handlers for the notification task kinds.
type Worker struct {
	Mailer     Mailer
	Dispatcher *Dispatcher
}

// Register attaches the handlers to an asynq mux.
func (w Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(donation.TaskReceipt, w.HandleReceipt)
	mux.HandleFunc(donation.TaskMilestone, w.HandleMilestone)
	mux.HandleFunc(TaskWebhookDeliver, w.HandleWebhookDeliver)
}

// HandleReceipt sends the donation receipt email for a queued task.
func (w Worker) HandleReceipt(_ context.Context, task *asynq.Task) error {
	var p donation.ReceiptPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("decode receipt payload: %w", err)
	}
	return w.Mailer.SendReceipt(p)
}

// HandleMilestone sends the milestone congratulation email for a queued task.
func (w Worker) HandleMilestone(_ context.Context, task *asynq.Task) error {
	var p donation.MilestonePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("decode milestone payload: %w", err)
	}
	return w.Mailer.SendMilestone(p)
}

// HandleWebhookDeliver executes a scheduled webhook delivery.
func (w Worker) HandleWebhookDeliver(ctx context.Context, task *asynq.Task) error {
	if w.Dispatcher == nil {
		return fmt.Errorf("webhook dispatcher not configured")
	}
	var p DeliverPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}
	return w.Dispatcher.Deliver(ctx, p)
}
