package donation

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Background task kinds handled by the worker.
const (
	TaskReceipt   = "donation:receipt"
	TaskMilestone = "donation:milestone"
)

// ReceiptPayload carries the data needed to send a donation receipt email.
type ReceiptPayload struct {
	DonationID  string `json:"donationId"`
	DonorID     string `json:"donorId"`
	DonorName   string `json:"donorName,omitempty"`
	DonorEmail  string `json:"donorEmail"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

// MilestonePayload carries the data needed to congratulate a donor on a newly
// unlocked milestone tier.
type MilestonePayload struct {
	DonorID    string `json:"donorId"`
	DonorName  string `json:"donorName,omitempty"`
	DonorEmail string `json:"donorEmail"`
	TierID     string `json:"tierId"`
	TierName   string `json:"tierName"`
	TotalCents int64  `json:"totalCents"`
}

// NewReceiptTask builds the asynq task for a donation receipt.
func NewReceiptTask(p ReceiptPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceipt, data, asynq.MaxRetry(5)), nil
}

// NewMilestoneTask builds the asynq task for a milestone congratulation.
func NewMilestoneTask(p MilestonePayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMilestone, data, asynq.MaxRetry(5)), nil
}
