package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glaadoo/print-power-purpose/internal/common"
	"github.com/glaadoo/print-power-purpose/internal/donation"
	"github.com/glaadoo/print-power-purpose/internal/obs"
)

// Email kinds tracked on delivery metrics.
const (
	EmailKindReceipt   = "receipt"
	EmailKindMilestone = "milestone"
)

// Mailer formats and sends donor-facing transactional email.
type Mailer struct {
	Sender  common.EmailSender
	Enabled bool
}

// SendReceipt emails a donation receipt to the donor.
func (m Mailer) SendReceipt(p donation.ReceiptPayload) error {
	if !m.Enabled || m.Sender == nil {
		return nil
	}
	if strings.TrimSpace(p.DonorEmail) == "" {
		return nil
	}
	subject := "Thank you for your donation"
	body := fmt.Sprintf(
		"<p>%s,</p><p>We received your donation of %s. Every order with us puts purpose into print.</p><p>Reference: %s</p>",
		greeting(p.DonorName),
		formatAmount(p.AmountCents, p.Currency),
		p.DonationID,
	)
	return m.send(EmailKindReceipt, p.DonorEmail, subject, body)
}

// SendMilestone congratulates a donor on reaching a new giving tier.
func (m Mailer) SendMilestone(p donation.MilestonePayload) error {
	if !m.Enabled || m.Sender == nil {
		return nil
	}
	if strings.TrimSpace(p.DonorEmail) == "" {
		return nil
	}
	subject := fmt.Sprintf("You reached the %s milestone!", p.TierName)
	body := fmt.Sprintf(
		"<p>%s,</p><p>Your lifetime giving just reached %s, unlocking the %s tier. Thank you for your generosity.</p>",
		greeting(p.DonorName),
		formatAmount(p.TotalCents, "usd"),
		p.TierName,
	)
	return m.send(EmailKindMilestone, p.DonorEmail, subject, body)
}

func (m Mailer) send(kind, to, subject, body string) error {
	err := m.Sender.Send(to, subject, body)
	if obs.EmailDeliveryTotal != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		obs.EmailDeliveryTotal.WithLabelValues(kind, result).Inc()
	}
	if err != nil {
		return errors.Join(fmt.Errorf("send %s email", kind), err)
	}
	return nil
}

func greeting(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Hello"
	}
	return "Hi " + name
}

func formatAmount(cents int64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}
	return fmt.Sprintf("$%d.%02d %s", cents/100, cents%100, code)
}
