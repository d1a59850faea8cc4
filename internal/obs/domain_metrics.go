package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts pricing quote computations by outcome.
	QuoteTotal *prometheus.CounterVec
	// QuoteItemTotal counts quoted line items by pricing path.
	QuoteItemTotal *prometheus.CounterVec
	// DonationRecordedTotal counts donation submissions by outcome.
	DonationRecordedTotal *prometheus.CounterVec
	// DonationAmountCents accumulates normalized donation volume.
	DonationAmountCents prometheus.Counter
	// MilestoneAchievedTotal counts milestone tiers unlocked by donors.
	MilestoneAchievedTotal *prometheus.CounterVec
	// SettingsUpdateTotal counts vendor pricing settings writes.
	SettingsUpdateTotal *prometheus.CounterVec
	// EmailDeliveryTotal counts transactional email delivery outcomes.
	EmailDeliveryTotal *prometheus.CounterVec
	// WebhookDeliveryTotal counts webhook delivery outcomes.
	WebhookDeliveryTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_quote_total",
			Help:      "Count of order quote computations by outcome.",
		}, []string{"result"})
		QuoteItemTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_quote_items_total",
			Help:      "Count of quoted line items by pricing path.",
		}, []string{"path"})
		DonationRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donation_recorded_total",
			Help:      "Count of donation submissions by outcome.",
		}, []string{"result"})
		DonationAmountCents = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donation_amount_cents_total",
			Help:      "Total normalized donation volume in cents.",
		})
		MilestoneAchievedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donation_milestone_achieved_total",
			Help:      "Count of milestone tiers unlocked by donors.",
		}, []string{"tier"})
		SettingsUpdateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_settings_update_total",
			Help:      "Count of vendor pricing settings writes by vendor.",
		}, []string{"vendor"})
		EmailDeliveryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_delivery_total",
			Help:      "Count of transactional email delivery outcomes.",
		}, []string{"kind", "result"})
		WebhookDeliveryTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_delivery_total",
			Help:      "Count of webhook delivery outcomes.",
		}, []string{"result"})

		mustRegisterCollector(reg, QuoteTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteItemTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteItemTotal = v
			}
		})
		mustRegisterCollector(reg, DonationRecordedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DonationRecordedTotal = v
			}
		})
		mustRegisterCollector(reg, DonationAmountCents, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				DonationAmountCents = v
			}
		})
		mustRegisterCollector(reg, MilestoneAchievedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				MilestoneAchievedTotal = v
			}
		})
		mustRegisterCollector(reg, SettingsUpdateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SettingsUpdateTotal = v
			}
		})
		mustRegisterCollector(reg, EmailDeliveryTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				EmailDeliveryTotal = v
			}
		})
		mustRegisterCollector(reg, WebhookDeliveryTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				WebhookDeliveryTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
