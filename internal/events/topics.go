package events

// Topic constants for domain events emitted by the platform.
const (
	TopicDonationRecorded  = "donation.recorded"
	TopicMilestoneAchieved = "donation.milestone_achieved"
	TopicSettingsUpdated   = "pricing.settings_updated"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicDonationRecorded,
		TopicMilestoneAchieved,
		TopicSettingsUpdated,
	}
}

// KnownTopic reports whether the topic is one the platform emits.
func KnownTopic(topic string) bool {
	for _, known := range DefaultTopics() {
		if topic == known {
			return true
		}
	}
	return false
}
