package models

import "time"

type NotificationTime string

const (
	TimeMorning  NotificationTime = "morning"
	TimeNoon     NotificationTime = "noon"
	TimeEvening  NotificationTime = "evening"
	TimeMidnight NotificationTime = "midnight"
)

// NotificationSetting controls meal reminder delivery. Delivery mechanics are
// an OS/provider concern; this record ends at the payload and the times of day.
type NotificationSetting struct {
	Enabled         bool               `json:"enabled"`
	LastScheduledAt *time.Time         `json:"lastScheduledAt,omitempty"`
	Timezone        string             `json:"timezone"`
	PushToken       string             `json:"pushToken,omitempty"`
	Times           []NotificationTime `json:"times"`
}

func (n NotificationSetting) Clone() NotificationSetting {
	if n.Times != nil {
		t := make([]NotificationTime, len(n.Times))
		copy(t, n.Times)
		n.Times = t
	}
	if n.LastScheduledAt != nil {
		at := *n.LastScheduledAt
		n.LastScheduledAt = &at
	}
	return n
}
