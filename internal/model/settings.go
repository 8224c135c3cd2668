package model

// AppSettings holds the persisted per-user settings. TargetPercentage and
// ChaosFactor feed the projection engine; the notification fields are used
// only by the reminder service.
type AppSettings struct {
	TargetPercentage float64
	ChaosFactor      float64

	NotificationsEnabled bool
	ReminderLeadMinutes  int
}
