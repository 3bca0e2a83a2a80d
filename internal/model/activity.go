package model

import "time"

// ActivityType categorizes entries of the activity log.
type ActivityType string

const (
	ActivityExamCreated   ActivityType = "exam-created"
	ActivityFileUploaded  ActivityType = "file-uploaded"
	ActivityExamCompleted ActivityType = "exam-completed"
)

// Activity is one entry of the user's activity feed.
type Activity struct {
	ID          string
	Type        ActivityType
	Description string
	Timestamp   time.Time
}
