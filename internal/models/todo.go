package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// TimestampLayout keeps a fixed width so that lexical order equals time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Todo struct {
	ID        string `json:"id" dynamodbav:"id"`
	UserID    string `json:"userId" dynamodbav:"userId"`
	Title     string `json:"title" dynamodbav:"title"`
	Status    string `json:"status" dynamodbav:"status"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt string `json:"updatedAt" dynamodbav:"updatedAt"`
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
