package models

import "time"

// Audit actions recorded by the services.
const (
	AuditSubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	AuditStoryGenerated        = "STORY_GENERATED"
	AuditStorySaved            = "STORY_SAVED"
	AuditStoryDeleted          = "STORY_DELETED"
)

// AuditLog represents an audit trail entry.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	UserID     string                 `json:"userId" firestore:"userId"`
	Action     string                 `json:"action" firestore:"action"`
	TargetType string                 `json:"targetType" firestore:"targetType"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
