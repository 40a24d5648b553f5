package models

import (
	"testing"
	"time"
)

func TestSubscriptionActive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		end    time.Time
		want   bool
	}{
		{"active subscription", SubscriptionStatusSubscribed, now.Add(24 * time.Hour), true},
		{"expired subscription", SubscriptionStatusSubscribed, now.Add(-time.Minute), false},
		{"ends exactly now", SubscriptionStatusSubscribed, now, false},
		{"unsubscribed with future end date", SubscriptionStatusUnsubscribed, now.Add(24 * time.Hour), false},
		{"zero value user", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{SubscriptionStatus: tt.status, SubscriptionEndDate: tt.end}
			if got := u.SubscriptionActive(now); got != tt.want {
				t.Errorf("SubscriptionActive() = %v, want %v", got, tt.want)
			}
		})
	}
}
