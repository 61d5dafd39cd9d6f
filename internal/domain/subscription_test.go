package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionRecordActive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		active    bool
	}{
		{"expires in the future", now.Add(time.Hour), true},
		{"expires one second from now", now.Add(time.Second), true},
		{"expires exactly now", now, false},
		{"expired one second ago", now.Add(-time.Second), false},
		{"expired long ago", now.Add(-30 * 24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SubscriptionRecord{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.active, r.Active(now))
		})
	}
}

func TestWarningKindLeadAndWindow(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Warning1Day.Lead())
	assert.Equal(t, 10*time.Minute, Warning1Day.Window())
	assert.Equal(t, 30*time.Minute, Warning30Min.Lead())
	assert.Equal(t, 5*time.Minute, Warning30Min.Window())
}

func TestSubscriptionMonthIsThirtyDays(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, SubscriptionMonth)
	assert.Equal(t, 90*24*time.Hour, 3*SubscriptionMonth)
}
