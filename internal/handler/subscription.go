package handler

import (
	"net/http"
	"time"

	"github.com/osse101/TenureBot_Go/internal/domain"
	"github.com/osse101/TenureBot_Go/internal/logger"
	"github.com/osse101/TenureBot_Go/internal/subscription"
)

// SubscriptionView is the dashboard representation of one subscription
type SubscriptionView struct {
	SubscriberID string    `json:"subscriber_id"`
	RoleID       string    `json:"role_id"`
	Months       int       `json:"months"`
	StartAt      time.Time `json:"start_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Active       bool      `json:"active"`
}

// ListSubscriptionsResponse wraps the dashboard listing
type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionView `json:"subscriptions"`
}

// HandleGetStats returns subscription counts
// @Summary Subscription stats
// @Description Returns total, active and expired subscription counts
// @Tags subscriptions
// @Produce json
// @Success 200 {object} domain.SubscriptionStats
// @Failure 500 {string} string
// @Security ApiKeyAuth
// @Router /api/v1/subscriptions/stats [get]
func HandleGetStats(svc subscription.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		stats, err := svc.Stats(r.Context())
		if err != nil {
			log.Error("Failed to get subscription stats", "error", err)
			http.Error(w, "Failed to get stats", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// HandleListSubscriptions returns all subscriptions ordered by expiry
// @Summary List subscriptions
// @Description Returns every subscription record, soonest expiry first
// @Tags subscriptions
// @Produce json
// @Success 200 {object} ListSubscriptionsResponse
// @Failure 500 {string} string
// @Security ApiKeyAuth
// @Router /api/v1/subscriptions [get]
func HandleListSubscriptions(svc subscription.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		records, err := svc.List(r.Context())
		if err != nil {
			log.Error("Failed to list subscriptions", "error", err)
			http.Error(w, "Failed to list subscriptions", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		views := make([]SubscriptionView, 0, len(records))
		for _, rec := range records {
			views = append(views, toView(rec, now))
		}

		writeJSON(w, http.StatusOK, ListSubscriptionsResponse{Subscriptions: views})
	}
}

func toView(rec domain.SubscriptionRecord, now time.Time) SubscriptionView {
	return SubscriptionView{
		SubscriberID: rec.SubscriberID,
		RoleID:       rec.RoleID,
		Months:       rec.Months,
		StartAt:      rec.StartAt,
		ExpiresAt:    rec.ExpiresAt,
		Active:       rec.Active(now),
	}
}
