package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lojabot_chat_resolutions_total",
			Help: "Chat turns resolved, by pipeline stage",
		},
		[]string{"stage"},
	)

	ChatFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lojabot_chat_failures_total",
			Help: "Chat turns that ended in a processing failure",
		},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lojabot_ai_request_duration_seconds",
			Help:    "Duration of AI provider calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	TelegramMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lojabot_telegram_messages_total",
			Help: "Telegram messages handled, by outcome",
		},
		[]string{"outcome"},
	)
)
