package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_actions_total",
			Help: "Actions applied to matches, by game and result (ok, illegal, rejected)",
		},
		[]string{"game", "result"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_games_finished_total",
			Help: "Matches that reached a terminal status",
		},
		[]string{"game", "status"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
	CoachRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_requests_total",
			Help: "Coach requests by outcome (model, fallback)",
		},
		[]string{"game", "outcome"},
	)
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(Actions)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(CoachRequests)
	prometheus.MustRegister(RateLimited)
}
