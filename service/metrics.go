package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"result"})

	refreshAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refresh_attempts_total",
		Help: "Refresh token rotations by outcome.",
	}, []string{"result"})

	sessionRevocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_session_revocations_total",
		Help: "Session revocations by scope.",
	}, []string{"scope"})
)
