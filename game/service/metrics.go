package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wricardo/minesweeper/game/engine"
)

// Metrics holds the Prometheus collectors updated by the game service
type Metrics struct {
	SessionsCreated prometheus.Counter
	Reveals         *prometheus.CounterVec
	CellsRevealed   prometheus.Counter
	Flags           *prometheus.CounterVec
	GamesFinished   *prometheus.CounterVec
	Resets          prometheus.Counter
}

// NewMetrics creates the service collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "sessions_created_total",
			Help:      "Number of game sessions created.",
		}),
		Reveals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "reveals_total",
			Help:      "Reveal requests by result (single, cascade, detonated, noop).",
		}, []string{"result"}),
		CellsRevealed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "cells_revealed_total",
			Help:      "Cells opened by reveals, cascades included.",
		}),
		Flags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "flags_total",
			Help:      "Flag toggles by action (flag, unflag).",
		}, []string{"action"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "games_finished_total",
			Help:      "Finished games by outcome (win, loss).",
		}, []string{"outcome"}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minesweeper",
			Name:      "resets_total",
			Help:      "Number of games restarted.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.SessionsCreated, m.Reveals, m.CellsRevealed, m.Flags, m.GamesFinished, m.Resets)
	}
	return m
}

// RegisterSessionGauge exposes the live session count from sessions
func RegisterSessionGauge(reg prometheus.Registerer, sessions SessionManager) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "minesweeper",
		Name:      "active_sessions",
		Help:      "Number of sessions held in memory.",
	}, func() float64 {
		return float64(sessions.Count())
	}))
}

func (m *Metrics) observeReveal(result engine.RevealResult, prev engine.Outcome) {
	label := "single"
	switch {
	case result.Detonated:
		label = "detonated"
	case len(result.Revealed) == 0:
		label = "noop"
	case len(result.Revealed) > 1:
		label = "cascade"
	}
	m.Reveals.WithLabelValues(label).Inc()
	m.CellsRevealed.Add(float64(len(result.Revealed)))

	if prev == engine.InProgress && result.Outcome != engine.InProgress {
		m.GamesFinished.WithLabelValues(string(result.Outcome)).Inc()
	}
}
