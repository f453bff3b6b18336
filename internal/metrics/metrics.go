package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bowling"

// Recorder counts what happens at the lanes. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	rolls       *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	turns       *prometheus.CounterVec
	games       prometheus.Counter
	finalScores *prometheus.HistogramVec
}

// New registers the bowling collectors on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		rolls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_total",
			Help:      "Rolls accepted by the scoring engine.",
		}, []string{"variant"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolls_rejected_total",
			Help:      "Rolls the scoring engine refused.",
		}, []string{"variant", "reason"}),
		turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Completed player turns.",
		}, []string{"variant"}),
		games: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_total",
			Help:      "Games played to the end.",
		}),
		finalScores: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Final score per player.",
			Buckets:   prometheus.LinearBuckets(0, 30, 11),
		}, []string{"variant"}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Roll(variant string) {
	if r == nil {
		return
	}
	r.rolls.WithLabelValues(variant).Inc()
}

func (r *Recorder) Rejected(variant, reason string) {
	if r == nil {
		return
	}
	r.rejected.WithLabelValues(variant, reason).Inc()
}

func (r *Recorder) Turn(variant string) {
	if r == nil {
		return
	}
	r.turns.WithLabelValues(variant).Inc()
}

func (r *Recorder) GameOver() {
	if r == nil {
		return
	}
	r.games.Inc()
}

// FinalScore observes a single player's result.
func (r *Recorder) FinalScore(variant string, score int) {
	if r == nil {
		return
	}
	r.finalScores.WithLabelValues(variant).Observe(float64(score))
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
