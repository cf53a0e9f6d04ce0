package api

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type counters struct {
	logins  *prometheus.CounterVec
	signups *prometheus.CounterVec
	matches *prometheus.CounterVec
}

func newCounters(reg prometheus.Registerer) (*counters, error) {
	c := &counters{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_signups_total",
			Help: "Profile creation attempts by result.",
		}, []string{"result"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hearth_match_events_total",
			Help: "Match lifecycle events.",
		}, []string{"event"}),
	}

	for _, col := range []prometheus.Collector{c.logins, c.signups, c.matches} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return c, nil
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
