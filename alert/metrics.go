// ABOUTME: Prometheus counters for alert trigger decisions
// ABOUTME: Labelled by alert context and outcome
package alert

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var triggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "painel_alert_triggers_total",
	Help: "Alert triggers by context and outcome.",
}, []string{"context", "outcome"})
