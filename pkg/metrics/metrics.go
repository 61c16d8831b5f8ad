package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeAccepted  = "accepted"
	OutcomeOverlap   = "overlap"
	OutcomePastStart = "past_start"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Metrics - счётчики бронирования и кеша коэффициентов. Nil-получатель допустим.
type Metrics struct {
	admissions   *prometheus.CounterVec
	factorLookup *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tarsier",
			Name:      "booking_admissions_total",
			Help:      "Результаты проверки бронирований.",
		}, []string{"outcome"}),
		factorLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tarsier",
			Name:      "factor_cache_lookups_total",
			Help:      "Обращения к кешу журнала коэффициентов.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.admissions, m.factorLookup} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveAdmission(outcome string) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFactorCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.factorLookup.WithLabelValues(result).Inc()
}
