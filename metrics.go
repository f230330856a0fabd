package sharedmap

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "sharedmap"

type metrics struct {
	reg     prometheus.Registerer
	ops     *prometheus.CounterVec
	owners  prometheus.GaugeFunc
	getHit  prometheus.Counter
	getMiss prometheus.Counter
	put     prometheus.Counter
	del     prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, id int64, owners func() float64) (*metrics, error) {
	labels := prometheus.Labels{"table": strconv.FormatInt(id, 10)}
	m := &metrics{
		reg: reg,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "operations_total",
			Help:        "Operations applied to the table, by kind.",
			ConstLabels: labels,
		}, []string{"op"}),
		owners: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "owners",
			Help:        "Live handles referencing the table.",
			ConstLabels: labels,
		}, owners),
	}
	if err := reg.Register(m.ops); err != nil {
		return nil, err
	}
	if err := reg.Register(m.owners); err != nil {
		reg.Unregister(m.ops)
		return nil, err
	}
	m.getHit = m.ops.WithLabelValues("get_hit")
	m.getMiss = m.ops.WithLabelValues("get_miss")
	m.put = m.ops.WithLabelValues("put")
	m.del = m.ops.WithLabelValues("delete")
	return m, nil
}

// The methods below are no-ops on a nil *metrics.

func (m *metrics) observeGet(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.getHit.Inc()
	} else {
		m.getMiss.Inc()
	}
}

func (m *metrics) observePut() {
	if m != nil {
		m.put.Inc()
	}
}

func (m *metrics) observeDelete() {
	if m != nil {
		m.del.Inc()
	}
}

func (m *metrics) unregister() {
	if m == nil {
		return
	}
	m.reg.Unregister(m.ops)
	m.reg.Unregister(m.owners)
}
