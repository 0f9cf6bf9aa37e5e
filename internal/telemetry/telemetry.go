// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package telemetry exposes the coordinator's Prometheus metrics: how
// many register calls resolved to each role, how many /complete calls
// were made, and how many tasks poll calls drained. This is ambient observability, not part of the state-machine
// contract spec'd for the six registry endpoints.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/memfabric-coord/internal/model"
)

// Telemetry wraps a dedicated Prometheus registry and the counters
// registered against it.
type Telemetry struct {
	reg *prometheus.Registry

	registerTotal   *prometheus.CounterVec
	completedTotal  prometheus.Counter
	polledTasksTotal prometheus.Counter
}

// New constructs a Telemetry instance with all metrics registered.
func New() (*Telemetry, error) {
	reg := prometheus.NewRegistry()

	registerTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "memfabric_coord_register_total",
		Help: "Total number of register calls, by resolved role.",
	}, []string{"role"})

	completedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "memfabric_coord_transfers_completed_total",
		Help: "Total number of transfers marked complete.",
	})

	polledTasksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "memfabric_coord_polled_tasks_total",
		Help: "Total number of tasks drained by poll calls.",
	})

	for _, c := range []prometheus.Collector{registerTotal, completedTotal, polledTasksTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &Telemetry{
		reg:              reg,
		registerTotal:    registerTotal,
		completedTotal:   completedTotal,
		polledTasksTotal: polledTasksTotal,
	}, nil
}

// Registry returns the Prometheus registry backing /metrics.
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.reg
}

// ObserveRegister records a register call resolved to the given role.
func (t *Telemetry) ObserveRegister(role model.Role) {
	t.registerTotal.WithLabelValues(string(role)).Inc()
}

// ObserveComplete records a /complete call (whether or not the transfer
// ID was known — the counter tracks call volume, not confirmed
// transitions, since Store.Complete does not report that distinction).
func (t *Telemetry) ObserveComplete() {
	t.completedTotal.Inc()
}

// ObservePoll records how many tasks a poll call drained.
func (t *Telemetry) ObservePoll(n int) {
	t.polledTasksTotal.Add(float64(n))
}
