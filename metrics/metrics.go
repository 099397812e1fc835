// Package metrics contains Prometheus-based implementations of the metrics
// interfaces of the redispool module.
package metrics

// subsystemPool is the subsystem name that the connection-pool metrics use.
const subsystemPool = "connpool"
