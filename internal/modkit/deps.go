// Package modkit provides module wiring and core deps
package modkit

import (
	"hnagent/internal/adapters/hn"
	"hnagent/internal/platform/config"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	Metrics *metrics.Metrics
	HN      *hn.Client
}

// Logger returns a component child of the shared logger, never nil
func (d Deps) Logger(component string) *logger.Logger {
	return logger.Named(d.Log, component)
}
