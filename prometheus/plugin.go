// Package prometheus instruments crawl plugins with Prometheus counters.
package prometheus

import (
	"errors"

	"github.com/fwojciec/crawlonce"
	"github.com/prometheus/client_golang/prometheus"
)

// Decision label values.
const (
	DecisionAllowed   = "allowed"
	DecisionPrevented = "prevented"
	DecisionError     = "error"
)

var _ crawlonce.Plugin = (*MetricsPlugin)(nil)

// MetricsPlugin wraps a Plugin and counts the outcome of every hook call in
// crawlonce_decisions_total.
type MetricsPlugin struct {
	next      crawlonce.Plugin
	decisions *prometheus.CounterVec
}

// NewMetricsPlugin registers the decision counter with reg and wraps next.
// Wrapping several plugins with the same registerer shares one counter.
func NewMetricsPlugin(next crawlonce.Plugin, reg prometheus.Registerer) (*MetricsPlugin, error) {
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crawlonce_decisions_total",
		Help: "Crawl decisions by outcome.",
	}, []string{"decision"})

	if err := reg.Register(decisions); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		decisions = existing
	}

	for _, d := range []string{DecisionAllowed, DecisionPrevented, DecisionError} {
		decisions.WithLabelValues(d)
	}

	return &MetricsPlugin{next: next, decisions: decisions}, nil
}

// Hooks returns the wrapped plugin's hooks, each counting its outcome.
func (p *MetricsPlugin) Hooks() map[crawlonce.Event]crawlonce.Hook {
	inner := p.next.Hooks()
	hooks := make(map[crawlonce.Event]crawlonce.Hook, len(inner))
	for event, hook := range inner {
		hooks[event] = func(settings *crawlonce.CrawlSettings) error {
			err := hook(settings)
			switch {
			case err != nil:
				p.decisions.WithLabelValues(DecisionError).Inc()
			case settings.PreventCrawl:
				p.decisions.WithLabelValues(DecisionPrevented).Inc()
			default:
				p.decisions.WithLabelValues(DecisionAllowed).Inc()
			}
			return err
		}
	}
	return hooks
}

func (p *MetricsPlugin) Enable()       { p.next.Enable() }
func (p *MetricsPlugin) Disable()      { p.next.Disable() }
func (p *MetricsPlugin) Enabled() bool { return p.next.Enabled() }
