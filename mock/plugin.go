package mock

import "github.com/fwojciec/crawlonce"

var _ crawlonce.Plugin = (*Plugin)(nil)

// Plugin is a mock implementation of crawlonce.Plugin.
type Plugin struct {
	HooksFn   func() map[crawlonce.Event]crawlonce.Hook
	EnableFn  func()
	DisableFn func()
	EnabledFn func() bool
}

func (p *Plugin) Hooks() map[crawlonce.Event]crawlonce.Hook {
	return p.HooksFn()
}

func (p *Plugin) Enable() {
	p.EnableFn()
}

func (p *Plugin) Disable() {
	p.DisableFn()
}

func (p *Plugin) Enabled() bool {
	return p.EnabledFn()
}
