package timeouts

import "github.com/v0xg/remotedriver/internal/wire"

type timeoutEncoder interface {
	implicit(ms int64) (wire.Command, wire.Params)
	script(ms int64) (wire.Command, wire.Params)
	pageLoad(ms int64) (wire.Command, wire.Params)
}

func encoderFor(d wire.Dialect) timeoutEncoder {
	if d == wire.W3C {
		return w3cTimeouts{}
	}
	return legacyTimeouts{}
}

type legacyTimeouts struct{}

func (legacyTimeouts) implicit(ms int64) (wire.Command, wire.Params) {
	return wire.ImplicitlyWait, wire.Params{"ms": ms}
}

func (legacyTimeouts) script(ms int64) (wire.Command, wire.Params) {
	return wire.SetScriptTimeout, wire.Params{"ms": ms}
}

func (legacyTimeouts) pageLoad(ms int64) (wire.Command, wire.Params) {
	return wire.SetTimeout, wire.Params{"type": "page load", "ms": ms}
}

type w3cTimeouts struct{}

func (w3cTimeouts) implicit(ms int64) (wire.Command, wire.Params) {
	return wire.ImplicitlyWait, wire.Params{"implicit": ms}
}

func (w3cTimeouts) script(ms int64) (wire.Command, wire.Params) {
	return wire.SetScriptTimeout, wire.Params{"script": ms}
}

// The page load timeout rides on setScriptTimeout: in W3C both map to the
// same timeouts endpoint and only the key tells them apart. Keep it that way.
func (w3cTimeouts) pageLoad(ms int64) (wire.Command, wire.Params) {
	return wire.SetScriptTimeout, wire.Params{"pageLoad": ms}
}
