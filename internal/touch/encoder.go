package touch

import (
	"context"

	"github.com/v0xg/remotedriver/internal/wire"
)

// fingerID names the synthetic input source used for W3C taps
const fingerID = "finger"

// tapEncoder builds the single command a tap is sent as
type tapEncoder interface {
	encodeTap(ctx context.Context, el wire.Element) (wire.Command, wire.Params, error)
}

func tapEncoderFor(d wire.Dialect) tapEncoder {
	if d == wire.W3C {
		return w3cTap{}
	}
	return legacyTap{}
}

type legacyTap struct{}

func (legacyTap) encodeTap(_ context.Context, el wire.Element) (wire.Command, wire.Params, error) {
	return wire.TouchSingleTap, wire.Params{"element": el.ID()}, nil
}

// w3cTap sends move, press, release on one touch pointer at the element's
// current location.
type w3cTap struct{}

func (w3cTap) encodeTap(ctx context.Context, el wire.Element) (wire.Command, wire.Params, error) {
	loc, err := el.Location(ctx)
	if err != nil {
		return "", nil, err
	}
	finger := wire.PointerSource{
		Type:       wire.SourcePointer,
		ID:         fingerID,
		Parameters: wire.PointerParameters{PointerType: wire.PointerTouch},
		Actions: []wire.PointerAction{
			wire.MoveTo(loc, 0),
			wire.Press(0),
			wire.Release(0),
		},
	}
	return wire.Actions, wire.Params{"actions": []wire.PointerSource{finger}}, nil
}
