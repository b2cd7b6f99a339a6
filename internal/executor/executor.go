package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/remotedriver/internal/wire"
)

// Options tunes how the rod executor emulates gestures
type Options struct {
	LongPress   time.Duration // hold time for touchLongPress
	FlickWindow time.Duration // how far a speed-only flick travels, as time at that speed
	FPS         int           // steps per second for animated drags
}

func (o Options) withDefaults() Options {
	if o.LongPress == 0 {
		o.LongPress = time.Second
	}
	if o.FlickWindow == 0 {
		o.FlickWindow = 250 * time.Millisecond
	}
	if o.FPS == 0 {
		o.FPS = 60
	}
	return o
}

// Rod carries out remote driver commands on a local page over CDP. Element
// ids are CSS selectors.
type Rod struct {
	page *rod.Page
	opts Options

	mu       sync.Mutex
	implicit time.Duration
	script   time.Duration
	pageLoad time.Duration
}

// NewRod creates an executor driving page
func NewRod(page *rod.Page, opts Options) *Rod {
	return &Rod{page: page, opts: opts.withDefaults()}
}

// Timeouts returns the implicit, script and page load timeouts last set
func (r *Rod) Timeouts() (implicit, script, pageLoad time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.implicit, r.script, r.pageLoad
}

func (r *Rod) Execute(ctx context.Context, cmd wire.Command, params wire.Params) (json.RawMessage, error) {
	page := r.page.Context(ctx)

	var err error
	switch cmd {
	case wire.Actions:
		var p actionsParams
		if err = decodeParams(params, &p); err == nil {
			err = r.performActions(ctx, page, p.Actions)
		}
	case wire.TouchSingleTap, wire.TouchDoubleTap, wire.TouchLongPress,
		wire.TouchDown, wire.TouchUp, wire.TouchMove,
		wire.TouchFlick, wire.TouchScroll:
		var p touchParams
		if err = decodeParams(params, &p); err == nil {
			err = r.touch(ctx, page, cmd, p)
		}
	case wire.ImplicitlyWait, wire.SetScriptTimeout, wire.SetTimeout:
		var p timeoutParams
		if err = decodeParams(params, &p); err == nil {
			err = r.setTimeout(cmd, p)
		}
	case wire.GetElementLocation, wire.GetElementRect:
		var p elementParams
		if err = decodeParams(params, &p); err != nil {
			break
		}
		value, err := r.elementRect(ctx, page, p.ID, cmd == wire.GetElementRect)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, cmd)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}
	return nil, nil
}

func (r *Rod) touch(ctx context.Context, page *rod.Page, cmd wire.Command, p touchParams) error {
	switch cmd {
	case wire.TouchSingleTap:
		el, err := r.element(ctx, page, p.Element)
		if err != nil {
			return err
		}
		return el.Tap()
	case wire.TouchDoubleTap:
		x, y, err := r.elementCenter(ctx, page, p.Element)
		if err != nil {
			return err
		}
		if err := page.Touch.Tap(x, y); err != nil {
			return err
		}
		return page.Touch.Tap(x, y)
	case wire.TouchLongPress:
		x, y, err := r.elementCenter(ctx, page, p.Element)
		if err != nil {
			return err
		}
		if err := page.Touch.Start(touchPoint(x, y)); err != nil {
			return err
		}
		if err := sleep(ctx, r.opts.LongPress); err != nil {
			_ = page.Touch.Cancel()
			return err
		}
		return page.Touch.End()
	case wire.TouchDown, wire.TouchMove, wire.TouchUp:
		return fingerAt(page.Touch, cmd, float64(p.X), float64(p.Y))
	case wire.TouchScroll:
		if p.Element != "" {
			x, y, err := r.elementCenter(ctx, page, p.Element)
			if err != nil {
				return err
			}
			if err := page.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
				return err
			}
		}
		return page.Mouse.Scroll(float64(p.XOffset), float64(p.YOffset), scrollSteps(p.XOffset, p.YOffset))
	case wire.TouchFlick:
		if p.Element == "" {
			secs := r.opts.FlickWindow.Seconds()
			dx, dy := float64(p.XSpeed)*secs, float64(p.YSpeed)*secs
			return page.Mouse.Scroll(-dx, -dy, scrollSteps(int(dx), int(dy)))
		}
		x, y, err := r.elementCenter(ctx, page, p.Element)
		if err != nil {
			return err
		}
		return r.drag(ctx, page, x, y, float64(p.XOffset), float64(p.YOffset), p.Speed)
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, cmd)
}

// drag swipes a finger from (x, y) by (dx, dy) at speed pixels per second
func (r *Rod) drag(ctx context.Context, page *rod.Page, x, y, dx, dy float64, speed int) error {
	dist := math.Hypot(dx, dy)
	duration := 100 * time.Millisecond
	if speed > 0 && dist > 0 {
		duration = time.Duration(dist / float64(speed) * float64(time.Second))
	}
	steps := int(duration.Seconds() * float64(r.opts.FPS))
	if steps < 2 {
		steps = 2
	}
	interval := duration / time.Duration(steps)

	if err := page.Touch.Start(touchPoint(x, y)); err != nil {
		return err
	}
	for i := 1; i <= steps; i++ {
		t := easeInOutQuad(float64(i) / float64(steps))
		if err := page.Touch.Move(touchPoint(x+t*dx, y+t*dy)); err != nil {
			_ = page.Touch.Cancel()
			return err
		}
		if err := sleep(ctx, interval); err != nil {
			_ = page.Touch.Cancel()
			return err
		}
	}
	return page.Touch.End()
}

// performActions runs W3C input sources tick by tick
func (r *Rod) performActions(ctx context.Context, page *rod.Page, sources []wire.PointerSource) error {
	pointers := make([]*pointerState, len(sources))
	ticks := 0
	for i, src := range sources {
		if src.Type != wire.SourcePointer {
			return fmt.Errorf("%w: %s input source", ErrUnsupported, src.Type)
		}
		pointers[i] = &pointerState{kind: src.Parameters.PointerType}
		if len(src.Actions) > ticks {
			ticks = len(src.Actions)
		}
	}

	for tick := 0; tick < ticks; tick++ {
		var wait time.Duration
		for i, src := range sources {
			if tick >= len(src.Actions) {
				continue
			}
			a := src.Actions[tick]
			if a.Duration != nil {
				if d := time.Duration(*a.Duration) * time.Millisecond; d > wait {
					wait = d
				}
			}
			if err := pointers[i].apply(page, a); err != nil {
				return fmt.Errorf("source %q tick %d: %w", src.ID, tick, err)
			}
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

type pointerState struct {
	kind    string
	x, y    float64
	pressed bool
}

func (s *pointerState) apply(page *rod.Page, a wire.PointerAction) error {
	switch a.Type {
	case wire.Pause:
		return nil
	case wire.PointerMove:
		if a.X != nil {
			s.x = float64(*a.X)
		}
		if a.Y != nil {
			s.y = float64(*a.Y)
		}
		if s.kind == wire.PointerMouse {
			return page.Mouse.MoveTo(proto.Point{X: s.x, Y: s.y})
		}
		if s.pressed {
			return page.Touch.Move(touchPoint(s.x, s.y))
		}
		return nil
	case wire.PointerDown:
		s.pressed = true
		if s.kind == wire.PointerMouse {
			return page.Mouse.Down(mouseButton(a.Button), 1)
		}
		return page.Touch.Start(touchPoint(s.x, s.y))
	case wire.PointerUp:
		s.pressed = false
		if s.kind == wire.PointerMouse {
			return page.Mouse.Up(mouseButton(a.Button), 1)
		}
		return page.Touch.End()
	default:
		return fmt.Errorf("%w: %s action", ErrUnsupported, a.Type)
	}
}

func (r *Rod) setTimeout(cmd wire.Command, p timeoutParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ms := func(v *int64) time.Duration { return time.Duration(*v) * time.Millisecond }
	switch {
	case cmd == wire.SetTimeout && p.MS != nil:
		switch p.Type {
		case "implicit":
			r.implicit = ms(p.MS)
		case "script":
			r.script = ms(p.MS)
		case "page load":
			r.pageLoad = ms(p.MS)
		default:
			return fmt.Errorf("unknown timeout type %q", p.Type)
		}
	case cmd == wire.ImplicitlyWait && p.MS != nil:
		r.implicit = ms(p.MS)
	case cmd == wire.SetScriptTimeout && p.MS != nil:
		r.script = ms(p.MS)
	default:
		// W3C bodies name the timeout by key, whatever the command
		if p.Implicit == nil && p.Script == nil && p.PageLoad == nil {
			return fmt.Errorf("no timeout value given")
		}
		if p.Implicit != nil {
			r.implicit = ms(p.Implicit)
		}
		if p.Script != nil {
			r.script = ms(p.Script)
		}
		if p.PageLoad != nil {
			r.pageLoad = ms(p.PageLoad)
		}
	}
	return nil
}

// element finds selector, polling up to the implicit wait
func (r *Rod) element(ctx context.Context, page *rod.Page, selector string) (*rod.Element, error) {
	implicit, _, _ := r.Timeouts()
	if implicit <= 0 {
		el, err := page.Sleeper(rod.NotFoundSleeper).Element(selector)
		if err != nil {
			return nil, fmt.Errorf("element not found: %s: %w", selector, err)
		}
		return el, nil
	}

	timed := page.Timeout(implicit)
	el, err := timed.Element(selector)
	if err != nil {
		timed.CancelTimeout()
		return nil, fmt.Errorf("element not found: %s: %w", selector, err)
	}
	el = el.Context(ctx)
	timed.CancelTimeout()
	return el, nil
}

func (r *Rod) elementCenter(ctx context.Context, page *rod.Page, selector string) (float64, float64, error) {
	el, err := r.element(ctx, page, selector)
	if err != nil {
		return 0, 0, err
	}
	box, err := elementBox(el)
	if err != nil {
		return 0, 0, err
	}
	return box.x + box.width/2, box.y + box.height/2, nil
}

func (r *Rod) elementRect(ctx context.Context, page *rod.Page, selector string, withSize bool) (json.RawMessage, error) {
	el, err := r.element(ctx, page, selector)
	if err != nil {
		return nil, err
	}
	box, err := elementBox(el)
	if err != nil {
		return nil, err
	}
	value := map[string]float64{"x": box.x, "y": box.y}
	if withSize {
		value["width"] = box.width
		value["height"] = box.height
	}
	return jsonAPI.Marshal(value)
}

type rect struct {
	x, y, width, height float64
}

// elementBox returns the bounding box of the element's first content quad
func elementBox(el *rod.Element) (rect, error) {
	shape, err := el.Shape()
	if err != nil {
		return rect{}, err
	}
	if len(shape.Quads) == 0 {
		return rect{}, fmt.Errorf("element has no shape")
	}
	return quadBounds(shape.Quads[0]), nil
}

func quadBounds(quad proto.DOMQuad) rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i+1 < len(quad); i += 2 {
		minX = math.Min(minX, quad[i])
		maxX = math.Max(maxX, quad[i])
		minY = math.Min(minY, quad[i+1])
		maxY = math.Max(maxY, quad[i+1])
	}
	return rect{x: minX, y: minY, width: maxX - minX, height: maxY - minY}
}

// touchInput is the part of rod's touch device used for raw finger events
type touchInput interface {
	Start(points ...*proto.InputTouchPoint) error
	Move(points ...*proto.InputTouchPoint) error
	End() error
}

// fingerAt sends a single finger down, move or up at (x, y). CDP's touchEnd
// carries no point, so an up moves the finger to (x, y) before lifting it.
func fingerAt(t touchInput, cmd wire.Command, x, y float64) error {
	pt := touchPoint(x, y)
	switch cmd {
	case wire.TouchDown:
		return t.Start(pt)
	case wire.TouchMove:
		return t.Move(pt)
	case wire.TouchUp:
		if err := t.Move(pt); err != nil {
			return err
		}
		return t.End()
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, cmd)
}

func touchPoint(x, y float64) *proto.InputTouchPoint {
	return &proto.InputTouchPoint{X: x, Y: y}
}

func mouseButton(button *int) proto.InputMouseButton {
	if button == nil {
		return proto.InputMouseButtonLeft
	}
	switch *button {
	case 1:
		return proto.InputMouseButtonMiddle
	case 2:
		return proto.InputMouseButtonRight
	default:
		return proto.InputMouseButtonLeft
	}
}

// scrollSteps spreads a scroll over roughly 40px increments
func scrollSteps(dx, dy int) int {
	d := math.Max(math.Abs(float64(dx)), math.Abs(float64(dy)))
	steps := int(d / 40)
	if steps < 1 {
		return 1
	}
	return steps
}

// easeInOutQuad provides smooth acceleration/deceleration
func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - (-2*t+2)*(-2*t+2)/2
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
