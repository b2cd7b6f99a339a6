package browser

import (
	"context"
	"fmt"
)

// Target is a visible element that can be tapped
type Target struct {
	Selector string `json:"selector"`
	Type     string `json:"type"` // button, link, input, select, checkbox, radio
	Text     string `json:"text,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

const targetsJS = `() => {
	const targets = [];
	const seen = new Set();

	// CSS identifiers can't start with a digit or carry selector syntax
	function isValidIdent(s) {
		if (!s) return false;
		if (/^-?[0-9]/.test(s)) return false;
		if (/[.:#\[\]()>~+*\/\\]/.test(s)) return false;
		return true;
	}

	function getSelector(el) {
		if (el.id && isValidIdent(el.id)) return '#' + el.id;
		if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';

		if (el.className && typeof el.className === 'string') {
			const classes = el.className.trim().split(/\s+/).filter(isValidIdent).slice(0, 2);
			if (classes.length > 0) {
				const selector = el.tagName.toLowerCase() + '.' + classes.join('.');
				try {
					if (document.querySelectorAll(selector).length === 1) return selector;
				} catch (e) {}
			}
		}

		const parent = el.parentElement;
		if (parent) {
			const index = Array.from(parent.children).indexOf(el) + 1;
			return getSelector(parent) + ' > ' + el.tagName.toLowerCase() + ':nth-child(' + index + ')';
		}
		return el.tagName.toLowerCase();
	}

	function collect(query, typeOf) {
		document.querySelectorAll(query).forEach(el => {
			if (!el.offsetParent) return;
			const selector = getSelector(el);
			if (seen.has(selector)) return;
			seen.add(selector);
			const r = el.getBoundingClientRect();
			targets.push({
				selector: selector,
				type: typeOf(el),
				text: (el.textContent || el.value || el.placeholder || '').trim().slice(0, 50),
				x: Math.floor(r.left), y: Math.floor(r.top),
				width: Math.floor(r.width), height: Math.floor(r.height)
			});
		});
	}

	collect('button, [role="button"], input[type="submit"], input[type="button"]', () => 'button');
	collect('input[type="checkbox"], input[type="radio"]', el => el.type);
	collect('input:not([type="hidden"]):not([type="submit"]):not([type="button"]), textarea', () => 'input');
	collect('select', () => 'select');
	collect('a[href]', () => 'link');
	return targets;
}`

// Targets lists the visible interactive elements of the current page
func (b *Browser) Targets(ctx context.Context) ([]Target, error) {
	res, err := b.page.Context(ctx).Eval(targetsJS)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	var targets []Target
	for _, v := range res.Value.Arr() {
		targets = append(targets, Target{
			Selector: v.Get("selector").String(),
			Type:     v.Get("type").String(),
			Text:     v.Get("text").String(),
			X:        v.Get("x").Int(),
			Y:        v.Get("y").Int(),
			Width:    v.Get("width").Int(),
			Height:   v.Get("height").Int(),
		})
	}
	return targets, nil
}
