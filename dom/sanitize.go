package dom

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var policy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowDataAttributes()
	p.AllowElements("button", "input", "label", "span", "div", "section")
	p.AllowAttrs("type", "value", "placeholder", "name", "disabled").
		OnElements("input", "button")
	p.AllowAttrs("for").OnElements("label")
	p.AllowStyles(
		"color", "background", "background-color", "display", "visibility",
		"margin", "padding", "border", "width", "height", "font-size",
		"font-weight", "text-align", "text-decoration", "opacity",
	).Globally()

	return p
})

// Sanitize removes scripts, event handler attributes and other unsafe
// markup from an HTML fragment. Classes, ids, inline styles and form
// controls survive.
func Sanitize(src string) string { return policy().Sanitize(src) }
