package dom

import (
	"slices"
	"strings"
)

// ClassList is a live view of an element's class attribute.
type ClassList struct{ el *Element }

// Items returns the class names in order without duplicates.
func (c *ClassList) Items() []string {
	var out []string

	for _, s := range strings.Fields(c.el.ClassName()) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	return out
}

// Len returns the number of class names.
func (c *ClassList) Len() int { return len(c.Items()) }

// Contains reports whether name is present.
func (c *ClassList) Contains(name string) bool {
	return slices.Contains(c.Items(), name)
}

// Add appends each name not already present.
func (c *ClassList) Add(names ...string) {
	items := c.Items()

	for _, n := range names {
		if n != "" && !slices.Contains(items, n) {
			items = append(items, n)
		}
	}

	c.set(items)
}

// Remove deletes each name.
func (c *ClassList) Remove(names ...string) {
	items := slices.DeleteFunc(c.Items(), func(s string) bool {
		return slices.Contains(names, s)
	})

	c.set(items)
}

// Toggle removes name if present and adds it otherwise. It reports whether
// name is present afterward.
func (c *ClassList) Toggle(name string) bool {
	if c.Contains(name) {
		c.Remove(name)

		return false
	}

	c.Add(name)

	return true
}

func (c *ClassList) String() string { return strings.Join(c.Items(), " ") }

func (c *ClassList) set(items []string) {
	if len(items) == 0 && !c.el.HasAttribute("class") {
		return
	}

	c.el.SetClassName(strings.Join(items, " "))
}
