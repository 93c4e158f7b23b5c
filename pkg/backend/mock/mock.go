// Package mock provides an in-memory backend for testing without a real
// device.
package mock

import (
	"time"

	"github.com/devicelab-dev/uitest-runner/pkg/core"
)

// Backend is a scripted implementation of core.Backend. Elements are
// registered up front, optionally appearing only after a delay from
// construction; every gesture and screenshot is recorded for
// inspection.
type Backend struct {
	start    time.Time
	elements map[string]entry
	counts   map[string]int

	// GestureErrs makes PerformGesture fail for the given kinds.
	GestureErrs map[core.GestureKind]error
	// ScreenshotErr makes CaptureScreenshot fail.
	ScreenshotErr error
	// HierarchyJSON overrides the default hierarchy dump.
	HierarchyJSON string

	// Recorded side effects.
	Gestures    []core.Gesture
	Screenshots []string
}

type entry struct {
	el          *core.Element
	appearAfter time.Duration
}

// New creates an empty mock backend.
func New() *Backend {
	return &Backend{
		start:       time.Now(),
		elements:    make(map[string]entry),
		counts:      make(map[string]int),
		GestureErrs: make(map[core.GestureKind]error),
	}
}

// AddElement registers an immediately visible element.
func (b *Backend) AddElement(el *core.Element) {
	b.elements[el.ID] = entry{el: el}
}

// AddElementAfter registers an element that only becomes locatable after
// the given delay from backend construction.
func (b *Backend) AddElementAfter(el *core.Element, delay time.Duration) {
	b.elements[el.ID] = entry{el: el, appearAfter: delay}
}

// RemoveElement unregisters an element.
func (b *Backend) RemoveElement(id string) {
	delete(b.elements, id)
	delete(b.counts, id)
}

// SetCount makes LocateAllByID report n elements for the id.
func (b *Backend) SetCount(id string, n int) {
	b.counts[id] = n
}

// FailGesture makes every gesture of the given kind fail with err.
func (b *Backend) FailGesture(kind core.GestureKind, err error) {
	b.GestureErrs[kind] = err
}

// Element is a convenience constructor for a visible, enabled element.
func Element(id, text string) *core.Element {
	return &core.Element{
		ID:      id,
		Text:    text,
		Visible: true,
		Enabled: true,
		Bounds:  core.Bounds{X: 100, Y: 200, Width: 200, Height: 50},
	}
}

// LocateByID returns the element if it is registered and its appearance
// delay has elapsed.
func (b *Backend) LocateByID(id string) *core.Element {
	e, ok := b.elements[id]
	if !ok {
		return nil
	}
	if e.appearAfter > 0 && time.Since(b.start) < e.appearAfter {
		return nil
	}
	return e.el
}

// LocateAllByID returns the configured count of elements, or the single
// registered element.
func (b *Backend) LocateAllByID(id string) []*core.Element {
	if n, ok := b.counts[id]; ok {
		els := make([]*core.Element, n)
		for i := range els {
			els[i] = Element(id, "")
		}
		return els
	}
	if el := b.LocateByID(id); el != nil {
		return []*core.Element{el}
	}
	return nil
}

// ElementText returns the element's text.
func (b *Backend) ElementText(el *core.Element) string {
	return el.Text
}

// ElementEnabled reports the element's enabled flag.
func (b *Backend) ElementEnabled(el *core.Element) bool {
	return el.Enabled
}

// PerformGesture records the gesture and fails if scripted to.
func (b *Backend) PerformGesture(g core.Gesture) error {
	b.Gestures = append(b.Gestures, g)
	if err := b.GestureErrs[g.Kind]; err != nil {
		return err
	}
	return nil
}

// CaptureScreenshot records the path and fails if scripted to.
func (b *Backend) CaptureScreenshot(path string) error {
	if b.ScreenshotErr != nil {
		return b.ScreenshotErr
	}
	b.Screenshots = append(b.Screenshots, path)
	return nil
}

// DumpHierarchy returns the configured hierarchy, or a minimal tree.
func (b *Backend) DumpHierarchy() string {
	if b.HierarchyJSON != "" {
		return b.HierarchyJSON
	}
	return `{"type": "View", "bounds": {"x": 0, "y": 0, "width": 1080, "height": 2400}, "children": []}`
}
