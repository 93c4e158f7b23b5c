package doc

import (
	"encoding/json"
	"fmt"
)

// PlatformAll is the sentinel platform name matching every runner
// platform.
const PlatformAll = "all"

// PlatformTarget restricts a document or case to one or more platforms.
// It is a tagged variant of {single name} or {set of names}: the shape in
// the source JSON (bare string vs. string array) determines the variant,
// and re-serialization reproduces the original shape.
type PlatformTarget struct {
	single string
	multi  []string
}

// SinglePlatform returns a target for one platform name.
func SinglePlatform(name string) *PlatformTarget {
	return &PlatformTarget{single: name}
}

// MultiplePlatforms returns a target for a set of platform names.
func MultiplePlatforms(names ...string) *PlatformTarget {
	return &PlatformTarget{multi: names}
}

// IsSingle reports whether the target holds the bare-string variant.
func (t *PlatformTarget) IsSingle() bool {
	return t.single != ""
}

// Names returns the platform names the target holds.
func (t *PlatformTarget) Names() []string {
	if t.single != "" {
		return []string{t.single}
	}
	return t.multi
}

// Includes reports whether the target contains the given platform, or
// the "all" sentinel.
func (t *PlatformTarget) Includes(platform string) bool {
	for _, name := range t.Names() {
		if name == platform || name == PlatformAll {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts a bare string or an array of strings.
func (t *PlatformTarget) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		t.single = single
		t.multi = nil
		return nil
	}

	var multi []string
	if err := json.Unmarshal(data, &multi); err == nil {
		t.single = ""
		t.multi = multi
		return nil
	}

	return fmt.Errorf("platform must be a string or an array of strings, got %s", data)
}

// MarshalJSON reproduces the shape the target was decoded from.
func (t PlatformTarget) MarshalJSON() ([]byte, error) {
	if t.single != "" {
		return json.Marshal(t.single)
	}
	return json.Marshal(t.multi)
}

func (t *PlatformTarget) String() string {
	if t.single != "" {
		return t.single
	}
	return fmt.Sprintf("%v", t.multi)
}
