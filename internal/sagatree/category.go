package sagatree

import (
	"fmt"
	"strings"
)

// Category decides which output document a main saga belongs to.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySuperRookies
	CategoryNewWorld
)

const superRookiesMarker = "Super Rookies"

// Categorize assigns a category from a main saga title. Blank titles match
// nothing and stay CategoryUnknown.
func Categorize(title string) Category {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return CategoryUnknown
	case strings.Contains(title, superRookiesMarker):
		return CategorySuperRookies
	default:
		return CategoryNewWorld
	}
}

// Filename returns the output file for c. ok is false for CategoryUnknown.
func (c Category) Filename() (name string, ok bool) {
	switch c {
	case CategorySuperRookies:
		return "SuperRookies.md", true
	case CategoryNewWorld:
		return "NewWorld.md", true
	case CategoryUnknown:
		return "", false
	}
	return "", false
}

func (c Category) String() string {
	switch c {
	case CategorySuperRookies:
		return "super_rookies"
	case CategoryNewWorld:
		return "new_world"
	default:
		return "unknown"
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "super_rookies":
		return CategorySuperRookies, nil
	case "new_world":
		return CategoryNewWorld, nil
	case "unknown", "":
		return CategoryUnknown, nil
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
