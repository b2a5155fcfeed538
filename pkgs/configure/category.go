package configure

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Category names one flag variable of the generated fragment.
type Category string

const (
	CFlags  Category = "cflags"
	LDFlags Category = "ldflags"
	Libs    Category = "libs"

	// CC is only present after a successful PreferCC.
	CC Category = "cc"
)

// ErrUnknownCategory is matched by errors.Is when Append is given a category
// that was never initialized.
var ErrUnknownCategory = errors.New("unknown category")

type unknownCategory struct {
	cat Category
}

func (e *unknownCategory) Error() string {
	return fmt.Sprintf("unknown category %q", string(e.cat))
}

func (e *unknownCategory) Is(target error) bool {
	return target == ErrUnknownCategory
}

// infoCategories are queried from the discovery program, in this order.
var infoCategories = []Category{CFlags, Libs, LDFlags}

// knownOrder is the line order of the flags fragment; other categories
// follow sorted by name.
var knownOrder = []Category{CFlags, LDFlags, Libs, CC}

// Variable returns the make variable name for the category.
func (c Category) Variable() string {
	return strings.ToUpper(string(c))
}

func orderedCategories(env map[Category]string) []Category {
	out := make([]Category, 0, len(env))
	for _, c := range knownOrder {
		if _, ok := env[c]; ok {
			out = append(out, c)
		}
	}
	var rest []Category
	for c := range env {
		if !slices.Contains(knownOrder, c) {
			rest = append(rest, c)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
