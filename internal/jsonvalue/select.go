package jsonvalue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/obegron/ipscope/internal/errors"
)

// Select resolves a dotted selector such as ".malicious.score" against v.
// Numeric segments index into arrays. "." returns v itself.
func Select(v Value, selector string) (Value, error) {
	if selector == "" || selector == "." {
		return v, nil
	}

	path := strings.Split(strings.TrimPrefix(selector, "."), ".")

	current := v
	for i, key := range path {
		switch current.Kind() {
		case Object:
			next, ok := current.Get(key)
			if !ok {
				return Value{}, fmt.Errorf("%w: key '%s' not found in path '%s'",
					errors.ErrSelectorNotFound, key, strings.Join(path[:i+1], "."))
			}
			current = next
		case Array:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= current.Len() {
				return Value{}, fmt.Errorf("%w: index '%s' out of range in path '%s'",
					errors.ErrSelectorNotFound, key, strings.Join(path[:i+1], "."))
			}
			current = current.Items()[idx]
		default:
			return Value{}, fmt.Errorf("%w: cannot traverse into %s at path '%s'",
				errors.ErrSelectorNotFound, current.Kind(), strings.Join(path[:i], "."))
		}
	}

	return current, nil
}
