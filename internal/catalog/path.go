// SPDX-License-Identifier: Apache-2.0

package catalog

import "strconv"

// Path is the structural address of a node, e.g. "products[3].variants[1]".
// The root is the empty path. Paths are built during traversal and are only
// used for ordering duplicates and for reporting.
type Path string

// Key appends a mapping key.
func (p Path) Key(k string) Path {
	if p == "" {
		return Path(k)
	}
	return p + "." + Path(k)
}

// Index appends a sequence position.
func (p Path) Index(i int) Path {
	return p + "[" + Path(strconv.Itoa(i)) + "]"
}

func (p Path) String() string { return string(p) }
