package types2

import (
	"strconv"
	"strings"

	"github.com/you-not-fish/p4simpl/internal/types"
)

// Names allocates identifiers that collide with no declared name and
// with no name it handed out before.
type Names struct {
	used    map[string]bool
	counter map[string]int
}

// NewNames returns a generator with the predeclared names reserved.
func NewNames() *Names {
	n := &Names{
		used:    make(map[string]bool),
		counter: make(map[string]int),
	}
	for _, name := range types.Universe.Names() {
		n.Use(name)
	}
	return n
}

// Use reserves name.
func (n *Names) Use(name string) {
	n.used[name] = true
}

// UseAll reserves every name declared in the program checked into info.
func (n *Names) UseAll(info *Info) {
	for name := range info.Defs {
		n.Use(name.Value)
	}
}

// New returns a fresh name derived from base. A trailing _<digits>
// suffix of base is dropped; the result is the base itself if unused,
// otherwise base_0, base_1, ... skipping reserved names.
func (n *Names) New(base string) string {
	base = stripNumericSuffix(base)
	if !n.used[base] {
		n.used[base] = true
		return base
	}
	for {
		i := n.counter[base]
		n.counter[base]++
		name := base + "_" + strconv.Itoa(i)
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
}

// stripNumericSuffix removes a trailing "_<digits>" from s, unless that
// would leave nothing.
func stripNumericSuffix(s string) string {
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return s
	}
	for _, ch := range s[i+1:] {
		if ch < '0' || ch > '9' {
			return s
		}
	}
	return s[:i]
}
