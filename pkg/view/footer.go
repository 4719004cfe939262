package view

import (
	"math/rand/v2"
	"sync"
)

const LicenseURL = "http://creativecommons.org/licenses/by-nc-sa/4.0/"

// Picker picks a uniformly random index in [0, n).
type Picker interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultPicker draws from the global math/rand/v2 source.
var DefaultPicker Picker = globalRand{}

// LockedRand is a seeded Picker safe for concurrent use.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewLockedRand(seed uint64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *LockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// Footer renders the licence block and one flavor line. The line is picked
// once, on Mount, and kept for the life of the instance.
type Footer struct {
	Title   string
	Flavors []string

	picker  Picker
	index   int
	mounted bool
}

func NewFooter(title string, flavors []string, picker Picker) *Footer {
	if picker == nil {
		picker = DefaultPicker
	}
	f := &Footer{
		Title:   title,
		Flavors: flavors,
		picker:  picker,
	}
	f.Mount()
	return f
}

// Mount picks the flavor index. Only the first call has any effect.
func (f *Footer) Mount() {
	if f.mounted {
		return
	}
	f.mounted = true

	if len(f.Flavors) == 0 {
		f.index = -1
		return
	}
	f.index = f.picker.IntN(len(f.Flavors))
}

// Index is the picked flavor index, -1 when there is none.
func (f *Footer) Index() int {
	if !f.mounted {
		return -1
	}
	return f.index
}

func (f *Footer) HasFlavor() bool {
	i := f.Index()
	return i >= 0 && i < len(f.Flavors)
}

func (f *Footer) Flavor() string {
	if !f.HasFlavor() {
		return ""
	}
	return f.Flavors[f.index]
}

func (f *Footer) License() string { return LicenseURL }

func (*Footer) Template() string { return "footer" }

func (f *Footer) UseComponents() []Component {
	return []Component{Container{Size: SizeXL}}
}
