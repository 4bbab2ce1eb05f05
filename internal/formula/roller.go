package formula

import (
	"math/rand"
	"time"
)

// Roller is the source of randomness for crits and spawns.
// *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

// NewRoller returns a time-seeded Roller.
func NewRoller() Roller {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// FixedRoller always returns the same values. Useful for forcing or
// suppressing crits and picking a specific monster template.
type FixedRoller struct {
	F float64
	I int
}

func (r FixedRoller) Float64() float64 { return r.F }

func (r FixedRoller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.I % n
}
