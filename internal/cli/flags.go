package cli

import (
	"time"

	"poscheck/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Modules  []string
	Timeout  time.Duration
	Interval time.Duration
	Limit    int
	CI       bool
	Format   string
	Output   string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Modules:  f.Modules,
		Timeout:  f.Timeout,
		Interval: f.Interval,
		Limit:    f.Limit,
		CI:       f.CI,
		Format:   f.Format,
		Output:   f.Output,
	}
}
