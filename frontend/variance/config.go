package variance

import "runtime"

type Config struct {
	// Parallelism bounds how many items have their constraints generated concurrently.
	// Values below 1 mean GOMAXPROCS
	Parallelism int
	// ConstInvariant forces every const parameter to Invariant once solved
	ConstInvariant bool
	// UnusedFnParamsInvariant turns the Bivariant parameters of functions
	// and constructors into Invariant ones once solved
	UnusedFnParamsInvariant bool
}

func DefaultConfig() Config {
	return Config{
		Parallelism:    runtime.GOMAXPROCS(0),
		ConstInvariant: true,
	}
}

func (c Config) parallelism() int {
	if c.Parallelism < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Parallelism
}
