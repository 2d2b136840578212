package programmer

// Config holds the programming options.
type Config struct {
	// ProgressCallback is called after every page (optional).
	ProgressCallback ProgressCallback

	// Verify reads every written page back and compares it with the image.
	Verify bool

	// Cache is invalidated once the image is in flash so instruction fetches
	// see the new code (optional).
	Cache Invalidator
}

func defaultConfig() Config {
	return Config{Verify: true}
}

// Option is a functional option for Program.
type Option func(*Config)

// WithProgress sets a callback to track programming progress.
//
// Example:
//
//	err := programmer.Program(ctx, fc, addr, img,
//	    programmer.WithProgress(func(p programmer.Progress) {
//	        fmt.Printf("[%s] page %d/%d\n", p.Phase, p.Page, p.TotalPages)
//	    }),
//	)
func WithProgress(cb ProgressCallback) Option {
	return func(c *Config) { c.ProgressCallback = cb }
}

// WithVerify enables or disables read-back verification. Default is true.
func WithVerify(verify bool) Option {
	return func(c *Config) { c.Verify = verify }
}

// WithCache invalidates inv after a successful program.
func WithCache(inv Invalidator) Option {
	return func(c *Config) { c.Cache = inv }
}
