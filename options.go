package deepclone

// DefaultTagName is the struct tag read by the reflection cloner.
//
//	type Session struct {
//	    ID     string
//	    Cache  map[string][]byte `clone:"-"`       // zero in clones, untouched by CloneFrom
//	    Logger *log.Logger       `clone:"shallow"` // copied by assignment
//	}
const DefaultTagName = "clone"

// Tag directive values.
const (
	tagSkip    = "-"
	tagShallow = "shallow"
)

// MapOption configures map and set cloners.
type MapOption func(*mapConfig)

type mapConfig struct {
	rebuild bool
}

// Rebuild makes CloneFrom clear the receiving map and repopulate it with
// clones of every source entry, instead of matching entries by key and
// syncing matched values in place. The result is the same; only the
// allocation behaviour differs.
func Rebuild() MapOption {
	return func(c *mapConfig) {
		c.rebuild = true
	}
}

func applyMapOptions(opts []MapOption) mapConfig {
	var c mapConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures the reflection cloner returned by Of.
type Option func(*options)

// options is comparable so it can key the plan registry.
type options struct {
	tagName string
	rebuild bool
}

// WithTagName reads clone directives from the named struct tag instead of
// DefaultTagName.
func WithTagName(name string) Option {
	return func(o *options) {
		o.tagName = name
	}
}

// WithMapOptions applies map options to every map the reflection cloner
// reaches.
func WithMapOptions(opts ...MapOption) Option {
	return func(o *options) {
		o.rebuild = applyMapOptions(opts).rebuild
	}
}

func applyOptions(opts []Option) options {
	o := options{tagName: DefaultTagName}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tagName == "" {
		o.tagName = DefaultTagName
	}
	return o
}
