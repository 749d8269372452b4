package storage

// Option configures Put.
type Option func(*putOptions)

type putOptions struct {
	key         string
	contentType string
}

// WithKey stores the blob under key, replacing an existing blob atomically.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithContentType skips content sniffing.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

func newPutOptions(opts []Option) *putOptions {
	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
