package completion

import "context"

type unavailable struct{}

// Unavailable returns a provider that fails every call with ErrUnavailable.
// It never fabricates a reply.
func Unavailable() Provider {
	return unavailable{}
}

func (unavailable) Generate(context.Context, []Turn, Options) (string, error) {
	return "", ErrUnavailable
}

func (unavailable) Ping(context.Context) error {
	return ErrUnavailable
}

func (unavailable) Name() string {
	return "unavailable"
}
