package audit

import "context"

type requestMetaKey struct{}

// RequestMeta carries the transport details stamped onto audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta seeds the context with the caller's transport details.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom extracts transport details previously stored by middleware.
func RequestMetaFrom(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta, ok
}
