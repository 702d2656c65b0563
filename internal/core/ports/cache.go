package ports

import "context"

// ListCache stores serialized list results keyed by entity name.
//
// Every key has a generation that Invalidate advances. Get reports the
// generation it looked under and Set stores under the generation it is
// given, so a list loaded before an invalidation is never served after it.
type ListCache interface {
	Get(ctx context.Context, key string, dst any) (hit bool, gen int64, err error)
	Set(ctx context.Context, key string, gen int64, value any) error
	Invalidate(ctx context.Context, key string) error
}
