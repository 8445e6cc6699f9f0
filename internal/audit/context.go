package audit

import (
	"context"

	"github.com/mrlokans/library/internal/entities"
)

type requestInfoKey struct{}

// RequestInfo identifies the client that triggered an audited action.
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// WithRequestInfo attaches client details to ctx so audit events can carry them.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFrom returns the client details attached to ctx, if any.
func RequestInfoFrom(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}

func applyRequestInfo(ctx context.Context, event *entities.AuditEvent) {
	info, ok := RequestInfoFrom(ctx)
	if !ok {
		return
	}
	if event.IPAddress == "" {
		event.IPAddress = info.IPAddress
	}
	if event.UserAgent == "" {
		event.UserAgent = truncate(info.UserAgent, 500)
	}
}
