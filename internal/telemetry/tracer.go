package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/signoffhq/signoff"

// StartApprovalSpan opens a span for one approval operation.
func StartApprovalSpan(ctx context.Context, op, approvalID, orgID string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "approvals."+op,
		trace.WithAttributes(
			attribute.String("approval.id", approvalID),
			attribute.String("org.id", orgID),
		),
	)
	return ctx, span
}

// End closes the span, recording err when set.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
