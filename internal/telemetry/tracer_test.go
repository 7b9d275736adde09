package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	old := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(old) })
	return rec
}

func TestStartApprovalSpanRecordsAttributes(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartApprovalSpan(context.Background(), "create", "a1", "org1")
	End(span, nil)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans", len(spans))
	}
	if got := spans[0].Name(); got != "approvals.create" {
		t.Fatalf("span name %q", got)
	}
	found := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		found[string(kv.Key)] = kv.Value.AsString()
	}
	if found["approval.id"] != "a1" || found["org.id"] != "org1" {
		t.Fatalf("attributes %v", found)
	}
	if spans[0].Status().Code == codes.Error {
		t.Fatal("clean span marked as error")
	}
}

func TestEndRecordsError(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartApprovalSpan(context.Background(), "action.approve", "a2", "org1")
	End(span, errors.New("version conflict"))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("status %v", spans[0].Status())
	}
	if len(spans[0].Events()) == 0 {
		t.Fatal("error not recorded as span event")
	}
}
