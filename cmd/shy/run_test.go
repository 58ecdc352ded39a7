package main

import (
	"testing"

	"github.com/wudi/shy/engine"
)

func TestInferScalarRecognizesBooleans(t *testing.T) {
	if !inferScalar("true").Bool() {
		t.Fatalf("expected true")
	}
	if inferScalar("false").Bool() {
		t.Fatalf("expected false")
	}
}

func TestInferScalarRecognizesNumbers(t *testing.T) {
	if got := inferScalar("42"); !got.IsInteger() || got.Int() != 42 {
		t.Fatalf("expected integer 42, got %v", got)
	}
	if got := inferScalar("3.5"); !got.IsRational() || got.Float() != 3.5 {
		t.Fatalf("expected rational 3.5, got %v", got)
	}
}

func TestInferScalarFallsBackToString(t *testing.T) {
	got := inferScalar("Honda")
	if !got.IsString() || got.Str() != "Honda" {
		t.Fatalf("expected string Honda, got %v", got)
	}
}

func TestApplyAssignmentStoresDottedPath(t *testing.T) {
	ctx := engine.NewContext()
	if err := applyAssignment(ctx, "car.age=10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := ctx.LoadChain([]string{"car", "age"})
	if !ok || v.Int() != 10 {
		t.Fatalf("expected car.age=10, got %v ok=%v", v, ok)
	}
}

func TestApplyAssignmentRejectsMissingEquals(t *testing.T) {
	ctx := engine.NewContext()
	if err := applyAssignment(ctx, "car.age"); err == nil {
		t.Fatalf("expected error for missing '='")
	}
}
