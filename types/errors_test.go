package types_test

import (
	"errors"
	"testing"

	"github.com/tapline-dev/tapline/types"
)

func TestUserCallbackError(t *testing.T) {
	cause := errors.New("boom")
	err := types.NewUserCallbackError(types.KindMap, types.NodeID("n1"), cause)
	if !errors.Is(err, types.ErrUserCallback) {
		t.Fatalf("expected errors.Is ErrUserCallback, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to reach cause, got %v", err)
	}
	if types.NewUserCallbackError(types.KindMap, types.NodeID("n1"), nil) != nil {
		t.Fatal("expected nil for nil cause")
	}
}

func TestStructuralError(t *testing.T) {
	err := types.NewStructuralError("subscribe", "duplicate child")
	if !errors.Is(err, types.ErrStructural) {
		t.Fatalf("expected errors.Is ErrStructural, got %v", err)
	}
}

func TestTimeoutError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := types.NewTimeoutError(cause)
	if !errors.Is(err, types.ErrTimeout) {
		t.Fatalf("expected errors.Is ErrTimeout, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to reach cause, got %v", err)
	}
}
