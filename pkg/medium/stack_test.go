package medium

import (
	"testing"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
)

func createStackMedia(t *testing.T) (Medium, Medium) {
	t.Helper()
	glass, err := NewHomogeneous(core.NewGray(0.1), core.NewGray(0.1), phase.NewIsotropic())
	if err != nil {
		t.Fatalf("NewHomogeneous: %v", err)
	}
	smoke, err := NewHomogeneous(core.NewGray(0.5), core.NewGray(1), phase.NewIsotropic())
	if err != nil {
		t.Fatalf("NewHomogeneous: %v", err)
	}
	return glass, smoke
}

func TestStack_NestedEnterExitBalances(t *testing.T) {
	outer, inner := createStackMedia(t)
	stack := NewStack(nil)

	stack.Transition(outer, -0.5) // enter outer
	stack.Transition(inner, -0.2) // enter inner
	if stack.Depth() != 2 || stack.Top() != inner {
		t.Fatalf("Expected inner on top at depth 2, got depth %d", stack.Depth())
	}
	stack.Transition(inner, 0.3) // exit inner
	if stack.Top() != outer {
		t.Fatal("Expected outer medium after leaving inner")
	}
	stack.Transition(inner, -0.9) // re-enter inner
	stack.Transition(inner, 0.9)  // exit again
	stack.Transition(outer, 0.1)  // exit outer
	if stack.Depth() != 0 || stack.Top() != nil {
		t.Errorf("Expected empty stack, got depth %d", stack.Depth())
	}
}

func TestStack_ReflectionsDoNotChangeStack(t *testing.T) {
	outer, inner := createStackMedia(t)
	stack := NewStack(outer)

	// Reflecting off the inner surface from outside: direction stays outside
	stack.Transition(inner, 0.7)
	if stack.Depth() != 1 || stack.Top() != outer {
		t.Fatal("Expected outside reflection to leave the stack unchanged")
	}

	stack.Transition(inner, -0.7)
	// Total internal reflection: direction points inward while already inside
	stack.Transition(inner, -0.4)
	if stack.Depth() != 2 {
		t.Errorf("Expected internal reflection to keep depth 2, got %d", stack.Depth())
	}
}

func TestStack_SurfaceWithoutMedium(t *testing.T) {
	outer, _ := createStackMedia(t)
	stack := NewStack(outer)
	stack.Transition(nil, -1)
	stack.Transition(nil, 1)
	if stack.Depth() != 1 || stack.Top() != outer {
		t.Error("Expected surfaces without media to leave the stack unchanged")
	}
}

func TestStack_CloneIsIndependent(t *testing.T) {
	outer, inner := createStackMedia(t)
	stack := NewStack(outer)
	clone := stack.Clone()
	clone.Transition(inner, -1)

	if stack.Depth() != 1 {
		t.Errorf("Expected original depth 1, got %d", stack.Depth())
	}
	if clone.Depth() != 2 || clone.Top() != inner {
		t.Errorf("Expected clone to enter inner medium")
	}

	stack.Reset(nil)
	if stack.Top() != nil || stack.Pop() != nil {
		t.Error("Expected empty stack after reset")
	}
}
