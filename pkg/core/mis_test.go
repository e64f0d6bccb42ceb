package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestBalanceHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		pdfA     float64
		pdfB     float64
		expected float64
	}{
		{name: "Equal PDFs", pdfA: 0.5, pdfB: 0.5, expected: 0.5},
		{name: "First PDF zero", pdfA: 0.0, pdfB: 0.5, expected: 0.0},
		{name: "Second PDF zero", pdfA: 0.5, pdfB: 0.0, expected: 1.0},
		{name: "First PDF higher", pdfA: 0.8, pdfB: 0.2, expected: 0.8},
		{name: "Unnormalized PDFs", pdfA: 3.0, pdfB: 9.0, expected: 0.25},
		{name: "Underflowing sum", pdfA: 1e-10, pdfB: 1e-10, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BalanceHeuristic(tt.pdfA, tt.pdfB)
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("BalanceHeuristic: got %f, expected %f", result, tt.expected)
			}
		})
	}
}

func TestRussianRoulette_ZeroThroughputNeverContinues(t *testing.T) {
	for _, u := range []float64{0, 0.001, 0.5} {
		if ok, _ := RussianRoulette(NewVec3(0, 0, 0), u); ok {
			t.Errorf("Expected termination for zero throughput at u=%f", u)
		}
		if ok, _ := RussianRoulette(NewVec3(-1, 0, -2), u); ok {
			t.Errorf("Expected termination for negative throughput at u=%f", u)
		}
	}
	if ok, _ := RussianRoulette(NewVec3(math.NaN(), 0, 0), 0); ok {
		t.Error("Expected termination for NaN throughput")
	}
}

func TestRussianRoulette_ProbabilityClamped(t *testing.T) {
	_, p := RussianRoulette(NewVec3(5, 0.1, 0.2), 0.5)
	if p != 0.99 {
		t.Errorf("Expected continuation probability 0.99, got %f", p)
	}
	_, p = RussianRoulette(NewVec3(0.1, 0.3, 0.2), 0.5)
	if p != 0.3 {
		t.Errorf("Expected continuation probability 0.3, got %f", p)
	}
}

func TestRussianRoulette_Unbiased(t *testing.T) {
	throughputs := []Vec3{
		NewVec3(0.2, 0.1, 0.05),
		NewVec3(0.5, 0.5, 0.5),
		NewVec3(0.9, 0.3, 0.7),
		NewVec3(2.0, 1.0, 0.5),
	}
	random := rand.New(rand.NewSource(42))
	const trials = 200000

	for _, throughput := range throughputs {
		var sum Vec3
		for i := 0; i < trials; i++ {
			if ok, p := RussianRoulette(throughput, random.Float64()); ok {
				sum = sum.Add(throughput.Multiply(1 / p))
			}
		}
		mean := sum.Multiply(1.0 / trials)
		for axis := 0; axis < 3; axis++ {
			expected := throughput.Component(axis)
			if math.Abs(mean.Component(axis)-expected) > 0.02*expected+1e-3 {
				t.Errorf("Expected mean %v for throughput %v, got %v", expected, throughput, mean)
			}
		}
	}
}
