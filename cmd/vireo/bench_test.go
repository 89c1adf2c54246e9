package main

import "testing"

func TestRunBenchRejectsZeroCycles(t *testing.T) {
	if err := runBench(0, 10, 0.2, 1); err == nil {
		t.Fatal("expected error for zero cycles")
	}
	if err := runBench(-5, 10, 0.2, 1); err == nil {
		t.Fatal("expected error for negative cycles")
	}
}

func TestRunBenchRejectsEmptyList(t *testing.T) {
	if err := runBench(10, 0, 0.2, 1); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestRunBenchSmallRun(t *testing.T) {
	if err := runBench(3, 8, 0.5, 1); err != nil {
		t.Fatal(err)
	}
}
