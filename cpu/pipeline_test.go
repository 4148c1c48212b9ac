package cpu

import "testing"

func TestPipelineRunsInOrder(t *testing.T) {
	var p Pipeline
	var order []int
	p.PushFunc(func() { order = append(order, 1) })
	p.PushFunc(func() { order = append(order, 2) })
	p.PushFunc(func() { order = append(order, 3) })

	for !p.Done() {
		p.Tick()
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("steps ran in order %v, wanted [1 2 3]", order)
	}
}

func TestPipelineStopDiscardsRemaining(t *testing.T) {
	var p Pipeline
	ran := 0
	p.Push(func() Status { ran++; return StatusStop })
	p.PushFunc(func() { ran++ })
	p.PushFunc(func() { ran++ })

	p.Tick()
	if !p.Done() {
		t.Errorf("pipeline not drained after a Stop step")
	}
	if ran != 1 {
		t.Errorf("ran = %d steps, wanted 1 (Stop should discard the rest)", ran)
	}
}

func TestPipelineSkipDropsNextStep(t *testing.T) {
	var p Pipeline
	var order []int
	p.Push(func() Status { order = append(order, 1); return StatusSkip })
	p.PushFunc(func() { order = append(order, 2) })
	p.PushFunc(func() { order = append(order, 3) })

	for !p.Done() {
		p.Tick()
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("order = %v, wanted [1 3] (step 2 skipped)", order)
	}
}

