package cpu

// Status is the result a pipeline Step reports back to its Pipeline.
//
// Grounded on original_source/core/src/detail/pipeline.h's Pipeline::Status:
// Continue runs the next queued step on the following Tick, Skip discards
// the next queued step without running it, and Stop discards every
// remaining step immediately. The CPU itself only queues Continue steps
// (via PushFunc): page-cross and branch penalties are sized at decode time
// instead.
type Status uint8

const (
	StatusContinue Status = iota
	StatusSkip
	StatusStop
)

// Step is one clock cycle of work. It returns the Status that tells the
// Pipeline how to proceed.
type Step func() Status

// Pipeline is a FIFO queue of Steps, ticked one per CPU cycle. It is how the
// CPU executes an instruction over its real cycle count instead of
// instantaneously, so the PPU and OAM DMA engine observe every intermediate
// cycle.
type Pipeline struct {
	steps []Step
}

// Push appends step to the end of the queue.
func (p *Pipeline) Push(step Step) {
	p.steps = append(p.steps, step)
}

// PushFunc appends a plain cycle of work that always continues.
func (p *Pipeline) PushFunc(f func()) {
	p.Push(func() Status {
		f()
		return StatusContinue
	})
}

// Done reports whether the queue is empty.
func (p *Pipeline) Done() bool { return len(p.steps) == 0 }

// Clear discards every queued step.
func (p *Pipeline) Clear() { p.steps = nil }

// Tick executes the front step and advances the queue.
func (p *Pipeline) Tick() {
	if len(p.steps) == 0 {
		return
	}
	step := p.steps[0]
	p.steps = p.steps[1:]
	switch step() {
	case StatusStop:
		p.Clear()
	case StatusSkip:
		if len(p.steps) > 0 {
			p.steps = p.steps[1:]
		}
	}
}
