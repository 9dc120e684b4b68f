package kernel

// PipelineStep is one named phase function. fn receives the kernel and the
// tick's FrameContext; returning a non-nil error aborts the tick.
type PipelineStep struct {
	Name Phase
	Fn   func(k *Kernel, ctx *FrameContext) error
}

// Pipeline is a fixed, ordered list of phase steps. Run executes each step
// against the kernel, propagating the first error encountered.
type Pipeline struct {
	Steps []PipelineStep
}

// Run executes every step in order against a fresh FrameContext, setting
// k.currentPhase before each step and clearing it after the last one.
func (p *Pipeline) Run(k *Kernel) error {
	ctx := &FrameContext{TimeModifier: 1.0, TimeOfDay: 0.5}

	for _, step := range p.Steps {
		phase := step.Name
		k.currentPhase = &phase

		if err := runStepSafely(step, k, ctx); err != nil {
			k.currentPhase = nil
			return err
		}
	}

	k.currentPhase = nil
	return nil
}

// runStepSafely recovers a panicking system so the kernel can still reset
// currentPhase and surface a diagnosable ErrSystemFailure, matching the
// source's "the frame is not atomic; this is a fatal error" policy.
func runStepSafely(step PipelineStep, k *Kernel, ctx *FrameContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapSystemFailure(step.Name, r)
		}
	}()
	return step.Fn(k, ctx)
}

// DefaultPipeline returns the canonical ten-phase pipeline described in
// SPEC_FULL.md §4.2.
func DefaultPipeline() *Pipeline {
	return &Pipeline{Steps: []PipelineStep{
		{Name: PhaseFrameStart, Fn: (*Kernel).runFrameStart},
		{Name: PhaseTimeUpdate, Fn: (*Kernel).runTimeUpdate},
		{Name: PhaseEnvironment, Fn: (*Kernel).runEnvironment},
		{Name: PhaseEntityAct, Fn: (*Kernel).runEntityAct},
		{Name: PhaseLifecycle, Fn: (*Kernel).runLifecycle},
		{Name: PhaseSpawn, Fn: (*Kernel).runSpawn},
		{Name: PhaseCollision, Fn: (*Kernel).runCollision},
		{Name: PhaseInteraction, Fn: (*Kernel).runInteraction},
		{Name: PhaseReproduction, Fn: (*Kernel).runReproduction},
		{Name: PhaseFrameEnd, Fn: (*Kernel).runFrameEnd},
	}}
}
