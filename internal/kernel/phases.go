package kernel

// runPhaseSystems runs every enabled system declaring phase, in
// registration order, aggregating their results. A panicking system is
// recovered one level up by Pipeline.Run, which aborts the whole tick.
func (k *Kernel) runPhaseSystems(phase Phase) SystemResult {
	total := SystemResult{Skipped: true}
	for _, s := range k.systems.ByPhase(phase) {
		total = total.Add(s.Update(k.frameCount))
	}
	return total
}

func (k *Kernel) runFrameStart(ctx *FrameContext) error {
	k.frameCount++
	k.frameSpawns = nil
	k.frameRemovals = nil
	k.frameEnergyDeltas = nil

	k.runPhaseSystems(PhaseFrameStart)
	k.commit()
	return nil
}

func (k *Kernel) runTimeUpdate(ctx *FrameContext) error {
	for _, s := range k.systems.ByPhase(PhaseTimeUpdate) {
		s.Update(k.frameCount)
		if tp, ok := s.(TimeProvider); ok {
			ctx.TimeModifier = tp.TimeModifier()
			ctx.TimeOfDay = tp.TimeOfDay()
		}
	}
	k.commit()
	return nil
}

func (k *Kernel) runEnvironment(ctx *FrameContext) error {
	k.runPhaseSystems(PhaseEnvironment)
	if k.env != nil {
		k.env.UpdateDetectionModifier()
	}
	k.commit()
	return nil
}

func (k *Kernel) runEntityAct(ctx *FrameContext) error {
	width, height := k.config.Display.Width, k.config.Display.Height

	k.entities.LockMutations(string(PhaseEntityAct))
	defer k.entities.UnlockMutations()

	snapshot := k.entities.All()
	for _, e := range snapshot {
		if e.IsDead() {
			continue
		}

		result := e.Update(k.frameCount, ctx.TimeModifier, ctx.TimeOfDay)
		e.ConstrainToBounds(width, height)

		for _, spawned := range result.Spawned {
			decision := k.hooks.OnEntitySpawned(k, spawned, e)
			if decision.Accept {
				ctx.actSpawns = append(ctx.actSpawns, decision.Entity)
			}
		}
	}

	for _, e := range snapshot {
		if !e.IsDead() {
			continue
		}
		if k.queue.IsPendingRemoval(e) {
			continue
		}
		if k.hooks.OnEntityDied(k, e) {
			ctx.actDeaths = append(ctx.actDeaths, e)
		}
	}

	return nil
}

func (k *Kernel) runLifecycle(ctx *FrameContext) error {
	for _, spawned := range ctx.actSpawns {
		k.queue.RequestSpawn(spawned, "entity_act_spawn", nil)
	}
	for _, dead := range ctx.actDeaths {
		k.queue.RequestRemove(dead, "death", nil)
	}

	k.runPhaseSystems(PhaseLifecycle)
	k.hooks.OnLifecycleCleanup(k)
	k.commit()
	return nil
}

func (k *Kernel) runSpawn(ctx *FrameContext) error {
	k.runPhaseSystems(PhaseSpawn)
	k.commit()

	for _, e := range k.entities.All() {
		k.spatial.Update(e)
		if k.env != nil {
			k.env.UpdateAgentPosition(e)
		}
	}
	return nil
}

func (k *Kernel) runCollision(ctx *FrameContext) error {
	k.runPhaseSystems(PhaseCollision)
	k.commit()
	return nil
}

func (k *Kernel) runInteraction(ctx *FrameContext) error {
	k.runPhaseSystems(PhaseInteraction)
	k.runPhaseSystems(PhaseInteractionProximity)
	k.commit()
	return nil
}

func (k *Kernel) runReproduction(ctx *FrameContext) error {
	k.runPhaseSystems(PhaseReproduction)
	k.commit()
	k.hooks.OnReproductionComplete(k)
	return nil
}

func (k *Kernel) runFrameEnd(ctx *FrameContext) error {
	k.hooks.OnFrameEnd(k)

	live := make(map[Handle]struct{}, k.entities.Len())
	for _, e := range k.entities.All() {
		live[e.Handle()] = struct{}{}
	}
	k.identity.PruneStaleIDs(live)

	if k.entities.IsDirty() {
		k.entities.RebuildViews()
	}

	k.recordEntityMetrics()
	k.metrics.IncFrameCompleted()

	// Commit completeness (spec §8, universal invariant 2) is checked on
	// every tick, not gated behind EnablePhaseDebug: a leaked mutation
	// request is a caller bug the kernel must always surface, never a
	// debug-only nicety. EnablePhaseDebug is reserved for the heavier,
	// genuinely optional drift assertions (spatial index / identity
	// provider cross-checks) a debug build may add on top of this.
	if k.queue.PendingSpawnCount() > 0 || k.queue.PendingRemovalCount() > 0 {
		return ErrInvariantViolation
	}

	return nil
}

func (k *Kernel) recordEntityMetrics() {
	counts := make(map[string]int)
	for _, e := range k.entities.All() {
		counts[typeTagOf(e)]++
	}
	for tag, count := range counts {
		k.metrics.SetEntitiesAlive(tag, float64(count))
	}
}

// TimeProvider is an optional capability a TIME_UPDATE-phase system may
// implement so its computed time modifier and time-of-day reach the
// current FrameContext.
type TimeProvider interface {
	TimeModifier() float64
	TimeOfDay() float64
}
