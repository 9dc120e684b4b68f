package shared

import (
	"strconv"

	"github.com/mbolaris/simkernel/internal/kernel"
)

// RootSpotAllocator hands out plant root-spot indices and recycles them
// once a plant dies, mirroring core/plant_manager.py's root-spot bookkeeping
// without the full obstacle/L-system placement logic.
type RootSpotAllocator struct {
	next int
	free []int
}

// Allocate returns a free root spot, reusing a released one if available.
func (a *RootSpotAllocator) Allocate() int {
	if n := len(a.free); n > 0 {
		spot := a.free[n-1]
		a.free = a.free[:n-1]
		return spot
	}
	spot := a.next
	a.next++
	return spot
}

// Release returns spot to the free list for reuse by a future plant.
func (a *RootSpotAllocator) Release(spot int) {
	a.free = append(a.free, spot)
}

// FishFoodCollision resolves a collision between a Fish and any of the
// pack's food-like resources, requesting the eaten entity's removal and
// crediting the fish's energy through AddEnergy and then emitting an
// AteFood event on the bus so EnergyLedger records the gain. It is the
// CollisionHandler a tank/petri pack wires into systems.CollisionSystem.
// Grounded on core/collision_system.py's handle_fish_food_collision,
// generalized to any (*Fish, foodlike) pair instead of hard-coding
// PlantNectar vs. ordinary Food as two branches of one method.
func FishFoodCollision(plants *RootSpotAllocator) func(k *kernel.Kernel, subject, candidate kernel.Entity) {
	return func(k *kernel.Kernel, subject, candidate kernel.Entity) {
		fish, ok := subject.(*Fish)
		if !ok || fish.IsDead() {
			return
		}

		switch food := candidate.(type) {
		case *Food:
			if food.IsDead() {
				return
			}
			eatFood(k, fish, food.Nutrition(), "food", food.EntityID)
			food.Consume()
			k.RequestRemove(food, "food_eaten", nil)

		case *LiveFood:
			if food.IsDead() {
				return
			}
			eatFood(k, fish, food.Nutrition(), "live_food", food.EntityID)
			food.Consume()
			k.RequestRemove(food, "food_eaten", nil)

		case *PlantNectar:
			if food.IsDead() {
				return
			}
			eatFood(k, fish, 15, "nectar", food.EntityID)
			food.Consume()
			k.RequestRemove(food, "nectar_eaten", nil)

			if plants != nil && food.SourcePlant() != nil {
				parent := food.SourcePlant()
				px, py := parent.Position()
				spot := plants.Allocate()
				sprout := NewPlant(-1, px, py, spot, 300)
				k.RequestSpawn(sprout, "plant_sprout", nil)
			}
		}
	}
}

func eatFood(k *kernel.Kernel, fish *Fish, nutrition float64, foodType string, idFn func() (int64, bool)) {
	id, _ := idFn()
	fish.AddEnergy(nutrition, foodType)
	events := k.Events()
	if events != nil {
		events.Emit(kernel.AteFood{
			Entity:       fish,
			EnergyGained: nutrition,
			FoodType:     foodType,
			FoodID:       strconv.FormatInt(id, 10),
			AlgorithmID:  "",
		})
	}
}
