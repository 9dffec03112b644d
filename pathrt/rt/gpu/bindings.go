package gpu

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gekko3d/progressive/pathrt/rt/core"
)

// Bind group indices shared with the kernel.
const (
	FrameGroup = 0
	SceneGroup = 1
)

// Bindings inside FrameGroup.
const (
	BindingUniforms     = 0
	BindingAccumulation = 1
	BindingOutput       = 2
	BindingEnvironment  = 3
)

var (
	ErrBindingCollision = errors.New("gpu: binding slot collision")
	ErrBindingMissing   = errors.New("gpu: binding slot missing")
)

// BindingTable assigns each scene category a slot in SceneGroup.
type BindingTable map[Category]uint32

// DefaultBindings is the slot assignment compiled into the kernel.
func DefaultBindings() BindingTable {
	return BindingTable{
		CategoryLights:    5,
		CategorySpheres:   6,
		CategoryQuads:     7,
		CategoryTriangles: 8,
	}
}

// Validate rejects tables that omit a category or give two categories one slot.
func (t BindingTable) Validate() error {
	used := make(map[uint32]Category, len(t))
	for _, c := range Categories {
		slot, ok := t[c]
		if !ok {
			return fmt.Errorf("%w: %s", ErrBindingMissing, c)
		}
		if other, dup := used[slot]; dup {
			return fmt.Errorf("%w: %s and %s both use slot %d", ErrBindingCollision, other, c, slot)
		}
		used[slot] = c
	}
	return nil
}

// Slots returns the table's slots in ascending order.
func (t BindingTable) Slots() []uint32 {
	slots := make([]uint32, 0, len(t))
	for _, s := range t {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// SceneBuffer is one marshaled category ready for upload.
type SceneBuffer struct {
	Category Category
	Binding  uint32
	Label    string
	Count    int
	Padded   bool
	Data     []byte
}

// ScenePlan is the full one-shot upload for a scene.
type ScenePlan struct {
	Scene   *core.Scene
	Buffers []SceneBuffer
}

func (p *ScenePlan) TotalBytes() int {
	n := 0
	for _, b := range p.Buffers {
		n += len(b.Data)
	}
	return n
}

// PlanSceneBuffers marshals every category of s and validates the result
// against table. Nothing is sent to the GPU.
func PlanSceneBuffers(s *core.Scene, table BindingTable) (*ScenePlan, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	plan := &ScenePlan{Scene: s}
	for _, c := range Categories {
		data, count, padded := marshalCategory(s, c)
		if err := validateStream(c, data, count); err != nil {
			return nil, err
		}
		plan.Buffers = append(plan.Buffers, SceneBuffer{
			Category: c,
			Binding:  table[c],
			Label:    fmt.Sprintf("%s %s", c, s.ID),
			Count:    count,
			Padded:   padded,
			Data:     data,
		})
	}
	return plan, nil
}
