package gpu

import (
	"errors"
	"fmt"

	"github.com/gekko3d/progressive/pathrt/rt/logging"

	"github.com/cogentcore/webgpu/wgpu"
)

var ErrSceneAlreadyUploaded = errors.New("gpu: scene buffers already uploaded")

// GpuBufferManager owns the uniform, quad and scene buffers. Scene buffers are
// created once and never written again.
type GpuBufferManager struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	Logger logging.Logger

	UniformBuf *wgpu.Buffer
	QuadVB     *wgpu.Buffer
	QuadIB     *wgpu.Buffer

	SceneBuffers   map[Category]*wgpu.Buffer
	SceneLayout    *wgpu.BindGroupLayout
	SceneBindGroup *wgpu.BindGroup

	Plan *ScenePlan
}

func NewGpuBufferManager(device *wgpu.Device, logger logging.Logger) *GpuBufferManager {
	return &GpuBufferManager{
		Device:       device,
		Queue:        device.GetQueue(),
		Logger:       logging.OrNop(logger),
		SceneBuffers: make(map[Category]*wgpu.Buffer),
	}
}

// CreateFrameBuffers allocates the per-frame uniform buffer and the static
// presentation quad.
func (m *GpuBufferManager) CreateFrameBuffers() error {
	var err error
	m.UniformBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniforms",
		Size:  UniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer: %w", err)
	}

	m.QuadVB, err = m.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Screen Quad VB",
		Contents: wgpu.ToBytes(ScreenQuadVertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("quad vertex buffer: %w", err)
	}

	m.QuadIB, err = m.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Screen Quad IB",
		Contents: wgpu.ToBytes(ScreenQuadIndices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return fmt.Errorf("quad index buffer: %w", err)
	}
	return nil
}

// WriteUniforms is the small per-frame transfer.
func (m *GpuBufferManager) WriteUniforms(u FrameUniforms) error {
	if m.UniformBuf == nil {
		return errors.New("gpu: uniform buffer not created")
	}
	return m.Queue.WriteBuffer(m.UniformBuf, 0, u.Bytes())
}

// SceneLayoutEntries describes the scene bind group for plan: one read-only
// storage buffer per category at its fixed slot.
func SceneLayoutEntries(plan *ScenePlan) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(plan.Buffers))
	for _, b := range plan.Buffers {
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeReadOnlyStorage,
				MinBindingSize: uint64(b.Category.Stride()),
			},
		})
	}
	return entries
}

// UploadScene creates the scene buffers in a single transfer each and binds
// them. It may run once per manager.
func (m *GpuBufferManager) UploadScene(plan *ScenePlan) error {
	if m.Plan != nil {
		return ErrSceneAlreadyUploaded
	}

	var err error
	m.SceneLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Scene BGL",
		Entries: SceneLayoutEntries(plan),
	})
	if err != nil {
		return fmt.Errorf("scene layout: %w", err)
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(plan.Buffers))
	for _, b := range plan.Buffers {
		// No CopyDst: the buffer cannot be rewritten after creation.
		buf, err := m.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    b.Label,
			Contents: b.Data,
			Usage:    wgpu.BufferUsageStorage,
		})
		if err != nil {
			return fmt.Errorf("scene buffer %s: %w", b.Category, err)
		}
		m.SceneBuffers[b.Category] = buf
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: b.Binding,
			Buffer:  buf,
			Size:    wgpu.WholeSize,
		})
		m.Logger.Debugf("uploaded %s: %d records, %d bytes at binding %d (padded=%v)",
			b.Category, b.Count, len(b.Data), b.Binding, b.Padded)
	}

	m.SceneBindGroup, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Scene BG",
		Layout:  m.SceneLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("scene bind group: %w", err)
	}

	m.Plan = plan
	m.Logger.Infof("scene %s uploaded (%d bytes)", plan.Scene.ID, plan.TotalBytes())
	return nil
}

// Release frees bind groups before the buffers they reference, then the
// manager's own queue handle. It is safe to call more than once.
func (m *GpuBufferManager) Release() {
	if m.SceneBindGroup != nil {
		m.SceneBindGroup.Release()
		m.SceneBindGroup = nil
	}
	if m.SceneLayout != nil {
		m.SceneLayout.Release()
		m.SceneLayout = nil
	}
	for c, b := range m.SceneBuffers {
		b.Release()
		delete(m.SceneBuffers, c)
	}
	for _, b := range []**wgpu.Buffer{&m.UniformBuf, &m.QuadVB, &m.QuadIB} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	if m.Queue != nil {
		m.Queue.Release()
		m.Queue = nil
	}
}
