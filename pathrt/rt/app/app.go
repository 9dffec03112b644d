package app

import (
	"fmt"

	"github.com/gekko3d/progressive/pathrt/rt/asset"
	"github.com/gekko3d/progressive/pathrt/rt/core"
	"github.com/gekko3d/progressive/pathrt/rt/gpu"
	"github.com/gekko3d/progressive/pathrt/rt/logging"
	"github.com/gekko3d/progressive/pathrt/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// App owns the device, the pipelines and the images the kernel writes. It
// implements Backend.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Settings    Config
	Scene       *core.Scene
	Environment *asset.EnvironmentImage
	Sources     shaders.Sources
	Logger      logging.Logger

	ComputePipeline *wgpu.ComputePipeline
	RenderPipeline  *wgpu.RenderPipeline
	FrameLayout     *wgpu.BindGroupLayout
	PresentLayout   *wgpu.BindGroupLayout

	AccumBuf       *wgpu.Buffer
	OutputTexture  *wgpu.Texture
	OutputView     *wgpu.TextureView
	EnvTexture     *wgpu.Texture
	EnvView        *wgpu.TextureView
	Sampler        *wgpu.Sampler
	FrameBindGroup *wgpu.BindGroup
	RenderBG       *wgpu.BindGroup

	BufferManager *gpu.GpuBufferManager

	frame frameState
}

// frameState is the command recording in flight between Dispatch and Swap.
type frameState struct {
	seq     frameSequence
	encoder *wgpu.CommandEncoder
	cPass   *wgpu.ComputePassEncoder
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func NewApp(window *glfw.Window, cfg Config, scene *core.Scene, env *asset.EnvironmentImage, src shaders.Sources, logger logging.Logger) *App {
	return &App{
		Window:      window,
		Settings:    cfg,
		Scene:       scene,
		Environment: env,
		Sources:     src,
		Logger:      logging.OrNop(logger),
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	var err error
	a.Adapter, err = a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Device, err = a.Adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(a.Adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(a.Adapter, a.Device, a.Config)

	a.BufferManager = gpu.NewGpuBufferManager(a.Device, a.Logger)
	if err := a.BufferManager.CreateFrameBuffers(); err != nil {
		return err
	}
	plan, err := gpu.PlanSceneBuffers(a.Scene, gpu.DefaultBindings())
	if err != nil {
		return fmt.Errorf("plan scene buffers: %w", err)
	}
	if err := a.BufferManager.UploadScene(plan); err != nil {
		return err
	}

	if err := a.setupImages(); err != nil {
		return err
	}
	if err := a.setupPipelines(); err != nil {
		return err
	}
	if err := a.setupBindGroups(); err != nil {
		return err
	}

	a.Logger.Infof("device ready: surface %dx%d %v, image %dx%d",
		width, height, a.Config.Format, a.Settings.ImageWidth, a.Settings.ImageHeight)
	return nil
}

func (a *App) setupImages() error {
	w, h := uint32(a.Settings.ImageWidth), uint32(a.Settings.ImageHeight)

	var err error
	a.AccumBuf, err = a.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Accumulation",
		Size:  uint64(w) * uint64(h) * 16,
		Usage: wgpu.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("accumulation buffer: %w", err)
	}

	a.OutputTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Output Tex",
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("output texture: %w", err)
	}
	if a.OutputView, err = a.OutputTexture.CreateView(nil); err != nil {
		return fmt.Errorf("output view: %w", err)
	}

	env := a.Environment
	if env == nil {
		env = asset.Neutral()
	}
	size := wgpu.Extent3D{Width: uint32(env.Width), Height: uint32(env.Height), DepthOrArrayLayers: 1}
	a.EnvTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Environment Tex",
		Size:          size,
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA32Float,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("environment texture: %w", err)
	}
	a.Queue.WriteTexture(a.EnvTexture.AsImageCopy(), wgpu.ToBytes(env.Pix), &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  env.BytesPerRow(),
		RowsPerImage: uint32(env.Height),
	}, &size)
	if a.EnvView, err = a.EnvTexture.CreateView(nil); err != nil {
		return fmt.Errorf("environment view: %w", err)
	}

	a.Sampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	return nil
}

func frameLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    gpu.BindingUniforms,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: gpu.UniformSize,
			},
		},
		{
			Binding:    gpu.BindingAccumulation,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeStorage,
			},
		},
		{
			Binding:    gpu.BindingOutput,
			Visibility: wgpu.ShaderStageCompute,
			StorageTexture: wgpu.StorageTextureBindingLayout{
				Access:        wgpu.StorageTextureAccessWriteOnly,
				Format:        wgpu.TextureFormatRGBA8Unorm,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    gpu.BindingEnvironment,
			Visibility: wgpu.ShaderStageCompute,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
	}
}

func (a *App) setupPipelines() error {
	csModule, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PathTrace CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: a.Sources.PathTrace},
	})
	if err != nil {
		return fmt.Errorf("path trace module: %w", err)
	}
	defer csModule.Release()

	fsModule, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Present VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: a.Sources.Present},
	})
	if err != nil {
		return fmt.Errorf("present module: %w", err)
	}
	defer fsModule.Release()

	a.FrameLayout, err = a.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Frame BGL",
		Entries: frameLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("frame layout: %w", err)
	}

	computeLayout, err := a.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "PathTrace Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{a.FrameLayout, a.BufferManager.SceneLayout},
	})
	if err != nil {
		return fmt.Errorf("path trace layout: %w", err)
	}
	defer computeLayout.Release()

	a.ComputePipeline, err = a.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "PathTrace Pipeline",
		Layout: computeLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     csModule,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("path trace pipeline: %w", err)
	}

	a.PresentLayout, err = a.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Present BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("present layout: %w", err)
	}

	renderLayout, err := a.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Present Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{a.PresentLayout},
	})
	if err != nil {
		return fmt.Errorf("present pipeline layout: %w", err)
	}
	defer renderLayout.Release()

	a.RenderPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Present Pipeline",
		Layout: renderLayout,
		Vertex: wgpu.VertexState{
			Module:     fsModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: gpu.QuadVertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: gpu.QuadUVOffset, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("present pipeline: %w", err)
	}
	return nil
}

func (a *App) setupBindGroups() error {
	var err error
	a.FrameBindGroup, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame BG",
		Layout: a.FrameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: gpu.BindingUniforms, Buffer: a.BufferManager.UniformBuf, Size: gpu.UniformSize},
			{Binding: gpu.BindingAccumulation, Buffer: a.AccumBuf, Size: wgpu.WholeSize},
			{Binding: gpu.BindingOutput, TextureView: a.OutputView},
			{Binding: gpu.BindingEnvironment, TextureView: a.EnvView},
		},
	})
	if err != nil {
		return fmt.Errorf("frame bind group: %w", err)
	}

	a.RenderBG, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Present BG",
		Layout: a.PresentLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.OutputView},
			{Binding: 1, Sampler: a.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("present bind group: %w", err)
	}
	return nil
}

func (a *App) PushUniforms(u gpu.FrameUniforms) error {
	return a.BufferManager.WriteUniforms(u)
}

func (a *App) Dispatch(x, y uint32) error {
	if err := a.frame.seq.dispatch(); err != nil {
		return err
	}
	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.endFrame()
		return err
	}
	a.frame.encoder = encoder

	a.frame.cPass = encoder.BeginComputePass(nil)
	a.frame.cPass.SetPipeline(a.ComputePipeline)
	a.frame.cPass.SetBindGroup(gpu.FrameGroup, a.FrameBindGroup, nil)
	a.frame.cPass.SetBindGroup(gpu.SceneGroup, a.BufferManager.SceneBindGroup, nil)
	a.frame.cPass.DispatchWorkgroups(x, y, 1)
	return nil
}

// Barrier closes the compute pass. Passes on one encoder execute in order, so
// the render pass recorded next sees every kernel write.
func (a *App) Barrier() (err error) {
	defer a.abortOnError(&err)
	if err := a.frame.seq.barrier(); err != nil {
		return err
	}
	err = a.frame.cPass.End()
	a.frame.cPass.Release()
	a.frame.cPass = nil
	if err != nil {
		return fmt.Errorf("compute pass: %w", err)
	}
	return nil
}

func (a *App) Present() (err error) {
	defer a.abortOnError(&err)
	if err := a.frame.seq.present(); err != nil {
		return err
	}

	a.frame.texture, err = a.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("surface texture: %w", err)
	}
	a.frame.view, err = a.frame.texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("surface view: %w", err)
	}

	rPass := a.frame.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       a.frame.view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	defer rPass.Release()
	rPass.SetPipeline(a.RenderPipeline)
	rPass.SetBindGroup(0, a.RenderBG, nil)
	rPass.SetVertexBuffer(0, a.BufferManager.QuadVB, 0, wgpu.WholeSize)
	rPass.SetIndexBuffer(a.BufferManager.QuadIB, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	rPass.DrawIndexed(uint32(len(gpu.ScreenQuadIndices)), 1, 0, 0, 0)
	if err := rPass.End(); err != nil {
		return fmt.Errorf("render pass: %w", err)
	}
	return nil
}

func (a *App) Swap() error {
	defer a.endFrame()
	if err := a.frame.seq.swap(); err != nil {
		return err
	}
	cmd, err := a.frame.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()
	a.Queue.Submit(cmd)
	a.Surface.Present()
	return nil
}

// abortOnError drops the frame in flight when *err is set, leaving the App
// ready for the next Dispatch.
func (a *App) abortOnError(err *error) {
	if *err != nil {
		a.endFrame()
	}
}

func (a *App) endFrame() {
	if a.frame.cPass != nil {
		a.frame.cPass.Release()
	}
	if a.frame.view != nil {
		a.frame.view.Release()
	}
	if a.frame.texture != nil {
		a.frame.texture.Release()
	}
	if a.frame.encoder != nil {
		a.frame.encoder.Release()
	}
	a.frame = frameState{}
}

// Release tears down GPU objects: bind groups, buffers, pipelines and
// textures, then the surface, device, adapter and instance.
func (a *App) Release() {
	a.endFrame()
	for _, bg := range []**wgpu.BindGroup{&a.FrameBindGroup, &a.RenderBG} {
		if *bg != nil {
			(*bg).Release()
			*bg = nil
		}
	}
	if a.BufferManager != nil {
		a.BufferManager.Release()
	}
	if a.AccumBuf != nil {
		a.AccumBuf.Release()
	}
	for _, l := range []*wgpu.BindGroupLayout{a.FrameLayout, a.PresentLayout} {
		if l != nil {
			l.Release()
		}
	}
	if a.ComputePipeline != nil {
		a.ComputePipeline.Release()
	}
	if a.RenderPipeline != nil {
		a.RenderPipeline.Release()
	}
	if a.Sampler != nil {
		a.Sampler.Release()
	}
	for _, v := range []*wgpu.TextureView{a.OutputView, a.EnvView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{a.OutputTexture, a.EnvTexture} {
		if t != nil {
			t.Release()
		}
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Queue != nil {
		a.Queue.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
	a.Logger.Debugf("gpu resources released")
}
