package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// copyRowAlignment is the byte alignment WebGPU requires for each row of a texture-to-buffer copy.
const copyRowAlignment = 256

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter

	pipeline        pipeline.Pipeline
	bindGroupLayout *wgpu.BindGroupLayout

	// meshBuffers caches uploaded vertex and index buffers by DepthMesh.Key
	meshBuffers map[string]*wgpuMeshBuffers
}

type wgpuMeshBuffers struct {
	vertex, index *wgpu.Buffer
	vertexCount   int
	indexCount    int
}

func (m *wgpuMeshBuffers) release() {
	m.vertex.Release()
	m.index.Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend requests a headless adapter and device. No surface is created; every
// target is an offscreen texture.
func newWGPURendererBackend(label string, forceFallbackAdapter bool) RendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		meshBuffers: make(map[string]*wgpuMeshBuffers),
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return err
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return err
	}
	defer fs.Release()

	cameraSize := (&camera.GPUCameraUniform{}).Size()
	transformSize := (&GPUMeshTransform{}).Size()
	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: p.PipelineKey() + " Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(cameraSize),
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(transformSize),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		return err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 12,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    p.ColorFormat(),
					WriteMask: p.WriteMask(),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            p.DepthFormat(),
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      p.DepthCompare(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		layout.Release()
		return err
	}

	p.SetRenderPipeline(created)
	b.pipeline = p
	b.bindGroupLayout = layout
	return nil
}

func (b *wgpuRendererBackendImpl) CreateTarget(width, height int) (TargetBackend, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pipeline == nil {
		return nil, errors.New("wgpu backend has no registered pipeline")
	}

	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: 1,
	}
	t := &wgpuTarget{
		backend:     b,
		width:       width,
		height:      height,
		bytesPerRow: alignUp(uint32(width)*4, copyRowAlignment),
	}

	var err error
	t.color, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Pick Color Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        b.pipeline.ColorFormat(),
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create color texture: %w", err)
	}
	t.colorView, err = t.color.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create color texture view: %w", err)
	}

	t.depth, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Pick Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        b.pipeline.DepthFormat(),
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create depth texture: %w", err)
	}
	t.depthView, err = t.depth.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create depth texture view: %w", err)
	}

	t.readback, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Pick Readback Buffer",
		Size:  uint64(t.bytesPerRow) * uint64(height),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create readback buffer: %w", err)
	}
	return t, nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, buffers := range b.meshBuffers {
		buffers.release()
		delete(b.meshBuffers, key)
	}
	if b.bindGroupLayout != nil {
		b.bindGroupLayout.Release()
		b.bindGroupLayout = nil
	}
	b.queue = nil
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// uploadMesh returns GPU buffers for the mesh, reusing cached ones for keyed meshes.
// The bool result reports whether the caller owns the buffers and must release them.
func (b *wgpuRendererBackendImpl) uploadMesh(mesh *DepthMesh) (*wgpuMeshBuffers, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if mesh.Key != "" {
		if cached, ok := b.meshBuffers[mesh.Key]; ok &&
			cached.vertexCount == len(mesh.Positions) && cached.indexCount == len(mesh.Indices) {
			return cached, false, nil
		}
	}

	vertexData := common.SliceToBytes(mesh.Positions)
	indexData := common.SliceToBytes(mesh.Indices)
	vertex, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mesh.Key + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, false, err
	}
	b.queue.WriteBuffer(vertex, 0, vertexData)

	index, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: mesh.Key + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertex.Release()
		return nil, false, err
	}
	b.queue.WriteBuffer(index, 0, indexData)

	buffers := &wgpuMeshBuffers{
		vertex:      vertex,
		index:       index,
		vertexCount: len(mesh.Positions),
		indexCount:  len(mesh.Indices),
	}
	if mesh.Key == "" {
		return buffers, true, nil
	}
	if stale, ok := b.meshBuffers[mesh.Key]; ok {
		stale.release()
	}
	b.meshBuffers[mesh.Key] = buffers
	return buffers, false, nil
}

// uniformBuffer creates a uniform buffer holding data.
func (b *wgpuRendererBackendImpl) uniformBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// wgpuTarget is an offscreen color plus depth texture pair with a mappable readback buffer.
type wgpuTarget struct {
	backend *wgpuRendererBackendImpl

	width, height int
	bytesPerRow   uint32

	color, depth         *wgpu.Texture
	colorView, depthView *wgpu.TextureView
	readback             *wgpu.Buffer

	// Write state, live between Begin and End
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder

	// transient holds per-draw resources released once the pass is submitted
	transientBuffers    []*wgpu.Buffer
	transientBindGroups []*wgpu.BindGroup
}

func (t *wgpuTarget) Begin(clear ClearState) error {
	t.abort()

	encoder, err := t.backend.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    t.colorView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(clear.Red), G: float64(clear.Green), B: float64(clear.Blue), A: float64(clear.Alpha),
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            t.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: clear.Depth,
		},
	})
	pass.SetPipeline(t.backend.pipeline.RenderPipeline())

	t.encoder = encoder
	t.pass = pass
	return nil
}

func (t *wgpuTarget) DrawDepth(uniform camera.GPUCameraUniform, mesh *DepthMesh) error {
	if t.pass == nil {
		return errors.New("wgpu target is not being written")
	}

	buffers, owned, err := t.backend.uploadMesh(mesh)
	if err != nil {
		return fmt.Errorf("failed to upload mesh %q: %w", mesh.Key, err)
	}
	if owned {
		t.transientBuffers = append(t.transientBuffers, buffers.vertex, buffers.index)
	}

	cameraBuf, err := t.backend.uniformBuffer("Pick Camera Uniform", uniform.Marshal())
	if err != nil {
		return fmt.Errorf("failed to create camera uniform: %w", err)
	}
	t.transientBuffers = append(t.transientBuffers, cameraBuf)

	transform := NewGPUMeshTransform(mesh.Model)
	transformBuf, err := t.backend.uniformBuffer("Pick Mesh Transform", transform.Marshal())
	if err != nil {
		return fmt.Errorf("failed to create mesh transform uniform: %w", err)
	}
	t.transientBuffers = append(t.transientBuffers, transformBuf)

	bindGroup, err := t.backend.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Pick Bind Group",
		Layout: t.backend.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: transformBuf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group: %w", err)
	}
	t.transientBindGroups = append(t.transientBindGroups, bindGroup)

	t.pass.SetBindGroup(0, bindGroup, nil)
	t.pass.SetVertexBuffer(0, buffers.vertex, 0, wgpu.WholeSize)
	t.pass.SetIndexBuffer(buffers.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	t.pass.DrawIndexed(uint32(len(mesh.Indices)), 1, 0, 0, 0)
	return nil
}

func (t *wgpuTarget) End() error {
	if t.pass == nil {
		return errors.New("wgpu target is not being written")
	}
	defer t.releaseTransient()

	t.pass.End()
	t.pass.Release()
	t.pass = nil

	t.encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  t.color,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: t.readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  t.bytesPerRow,
				RowsPerImage: uint32(t.height),
			},
		},
		&wgpu.Extent3D{
			Width:              uint32(t.width),
			Height:             uint32(t.height),
			DepthOrArrayLayers: 1,
		},
	)

	commandBuffer, err := t.encoder.Finish(nil)
	if err != nil {
		t.encoder.Release()
		t.encoder = nil
		return err
	}
	t.backend.queue.Submit(commandBuffer)
	commandBuffer.Release()
	t.encoder.Release()
	t.encoder = nil
	return nil
}

func (t *wgpuTarget) ReadRed() ([]float32, error) {
	if t.pass != nil {
		return nil, errors.New("wgpu target is still being written")
	}

	size := uint64(t.bytesPerRow) * uint64(t.height)
	var status wgpu.BufferMapAsyncStatus
	err := t.readback.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, err
	}
	t.backend.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("buffer map status %v", status)
	}
	defer t.readback.Unmap()

	data := t.readback.GetMappedRange(0, uint(size))
	red := make([]float32, t.width*t.height)
	for y := range t.height {
		row := data[uint32(y)*t.bytesPerRow:]
		for x := range t.width {
			red[y*t.width+x] = math.Float32frombits(binary.LittleEndian.Uint32(row[x*4:]))
		}
	}
	return red, nil
}

func (t *wgpuTarget) Release() {
	t.abort()
	if t.readback != nil {
		t.readback.Release()
		t.readback = nil
	}
	if t.depthView != nil {
		t.depthView.Release()
		t.depthView = nil
	}
	if t.depth != nil {
		t.depth.Release()
		t.depth = nil
	}
	if t.colorView != nil {
		t.colorView.Release()
		t.colorView = nil
	}
	if t.color != nil {
		t.color.Release()
		t.color = nil
	}
}

// abort drops a write left open by a draw callback that panicked.
func (t *wgpuTarget) abort() {
	if t.pass != nil {
		t.pass.End()
		t.pass.Release()
		t.pass = nil
	}
	if t.encoder != nil {
		t.encoder.Release()
		t.encoder = nil
	}
	t.releaseTransient()
}

func (t *wgpuTarget) releaseTransient() {
	for _, bg := range t.transientBindGroups {
		bg.Release()
	}
	for _, buf := range t.transientBuffers {
		buf.Release()
	}
	t.transientBindGroups = t.transientBindGroups[:0]
	t.transientBuffers = t.transientBuffers[:0]
}

func alignUp(value, alignment uint32) uint32 {
	return (value + alignment - 1) / alignment * alignment
}
