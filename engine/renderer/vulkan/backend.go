package vulkan

import (
	"errors"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/renderer"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// frameTimeout bounds how long a frame waits for a fence or an image before
// reporting a timeout.
const frameTimeout = uint64(time.Second)

// Display is the window side of the renderer: it owns the native handle the
// presentable surface is created from.
type Display interface {
	// AttachToDisplay creates a presentable surface for instance.
	AttachToDisplay(instance vk.Instance) (vk.Surface, error)
	// InitialSize returns the drawable size in pixels.
	InitialSize() (uint32, uint32)
	// RequiredInstanceExtensions lists the instance extensions the window
	// system needs.
	RequiredInstanceExtensions() []string
}

type VulkanRenderer struct {
	display     Display
	appName     string
	debug       bool
	frameNumber uint64
	context     *VulkanContext

	surface surfaceState
}

func New(display Display, appName string, debug bool) *VulkanRenderer {
	return &VulkanRenderer{
		display: display,
		appName: appName,
		debug:   debug,
		context: &VulkanContext{
			Allocator: nil,
			Device: &VulkanDevice{
				GraphicsQueueIndex: -1,
				PresentQueueIndex:  -1,
			},
		},
	}
}

// Context exposes the device state that GPU resources are created against.
func (vr *VulkanRenderer) Context() *VulkanContext {
	return vr.context
}

// Size reports the size of the last Configure request.
func (vr *VulkanRenderer) Size() (uint32, uint32) {
	return vr.surface.width, vr.surface.height
}

// Initialize creates the instance, surface, device, main renderpass and
// per-frame sync objects, then configures the swapchain at the display's
// initial size.
func (vr *VulkanRenderer) Initialize() error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return fmt.Errorf("%w: GetInstanceProcAddress is nil", core.ErrVulkanInit)
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		return fmt.Errorf("%w: %s", core.ErrVulkanInit, err)
	}

	if err := vr.createInstance(); err != nil {
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	// Debugger
	if vr.debug {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if res := vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, vr.context.Allocator, &dbg); res != vk.Success {
			core.LogWarn("Vulkan debugger unavailable: %s", VulkanResultString(res))
		} else {
			vr.context.debugCallback = dbg
			core.LogDebug("Vulkan debugger created.")
		}
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.display.AttachToDisplay(vr.context.Instance)
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrVulkanInit, err)
	}
	vr.context.Surface = surface
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		return err
	}

	// The renderpass outlives swapchain rebuilds, so it takes its format from
	// the surface rather than from a swapchain.
	format := chooseSurfaceFormat(vr.context.Device.SwapchainSupport.Formats)
	rp, err := RenderpassCreate(vr.context, format.Format)
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp

	if err := vr.createSyncObjects(); err != nil {
		return err
	}

	width, height := vr.display.InitialSize()
	if width == 0 || height == 0 {
		core.LogDebug("Window has no drawable area yet, deferring swapchain creation.")
	} else if err := vr.Configure(width, height); err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance() error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(vr.appName),
		PEngineName:        VulkanSafeString("Planogram"),
	}

	extensions := instanceExtensions(vr.display.RequiredInstanceExtensions(), vr.debug)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensions),
	}
	if runtime.GOOS == "darwin" {
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}
	for _, ext := range extensions {
		core.LogDebug("Required extension: %s", ext)
	}

	if vr.debug {
		core.LogInfo("Validation layers enabled. Enumerating...")
		found, err := hasInstanceLayer(validationLayer)
		if err != nil {
			return err
		}
		if found {
			layers := []string{validationLayer}
			createInfo.EnabledLayerCount = uint32(len(layers))
			createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)
		} else {
			core.LogWarn("Validation layer %s is missing, continuing without it.", validationLayer)
		}
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &instance); res != vk.Success {
		return fmt.Errorf("%w: %s", core.ErrVulkanInit, resultError("vkCreateInstance", res))
	}
	vr.context.Instance = instance
	if err := vk.InitInstance(instance); err != nil {
		return fmt.Errorf("%w: %s", core.ErrVulkanInit, err)
	}
	return nil
}

func hasInstanceLayer(name string) (bool, error) {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return false, resultError("vkEnumerateInstanceLayerProperties", res)
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return false, resultError("vkEnumerateInstanceLayerProperties", res)
	}
	for i := range available {
		available[i].Deref()
		if cString(available[i].LayerName[:]) == name {
			return true, nil
		}
	}
	return false, nil
}

func (vr *VulkanRenderer) createSyncObjects() error {
	vr.context.ImageAvailableSemaphores = make([]vk.Semaphore, maxFramesInFlight)
	vr.context.QueueCompleteSemaphores = make([]vk.Semaphore, maxFramesInFlight)
	vr.context.InFlightFences = make([]*VulkanFence, maxFramesInFlight)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := 0; i < maxFramesInFlight; i++ {
		var imageAvailable, queueComplete vk.Semaphore
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &imageAvailable); res != vk.Success {
			return resultError("vkCreateSemaphore", res)
		}
		vr.context.ImageAvailableSemaphores[i] = imageAvailable

		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &queueComplete); res != vk.Success {
			return resultError("vkCreateSemaphore", res)
		}
		vr.context.QueueCompleteSemaphores[i] = queueComplete

		// Create the fence in a signaled state, indicating that the first frame has already been "rendered".
		// This will prevent the application from waiting indefinitely for the first frame to render since it
		// cannot be rendered until a frame is "rendered" before it.
		f, err := NewFence(vr.context, true)
		if err != nil {
			return err
		}
		vr.context.InFlightFences[i] = f
	}
	return nil
}

// Configure rebuilds the swapchain, its framebuffers and command buffers for
// a width x height target. A lost surface is recreated first. On failure
// nothing of the previous configuration stays in use and the next
// AcquireFrame retries at this size.
func (vr *VulkanRenderer) Configure(width, height uint32) error {
	if width == 0 || height == 0 {
		return core.ErrZeroSize
	}
	vr.surface.requested(width, height)
	if err := vr.configure(width, height); err != nil {
		vr.surface.failed(err)
		return err
	}
	vr.surface.succeeded()
	core.LogDebug("Surface configured at %dx%d.", width, height)
	return nil
}

func (vr *VulkanRenderer) configure(width, height uint32) error {
	device := vr.context.Device

	// Wait for any operations to complete.
	if res := vk.DeviceWaitIdle(device.LogicalDevice); res != vk.Success {
		return surfaceError("vkDeviceWaitIdle", res)
	}

	if vr.surface.lost {
		if err := vr.recreateSurface(); err != nil {
			return err
		}
	}

	// Requery support
	support, err := DeviceQuerySwapchainSupport(device.PhysicalDevice, vr.context.Surface)
	if err != nil {
		return err
	}
	if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
		return fmt.Errorf("surface reports no formats or present modes")
	}
	if extent := chooseExtent(&support.Capabilities, width, height); extent.Width == 0 || extent.Height == 0 {
		return core.ErrZeroSize
	}
	device.SwapchainSupport = support

	oldHandle := vk.NullSwapchain
	if vr.context.Swapchain != nil {
		oldHandle = vr.context.Swapchain.Handle
	}
	sc, err := SwapchainCreate(vr.context, width, height, oldHandle)
	// The old swapchain is retired either way.
	vr.releaseSwapchain()
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc

	if err := vr.attachSwapchain(sc); err != nil {
		vr.releaseSwapchain()
		return err
	}
	return nil
}

// attachSwapchain creates what each swapchain image needs to be rendered to.
func (vr *VulkanRenderer) attachSwapchain(sc *VulkanSwapchain) error {
	if sc.ImageFormat.Format != vr.context.MainRenderpass.Format {
		return fmt.Errorf("swapchain format %d does not match renderpass format %d", sc.ImageFormat.Format, vr.context.MainRenderpass.Format)
	}
	if err := sc.RegenerateFramebuffers(vr.context, vr.context.MainRenderpass); err != nil {
		return err
	}
	if err := vr.createCommandBuffers(); err != nil {
		return err
	}
	// Fences are owned by InFlightFences; these only point at them.
	vr.context.ImagesInFlight = make([]*VulkanFence, sc.ImageCount)
	return nil
}

// releaseSwapchain destroys the swapchain with its framebuffers and frees the
// per-image command buffers.
func (vr *VulkanRenderer) releaseSwapchain() {
	for _, cb := range vr.context.GraphicsCommandBuffers {
		if cb != nil {
			cb.Free(vr.context, vr.context.Device.GraphicsCommandPool)
		}
	}
	vr.context.GraphicsCommandBuffers = nil
	vr.context.ImagesInFlight = nil

	if vr.context.Swapchain != nil {
		vr.context.Swapchain.Destroy(vr.context)
		vr.context.Swapchain = nil
	}
}

func (vr *VulkanRenderer) recreateSurface() error {
	core.LogDebug("Recreating lost Vulkan surface...")
	vr.releaseSwapchain()
	if vr.context.Surface != vk.NullSurface {
		vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
		vr.context.Surface = vk.NullSurface
	}
	surface, err := vr.display.AttachToDisplay(vr.context.Instance)
	if err != nil {
		return err
	}
	vr.context.Surface = surface
	vr.surface.lost = false
	return nil
}

func (vr *VulkanRenderer) createCommandBuffers() error {
	pool := vr.context.Device.GraphicsCommandPool
	vr.context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, vr.context.Swapchain.ImageCount)
	for i := range vr.context.GraphicsCommandBuffers {
		cb, err := NewVulkanCommandBuffer(vr.context, pool, true)
		if err != nil {
			return err
		}
		vr.context.GraphicsCommandBuffers[i] = cb
	}
	core.LogDebug("Vulkan command buffers created.")
	return nil
}

// AcquireFrame waits for the current frame slot, acquires the next swapchain
// image and starts recording its command buffer.
func (vr *VulkanRenderer) AcquireFrame() (renderer.Frame, error) {
	switch vr.surface.next() {
	case surfaceWait:
		return nil, fmt.Errorf("surface not configured: %w", renderer.SurfaceErrorOutdated)
	case surfaceReportLost:
		return nil, fmt.Errorf("surface awaiting reconfiguration: %w", renderer.SurfaceErrorLost)
	case surfaceReconfigure:
		// Self-heal at the last requested size; a failure surfaces here so
		// the caller can escalate it.
		core.LogDebug("Swapchain outdated, rebuilding at %dx%d.", vr.surface.width, vr.surface.height)
		if err := vr.Configure(vr.surface.width, vr.surface.height); err != nil {
			if errors.Is(err, core.ErrZeroSize) {
				// Minimized: keep retrying until the window has an area again.
				return nil, fmt.Errorf("window has no drawable area: %w", renderer.SurfaceErrorOutdated)
			}
			return nil, err
		}
	}

	// Wait for the execution of the current frame to complete. The fence being free will allow this one to move on.
	fence := vr.context.InFlightFences[vr.context.CurrentFrame]
	if err := fence.Wait(vr.context, frameTimeout); err != nil {
		return nil, err
	}

	// Acquire the next image from the swap chain. Pass along the semaphore that should signaled when this completes.
	// This same semaphore will later be waited on by the queue submission to ensure this image is available.
	imageIndex, suboptimal, err := vr.context.Swapchain.AcquireNextImageIndex(
		vr.context,
		frameTimeout,
		vr.context.ImageAvailableSemaphores[vr.context.CurrentFrame],
		vk.NullFence)
	if err != nil {
		vr.surface.note(err)
		return nil, err
	}
	if suboptimal {
		vr.surface.recreate = true
	}
	vr.context.ImageIndex = imageIndex

	// Begin recording commands.
	commandBuffer := vr.context.GraphicsCommandBuffers[imageIndex]
	if err := commandBuffer.Reset(); err != nil {
		return nil, err
	}
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return nil, err
	}

	return &VulkanFrame{
		backend:       vr,
		commandBuffer: commandBuffer,
		imageIndex:    imageIndex,
		extent:        vr.context.Swapchain.Extent,
	}, nil
}

// submit ends the frame's recording, submits it and presents the image.
func (vr *VulkanRenderer) submit(frame *VulkanFrame) error {
	commandBuffer := frame.commandBuffer
	if err := commandBuffer.End(); err != nil {
		return err
	}

	// Make sure the previous frame is not using this image (i.e. its fence is being waited on)
	if inFlight := vr.context.ImagesInFlight[frame.imageIndex]; inFlight != nil {
		if err := inFlight.Wait(vr.context, frameTimeout); err != nil {
			return err
		}
	}

	// Mark the image fence as in-use by this frame.
	fence := vr.context.InFlightFences[vr.context.CurrentFrame]
	vr.context.ImagesInFlight[frame.imageIndex] = fence

	// Reset the fence for use on the next frame
	if err := fence.Reset(vr.context); err != nil {
		return err
	}

	// Each semaphore waits on the corresponding pipeline stage to complete. 1:1 ratio.
	// VK_PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT prevents subsequent colour attachment
	// writes from executing until the semaphore signals (i.e. one frame is presented at a time)
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{vr.context.ImageAvailableSemaphores[vr.context.CurrentFrame]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{vr.context.QueueCompleteSemaphores[vr.context.CurrentFrame]},
	}
	if res := vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); res != vk.Success {
		return surfaceError("vkQueueSubmit", res)
	}
	commandBuffer.UpdateSubmitted()

	// Give the image back to the swapchain.
	err := vr.context.Swapchain.Present(
		vr.context,
		vr.context.Device.PresentQueue,
		vr.context.QueueCompleteSemaphores[vr.context.CurrentFrame],
		frame.imageIndex)
	vr.frameNumber++
	if err != nil {
		vr.surface.note(err)
		return err
	}
	return nil
}

func (vr *VulkanRenderer) Shutdown() {
	core.LogDebug("Vulkan renderer shutting down after %d presented frames.", vr.frameNumber)
	if vr.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)

		// Destroy in the opposite order of creation.

		// Sync objects
		for i := range vr.context.InFlightFences {
			if vr.context.ImageAvailableSemaphores[i] != vk.NullSemaphore {
				vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.context.ImageAvailableSemaphores[i], vr.context.Allocator)
			}
			if vr.context.QueueCompleteSemaphores[i] != vk.NullSemaphore {
				vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.context.QueueCompleteSemaphores[i], vr.context.Allocator)
			}
			if vr.context.InFlightFences[i] != nil {
				vr.context.InFlightFences[i].Destroy(vr.context)
			}
		}
		vr.context.ImageAvailableSemaphores = nil
		vr.context.QueueCompleteSemaphores = nil
		vr.context.InFlightFences = nil
		vr.context.ImagesInFlight = nil

		// Command buffers and the swapchain, with its framebuffers.
		vr.releaseSwapchain()

		// Renderpass
		if vr.context.MainRenderpass != nil {
			vr.context.MainRenderpass.Destroy(vr.context)
			vr.context.MainRenderpass = nil
		}

		core.LogDebug("Destroying Vulkan device...")
		DeviceDestroy(vr.context)
	}

	if vr.context.Instance == nil {
		return
	}

	core.LogDebug("Destroying Vulkan surface...")
	if vr.context.Surface != vk.NullSurface {
		vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
		vr.context.Surface = vk.NullSurface
	}

	if vr.context.debugCallback != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugCallback, vr.context.Allocator)
		vr.context.debugCallback = vk.NullDebugReportCallback
	}

	core.LogDebug("Destroying Vulkan instance...")
	vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
	vr.context.Instance = nil
	vr.surface = surfaceState{}
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
