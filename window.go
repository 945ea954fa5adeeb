package vkp

import (
	"fmt"

	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// InitVulkanForGLFW points the Vulkan loader at the proc address GLFW
// resolved and initializes it. Call after glfw.Init and before creating an
// instance.
func InitVulkanForGLFW() error {
	if !glfw.VulkanSupported() {
		return fmt.Errorf("vulkan is not supported by this glfw build")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return vk.Init()
}

// Window adapts a GLFW window to the surface and extent provider the
// scheduler consumes. The caller owns glfw.Init/Terminate and event polling.
type Window struct {
	GLFW *glfw.Window

	resizeCallbacks []func()
}

// NewWindow creates a window without a client graphics API, as Vulkan
// rendering requires.
func NewWindow(width, height int, title string) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w := &Window{GLFW: window}
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		for _, fn := range w.resizeCallbacks {
			fn()
		}
	})
	return w, nil
}

// RequiredExtensions lists the instance extensions GLFW needs to create
// surfaces on this platform; enable them all on the App.
func (w *Window) RequiredExtensions() []string {
	return w.GLFW.GetRequiredInstanceExtensions()
}

// CreateSurface creates the presentation surface for this window. The
// returned surface is owned by the caller and destroyed against the
// instance, after every swapchain built on it.
func (w *Window) CreateSurface(instance *Instance) (vk.Surface, error) {
	surface, err := w.GLFW.CreateWindowSurface(instance.VKInstance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("creating window surface: %w", err)
	}
	return vk.SurfaceFromPointer(surface), nil
}

// GetExtent returns the current drawable size in pixels.
func (w *Window) GetExtent() (uint32, uint32) {
	width, height := w.GLFW.GetFramebufferSize()
	return uint32(width), uint32(height)
}

// OnResize registers a callback invoked when the framebuffer size changes.
// GLFW delivers it during event polling, on the thread running the loop.
func (w *Window) OnResize(fn func()) {
	w.resizeCallbacks = append(w.resizeCallbacks, fn)
}

func (w *Window) ShouldClose() bool {
	return w.GLFW.ShouldClose()
}

func (w *Window) Destroy() {
	w.GLFW.Destroy()
}
