package vkp

import (
	"fmt"
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// SurfaceSwapchain owns the presentable image chain bound to a window surface.
// The surface itself is borrowed from the windowing layer and never released
// here. The image and image-view sequences are index aligned, always the same
// length, and are replaced as a unit: a partially built chain is never
// observable.
type SurfaceSwapchain struct {
	Device  *DeviceContext
	Surface vk.Surface

	VKSwapchain vk.Swapchain
	Images      []vk.Image
	ImageViews  []*ImageView

	Format      vk.Format
	ColorSpace  vk.ColorSpace
	Extent      vk.Extent2D
	PresentMode vk.PresentMode

	desiredImageCount int
}

// CreateSwapchainOptions customize swapchain creation. The zero value asks for
// the surface's current extent and the platform's minimum-plus-one images.
type CreateSwapchainOptions struct {
	// DesiredExtent is the wanted drawable size; it is clamped to the bounds
	// the surface reports, and ignored entirely when the platform pins the
	// extent to the window.
	DesiredExtent vk.Extent2D
	// DesiredImageCount overrides the default minimum-plus-one image count.
	// It is clamped to the surface's reported bounds.
	DesiredImageCount int
	// OldSwapchain, when set, is handed to the platform as a resource reuse
	// hint and must be destroyed by the caller afterwards.
	OldSwapchain vk.Swapchain
}

// CreateSurfaceSwapchain builds the image chain for a surface. The format
// prefers 8-bit sRGB when the surface offers it, the present mode prefers
// mailbox (low latency triple buffering) and falls back to fifo which is
// always supported, and the extent is clamped to the surface's bounds.
func CreateSurfaceSwapchain(device *DeviceContext, surface vk.Surface, options *CreateSwapchainOptions) (*SurfaceSwapchain, error) {
	if options == nil {
		options = &CreateSwapchainOptions{}
	}

	s := &SurfaceSwapchain{
		Device:            device,
		Surface:           surface,
		desiredImageCount: options.DesiredImageCount,
	}
	if err := s.build(options.DesiredExtent, options.OldSwapchain); err != nil {
		return nil, err
	}
	return s, nil
}

// build creates the chain, its images and its views as a unit. On any failure
// everything partially created is released and the receiver is left untouched.
func (s *SurfaceSwapchain) build(desiredExtent vk.Extent2D, oldChain vk.Swapchain) error {
	pdevice := s.Device.PhysicalDevice

	modes, err := pdevice.GetSurfacePresentModes(s.Surface)
	if err != nil {
		return fmt.Errorf("querying present modes: %w", err)
	}
	presentMode := choosePresentMode(modes)

	formats, err := pdevice.GetSurfaceFormats(s.Surface)
	if err != nil {
		return fmt.Errorf("querying surface formats: %w", err)
	}
	format := chooseSurfaceFormat(formats)

	caps, err := pdevice.GetSurfaceCapabilities(s.Surface)
	if err != nil {
		return fmt.Errorf("querying surface capabilities: %w", err)
	}

	extent := chooseSwapExtent(caps, desiredExtent)
	imageCount := chooseImageCount(caps, s.desiredImageCount)

	createInfo := &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          s.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		PresentMode:      presentMode,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageArrayLayers: 1,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     oldChain,
	}

	graphics := s.Device.GraphicsQueue()
	present := s.Device.PresentQueue()
	if graphics.QueueFamily.Index != present.QueueFamily.Index {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			uint32(graphics.QueueFamily.Index),
			uint32(present.QueueFamily.Index),
		}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var chain vk.Swapchain
	err = vk.Error(vk.CreateSwapchain(s.Device.VKDevice, createInfo, nil, &chain))
	if err != nil {
		return fmt.Errorf("creating swapchain: %w", err)
	}

	images, views, err := s.buildImagesAndViews(chain, format.Format)
	if err != nil {
		vk.DestroySwapchain(s.Device.VKDevice, chain, nil)
		return err
	}

	s.VKSwapchain = chain
	s.Images = images
	s.ImageViews = views
	s.Format = format.Format
	s.ColorSpace = format.ColorSpace
	s.Extent = extent
	s.PresentMode = presentMode

	return nil
}

func (s *SurfaceSwapchain) buildImagesAndViews(chain vk.Swapchain, format vk.Format) ([]vk.Image, []*ImageView, error) {
	var count uint32
	err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, chain, &count, nil))
	if err != nil {
		return nil, nil, fmt.Errorf("querying swapchain images: %w", err)
	}

	images := make([]vk.Image, count)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, chain, &count, images))
	if err != nil {
		return nil, nil, fmt.Errorf("querying swapchain images: %w", err)
	}

	views := make([]*ImageView, len(images))
	for i, image := range images {
		view, err := s.Device.CreateColorImageView(image, format)
		if err != nil {
			for _, v := range views[:i] {
				v.Destroy()
			}
			return nil, nil, fmt.Errorf("creating image view %d: %w", i, err)
		}
		views[i] = view
	}

	return images, views, nil
}

// ImageCount returns the number of images in the chain.
func (s *SurfaceSwapchain) ImageCount() int {
	return len(s.Images)
}

// AcquireNext asks the platform for the next presentable image, arranging for
// imageAvailable to be signaled once the image may actually be rendered into.
// A zero timeout waits forever. When the status is OutOfDate the returned
// index must not be rendered into; rebuild first.
func (s *SurfaceSwapchain) AcquireNext(timeout time.Duration, imageAvailable vk.Semaphore) (uint32, PresentStatus, error) {
	if s.VKSwapchain == vk.NullSwapchain {
		return 0, OutOfDate, ErrSwapchainDestroyed
	}

	var imageIndex uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, timeoutNanos(timeout),
		imageAvailable, vk.NullFence, &imageIndex)

	status, err := statusFromResult(res)
	if err != nil {
		return 0, status, fmt.Errorf("acquiring image: %w", err)
	}
	return imageIndex, status, nil
}

// Present queues the image for presentation once waitSignal fires. An
// OutOfDate result is a status, never a failure: the frame that was just
// presented is still valid, and the caller rebuilds afterwards.
func (s *SurfaceSwapchain) Present(queue *Queue, imageIndex uint32, waitSignal vk.Semaphore) (PresentStatus, error) {
	if s.VKSwapchain == vk.NullSwapchain {
		return OutOfDate, ErrSwapchainDestroyed
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.VKSwapchain},
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{waitSignal},
		PImageIndices:      []uint32{imageIndex},
	}

	res := vk.QueuePresent(queue.VKQueue, &presentInfo)
	status, err := statusFromResult(res)
	if err != nil {
		return status, fmt.Errorf("presenting image %d: %w", imageIndex, err)
	}
	return status, nil
}

// Rebuild tears down the chain and creates a replacement in place, passing
// the old chain handle to the platform as a reuse hint. The device is drained
// first so no in-flight work still references the old images. Rebuild is safe
// to call repeatedly: each call leaves exactly one valid chain, and after a
// failed attempt the swapchain is left destroyed but retryable.
func (s *SurfaceSwapchain) Rebuild(desiredExtent vk.Extent2D) error {
	s.Device.WaitIdle()

	oldChain := s.VKSwapchain
	oldViews := s.ImageViews

	err := s.build(desiredExtent, oldChain)

	// The old views and chain are dead either way: on success they were
	// replaced, on failure the old chain was consumed as the creation hint.
	for _, view := range oldViews {
		view.Destroy()
	}
	if oldChain != vk.NullSwapchain {
		vk.DestroySwapchain(s.Device.VKDevice, oldChain, nil)
	}

	if err != nil {
		s.VKSwapchain = vk.NullSwapchain
		s.Images = nil
		s.ImageViews = nil
		return err
	}
	return nil
}

// Destroy releases the chain and all image views. The borrowed surface is
// left to its owner.
func (s *SurfaceSwapchain) Destroy() {
	for _, view := range s.ImageViews {
		view.Destroy()
	}
	s.ImageViews = nil
	s.Images = nil

	if s.VKSwapchain != vk.NullSwapchain {
		vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
		s.VKSwapchain = vk.NullSwapchain
	}
}

// chooseSwapExtent resolves the drawable extent. Platforms that pin the
// extent report it in CurrentExtent; otherwise the desired extent is clamped
// to the reported bounds.
func chooseSwapExtent(caps *vk.SurfaceCapabilities, desired vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(desired.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(desired.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chooseSurfaceFormat prefers standard 8-bit sRGB and falls back to whatever
// the surface lists first.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return vk.SurfaceFormat{}
}

// choosePresentMode prefers mailbox and falls back to fifo, the one mode the
// platform must support.
func choosePresentMode(modes VKPresentModes) vk.PresentMode {
	if len(modes.Filter(vk.PresentModeMailbox)) > 0 {
		return vk.PresentModeMailbox
	}
	return vk.PresentModeFifo
}

// chooseImageCount requests minimum-plus-one images bounded by the reported
// maximum; a maximum of zero means unbounded. A positive desired count
// overrides the default, clamped to the same bounds.
func chooseImageCount(caps *vk.SurfaceCapabilities, desired int) uint32 {
	count := caps.MinImageCount + 1
	if desired > 0 {
		count = uint32(desired)
	}
	if count < caps.MinImageCount {
		count = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}
