package vkp

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceContext owns the logical device and its graphics and present queues.
// The queue families are resolved once at creation and never change. Every
// other object in this package borrows the context; it must be destroyed only
// after all of its dependents.
type DeviceContext struct {
	Instance       *Instance
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device

	graphicsQueue *Queue
	presentQueue  *Queue
}

// DeviceOptions customize logical device creation. The swapchain extension is
// always requested and need not be listed.
type DeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// NewDeviceContext selects a physical device able to run graphics work and
// present to the given surface, and creates the logical device and queues on
// it. Devices are considered in enumeration order; the first one exposing the
// required queue families wins. Fails with ErrNoSuitableQueueFamily when no
// device qualifies.
func NewDeviceContext(instance *Instance, surface vk.Surface, options *DeviceOptions) (*DeviceContext, error) {
	physicalDevices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, fmt.Errorf("error getting devices: %w", err)
	}
	if len(physicalDevices) == 0 {
		return nil, fmt.Errorf("no devices found")
	}

	for _, pdevice := range physicalDevices {
		families, err := pdevice.QueueFamilies()
		if err != nil {
			return nil, fmt.Errorf("unable to load device queue families: %w", err)
		}

		graphicsFamily, presentFamily := resolveQueueFamilies(families, surface)
		if graphicsFamily == nil || presentFamily == nil {
			continue
		}

		return newDeviceContext(instance, pdevice, graphicsFamily, presentFamily, options)
	}

	return nil, fmt.Errorf("%w: none of %d device(s) can present to the surface",
		ErrNoSuitableQueueFamily, len(physicalDevices))
}

// resolveQueueFamilies picks the graphics and present families, preferring a
// single family able to do both.
func resolveQueueFamilies(families QueueFamilySlice, surface vk.Surface) (graphics, present *QueueFamily) {
	combined := families.FilterGraphicsAndPresent(surface)
	if len(combined) > 0 {
		return combined[0], combined[0]
	}

	if g := families.FilterGraphics(); len(g) > 0 {
		graphics = g[0]
	}
	if p := families.FilterPresent(surface); len(p) > 0 {
		present = p[0]
	}
	return graphics, present
}

func newDeviceContext(instance *Instance, pdevice *PhysicalDevice, graphicsFamily, presentFamily *QueueFamily, options *DeviceOptions) (*DeviceContext, error) {
	families := QueueFamilySlice{graphicsFamily}
	if presentFamily.Index != graphicsFamily.Index {
		families = append(families, presentFamily)
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(families))
	for i, q := range families {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(q.Index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	extensions := []string{"VK_KHR_swapchain"}
	var layers []string
	if options != nil {
		extensions = append(extensions, options.EnabledExtensions...)
		layers = options.EnabledLayers
	}

	deviceFeatures := pdevice.VKPhysicalDeviceFeatures()

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}
	if len(layers) > 0 {
		deviceCreateInfo.EnabledLayerCount = uint32(len(layers))
		deviceCreateInfo.PpEnabledLayerNames = safeStrings(layers)
	}

	var ldevice vk.Device
	err := vk.Error(vk.CreateDevice(pdevice.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice))
	if err != nil {
		return nil, fmt.Errorf("unable to create device: %w", err)
	}

	dc := &DeviceContext{
		Instance:       instance,
		PhysicalDevice: pdevice,
		VKDevice:       ldevice,
	}

	dc.graphicsQueue = dc.getQueue(graphicsFamily)
	if presentFamily.Index == graphicsFamily.Index {
		dc.presentQueue = dc.graphicsQueue
	} else {
		dc.presentQueue = dc.getQueue(presentFamily)
	}

	return dc, nil
}

func (d *DeviceContext) getQueue(qf *QueueFamily) *Queue {
	var vkq vk.Queue
	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &vkq)
	return &Queue{Device: d, QueueFamily: qf, VKQueue: vkq}
}

// GraphicsQueue returns the queue rendering work is submitted to.
func (d *DeviceContext) GraphicsQueue() *Queue {
	return d.graphicsQueue
}

// PresentQueue returns the queue presentation requests are issued on. It may
// be the same queue as GraphicsQueue.
func (d *DeviceContext) PresentQueue() *Queue {
	return d.presentQueue
}

// WaitIdle blocks until all pending work on the device has completed. Use at
// shutdown, before destroying dependents.
func (d *DeviceContext) WaitIdle() {
	vk.DeviceWaitIdle(d.VKDevice)
}

func (d *DeviceContext) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

func (d *DeviceContext) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}
