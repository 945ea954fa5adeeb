package vkp

import (
	"fmt"
	"log"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App describes the application to Vulkan prior to instance creation. Layers
// and extensions accumulated here are requested when CreateInstance is called.
type App struct {
	// Name of the application
	Name string
	// EngineName the name of the engine associated with the application
	EngineName string
	// Version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	EnabledLayers     []string
	EnabledExtensions []string
}

// SupportedLayers returns the instance layers this Vulkan install knows about.
// Vulkan must have been initialized before this is called.
func SupportedLayers() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil))
	if err != nil {
		return nil, err
	}
	layers := make([]vk.LayerProperties, count)
	err = vk.Error(vk.EnumerateInstanceLayerProperties(&count, layers))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range layers {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// SupportedExtensions returns the instance extensions this Vulkan install
// knows about. Vulkan must have been initialized before this is called.
func SupportedExtensions() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil))
	if err != nil {
		return nil, err
	}
	exts := make([]vk.ExtensionProperties, count)
	err = vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, exts))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, ext := range exts {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// EnableLayer requests a layer, verifying first that it is supported.
func (a *App) EnableLayer(layer string) error {
	layers, err := SupportedLayers()
	if err != nil {
		return fmt.Errorf("error getting supported layers: %w", err)
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return nil
		}
	}
	return fmt.Errorf("validation layer '%s' not found", layer)
}

// EnableExtension requests an instance extension.
func (a *App) EnableExtension(extension string) *App {
	a.EnabledExtensions = append(a.EnabledExtensions, extension)
	return a
}

// EnableDebugging turns on the Khronos validation layer and the debug
// reporting extensions. Combine with Instance.UseDefaultDebugCallback to get
// validation output on the log.
func (a *App) EnableDebugging() {
	a.EnableLayer("VK_LAYER_KHRONOS_validation")
	a.EnableExtension("VK_EXT_debug_utils")
	a.EnableExtension("VK_EXT_debug_report")
}

// VKApplicationInfo creates a structure representing this application in a
// Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan instance with the layers and extensions
// accumulated on the App.
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}

	err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance.VKInstance))
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	vk.InitInstance(instance.VKInstance)

	return instance, nil
}

// Instance owns the process-wide Vulkan state. It is created explicitly via
// App.CreateInstance and must be destroyed last, after every dependent object.
type Instance struct {
	// VKInstance is the native Vulkan instance object
	VKInstance vk.Instance
}

// PhysicalDevices returns the physical devices known to this instance.
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var count uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &count, nil))
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, count)
	err = vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &count, devices))
	if err != nil {
		return nil, err
	}

	ret := make([]*PhysicalDevice, count)
	for n, device := range devices {
		ret[n] = &PhysicalDevice{VKPhysicalDevice: device}
		vk.GetPhysicalDeviceProperties(device, &ret[n].VKPhysicalDeviceProperties)
		ret[n].VKPhysicalDeviceProperties.Deref()
		ret[n].DeviceName = fmt.Sprintf("%s", ret[n].VKPhysicalDeviceProperties.DeviceName)
	}
	return ret, nil
}

// UseDefaultDebugCallback installs a callback which writes validation layer
// reports to the log.
func (i *Instance) UseDefaultDebugCallback() error {
	return i.SetDebugCallback(defaultDebugCallback)
}

// SetDebugCallback installs a debug report callback; the debug reporting
// extensions must have been enabled on the App.
func (i *Instance) SetDebugCallback(callback vk.DebugReportCallbackFunc) error {
	var debugCallback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: callback,
	}, nil, &debugCallback)
	return vk.Error(ret)
}

func defaultDebugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		log.Printf("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		log.Printf("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		log.Printf("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		log.Printf("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}

func (i *Instance) Destroy() {
	vk.DestroyInstance(i.VKInstance, nil)
}
