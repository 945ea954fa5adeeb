package vkp

import (
	"fmt"
	"os"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// ShaderModule wraps a compiled SPIR-V module. Compilation happens offline
// (see shaders/compile.sh); this only loads the binary for pipeline
// construction.
type ShaderModule struct {
	Device         *DeviceContext
	VKShaderModule vk.ShaderModule
}

// LoadShaderModuleFromFile reads a compiled SPIR-V binary and creates a
// shader module from it.
func (d *DeviceContext) LoadShaderModuleFromFile(file string) (*ShaderModule, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%s: not a SPIR-V binary", file)
	}

	var module vk.ShaderModule
	err = vk.Error(vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(data)),
		PCode:    sliceUint32(data),
	}, nil, &module))
	if err != nil {
		return nil, fmt.Errorf("creating shader module from %s: %w", file, err)
	}

	return &ShaderModule{Device: d, VKShaderModule: module}, nil
}

// VKPipelineShaderStageCreateInfo describes this module as one stage of a
// pipeline.
func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}

func sliceUint32(data []byte) []uint32 {
	const m = 0x7fffffff
	return (*[m / 4]uint32)(unsafe.Pointer((*sliceHeader)(unsafe.Pointer(&data)).Data))[:len(data)/4]
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}
