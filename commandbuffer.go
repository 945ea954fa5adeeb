package vkp

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer is a thin handle wrapper. Only begin, end and reset are
// wrapped here; applications record actual rendering commands through the
// native vulkan APIs against VK().
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// VK returns the native vulkan command buffer for recording.
func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// Begin starts recording into this command buffer.
func (c *CommandBuffer) Begin() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	return vk.Error(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo))
}

// BeginOneTime starts recording for a buffer that will be submitted once and
// then reset or freed.
func (c *CommandBuffer) BeginOneTime() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	return vk.Error(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo))
}

// End finishes recording.
func (c *CommandBuffer) End() error {
	return vk.Error(vk.EndCommandBuffer(c.VKCommandBuffer))
}

// Reset clears the buffer for re-recording.
func (c *CommandBuffer) Reset() error {
	return vk.Error(vk.ResetCommandBuffer(c.VKCommandBuffer, 0))
}
