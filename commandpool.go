package vkp

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandPool allocates the command buffers a RecordFunc implementation
// hands back to the scheduler. Recording itself is the application's
// concern.
type CommandPool struct {
	Device        *DeviceContext
	QueueFamily   *QueueFamily
	VKCommandPool vk.CommandPool
}

// CreateCommandPool creates a pool for the given queue family with buffers
// that are individually resettable.
func (d *DeviceContext) CreateCommandPool(q *QueueFamily) (*CommandPool, error) {
	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: uint32(q.Index),
	}

	var pool vk.CommandPool
	err := vk.Error(vk.CreateCommandPool(d.VKDevice, &createInfo, nil, &pool))
	if err != nil {
		return nil, err
	}

	return &CommandPool{Device: d, QueueFamily: q, VKCommandPool: pool}, nil
}

// AllocateBuffers allocates count primary command buffers.
func (c *CommandPool) AllocateBuffers(count int) ([]*CommandBuffer, error) {
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.VKCommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	buffers := make([]vk.CommandBuffer, count)
	err := vk.Error(vk.AllocateCommandBuffers(c.Device.VKDevice, &allocateInfo, buffers))
	if err != nil {
		return nil, err
	}

	ret := make([]*CommandBuffer, count)
	for i := range ret {
		ret[i] = &CommandBuffer{VKCommandBuffer: buffers[i]}
	}
	return ret, nil
}

// AllocateBuffer allocates a single primary command buffer.
func (c *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	buffers, err := c.AllocateBuffers(1)
	if err != nil {
		return nil, err
	}
	return buffers[0], nil
}

// FreeBuffers returns buffers to the pool.
func (c *CommandPool) FreeBuffers(buffers []*CommandBuffer) {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}
	vk.FreeCommandBuffers(c.Device.VKDevice, c.VKCommandPool, uint32(len(b)), b)
}

func (c *CommandPool) Destroy() {
	vk.DestroyCommandPool(c.Device.VKDevice, c.VKCommandPool, nil)
}
