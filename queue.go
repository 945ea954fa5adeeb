package vkp

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *DeviceContext
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return vk.Error(vk.QueueWaitIdle(q.VKQueue))
}

// SubmitFrame submits one frame's recorded commands. The device-side work
// waits on imageAvailable at the color attachment output stage, and signals
// renderFinished plus the fence on completion. The scheduler, not the caller,
// is expected to wire these; the ordering between acquire, submit and present
// depends on it.
func (q *Queue) SubmitFrame(buffer vk.CommandBuffer, imageAvailable, renderFinished vk.Semaphore, fence vk.Fence) error {
	waitStages := []vk.PipelineStageFlags{
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
	}

	submitInfo := []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{imageAvailable},
		PWaitDstStageMask:    waitStages,
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{renderFinished},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{buffer},
	}}

	res := vk.QueueSubmit(q.VKQueue, 1, submitInfo, fence)
	if res == vk.ErrorDeviceLost {
		return fmt.Errorf("%w: queue submit: %v", ErrDeviceLost, vk.Error(res))
	}
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("queue submit: %w", err)
	}
	return nil
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
