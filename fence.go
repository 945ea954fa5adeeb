package vkp

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// VKCreateFence creates a native vulkan fence, optionally in the signaled
// state so that the first wait on it does not block.
func (d *DeviceContext) VKCreateFence(signaled bool) (vk.Fence, error) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	err := vk.Error(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence))
	if err != nil {
		return vk.NullFence, err
	}
	return fence, nil
}

func (d *DeviceContext) VKDestroyFence(f vk.Fence) {
	vk.DestroyFence(d.VKDevice, f, nil)
}

// VKWaitForFence blocks until the fence is signaled or the timeout elapses.
// A zero timeout waits forever; an elapsed timeout is reported as ErrTimeout.
func (d *DeviceContext) VKWaitForFence(f vk.Fence, timeout time.Duration) error {
	res := vk.WaitForFences(d.VKDevice, 1, []vk.Fence{f}, vk.True, timeoutNanos(timeout))
	_, err := statusFromResult(res)
	return err
}

func (d *DeviceContext) VKResetFence(f vk.Fence) error {
	return vk.Error(vk.ResetFences(d.VKDevice, 1, []vk.Fence{f}))
}
