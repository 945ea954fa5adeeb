package vkp

import (
	"fmt"
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// DefaultMaxFramesInFlight is the slot count used when none is given: classic
// double buffering of CPU recording against GPU execution.
const DefaultMaxFramesInFlight = 2

// FrameSlot holds the synchronization primitives for one in-flight frame:
// a semaphore the presentation engine signals when the acquired image is
// ready, a semaphore the graphics queue signals when rendering finished, and
// a fence the host waits on before reusing the slot.
type FrameSlot struct {
	Index          int
	ImageAvailable vk.Semaphore
	RenderFinished vk.Semaphore
	InFlight       vk.Fence
}

// FrameSyncSet is a fixed ring of frame slots. Its size bounds the number of
// frames in flight and is independent of the swapchain image count; it is
// created once at startup and survives every swapchain rebuild.
type FrameSyncSet struct {
	Device *DeviceContext
	Slots  []FrameSlot
}

// CreateFrameSyncSet creates slotCount slots (DefaultMaxFramesInFlight when
// slotCount is zero or negative). Fences start signaled so that the first use
// of each slot never blocks.
func CreateFrameSyncSet(device *DeviceContext, slotCount int) (*FrameSyncSet, error) {
	if slotCount <= 0 {
		slotCount = DefaultMaxFramesInFlight
	}

	f := &FrameSyncSet{
		Device: device,
		Slots:  make([]FrameSlot, 0, slotCount),
	}

	for i := 0; i < slotCount; i++ {
		slot := FrameSlot{Index: i}
		var err error

		slot.ImageAvailable, err = device.VKCreateSemaphore()
		if err == nil {
			slot.RenderFinished, err = device.VKCreateSemaphore()
		}
		if err == nil {
			slot.InFlight, err = device.VKCreateFence(true)
		}
		if err != nil {
			f.destroySlots()
			destroySlotPartial(device, slot)
			return nil, fmt.Errorf("creating sync slot %d: %w", i, err)
		}

		f.Slots = append(f.Slots, slot)
	}

	return f, nil
}

func destroySlotPartial(device *DeviceContext, slot FrameSlot) {
	if slot.ImageAvailable != vk.NullSemaphore {
		device.VKDestroySemaphore(slot.ImageAvailable)
	}
	if slot.RenderFinished != vk.NullSemaphore {
		device.VKDestroySemaphore(slot.RenderFinished)
	}
}

// SlotCount returns the configured number of in-flight frames.
func (f *FrameSyncSet) SlotCount() int {
	return len(f.Slots)
}

// Slot maps a monotonic frame counter onto its slot, cycling modulo the slot
// count.
func (f *FrameSyncSet) Slot(frame uint64) *FrameSlot {
	return &f.Slots[frame%uint64(len(f.Slots))]
}

// Wait blocks until the slot's fence is signaled, i.e. until the GPU work
// from the slot's last use has completed. A zero timeout waits forever; an
// elapsed timeout is reported as ErrTimeout.
func (f *FrameSyncSet) Wait(slot *FrameSlot, timeout time.Duration) error {
	return f.Device.VKWaitForFence(slot.InFlight, timeout)
}

// Reset returns the slot's fence to the unsignaled state for reuse. Call it
// only once a submission that will signal the fence again is certain,
// otherwise the next Wait on the slot can never return.
func (f *FrameSyncSet) Reset(slot *FrameSlot) error {
	return f.Device.VKResetFence(slot.InFlight)
}

// WaitAndReset combines Wait and Reset for callers that submit
// unconditionally afterwards.
func (f *FrameSyncSet) WaitAndReset(slot *FrameSlot, timeout time.Duration) error {
	if err := f.Wait(slot, timeout); err != nil {
		return err
	}
	return f.Reset(slot)
}

func (f *FrameSyncSet) destroySlots() {
	for _, slot := range f.Slots {
		f.Device.VKDestroySemaphore(slot.ImageAvailable)
		f.Device.VKDestroySemaphore(slot.RenderFinished)
		f.Device.VKDestroyFence(slot.InFlight)
	}
	f.Slots = nil
}

// Destroy releases every slot's primitives. The caller must ensure no frame
// is still in flight, typically via DeviceContext.WaitIdle.
func (f *FrameSyncSet) Destroy() {
	f.destroySlots()
}
