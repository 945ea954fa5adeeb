package vkp

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

// fakeAcquire is one scripted AcquireNext outcome.
type fakeAcquire struct {
	index  uint32
	status PresentStatus
	err    error
}

// fakeFrameStack stands in for the swapchain, the sync ring, the graphics
// queue and the window at once, so a test can drive DrawFrame without a
// device. Fences are modeled as a signaled bit plus a pending bit: Reset
// clears signaled, SubmitFrame marks the slot pending, and a Wait on a
// pending slot completes the fake GPU work and records that the wait had to
// block. A Wait on a slot that is neither signaled nor pending would never
// return on real hardware, so the fake fails the test instead.
type fakeFrameStack struct {
	t *testing.T

	slots    []FrameSlot
	signaled []bool
	pending  []bool
	lastSlot int

	acquires  []fakeAcquire
	presents  []PresentStatus
	nextIndex uint32
	images    uint32

	waitErr    error
	submitErr  error
	rebuildErr error

	extentW, extentH uint32
	resizeFns        []func()

	events        []string
	rebuilds      int
	rebuildExtent vk.Extent2D
	presented     []uint32
}

func newFakeStack(t *testing.T, slotCount int) *fakeFrameStack {
	f := &fakeFrameStack{
		t:        t,
		slots:    make([]FrameSlot, slotCount),
		signaled: make([]bool, slotCount),
		pending:  make([]bool, slotCount),
		images:   3,
	}
	for i := range f.slots {
		f.slots[i].Index = i
		f.signaled[i] = true
	}
	return f
}

func (f *fakeFrameStack) SlotCount() int { return len(f.slots) }

func (f *fakeFrameStack) Slot(frame uint64) *FrameSlot {
	return &f.slots[frame%uint64(len(f.slots))]
}

func (f *fakeFrameStack) Wait(slot *FrameSlot, _ time.Duration) error {
	if f.waitErr != nil {
		return f.waitErr
	}
	f.lastSlot = slot.Index
	switch {
	case f.signaled[slot.Index]:
		f.events = append(f.events, fmt.Sprintf("wait:%d", slot.Index))
	case f.pending[slot.Index]:
		f.events = append(f.events, fmt.Sprintf("wait-blocked:%d", slot.Index))
		f.signaled[slot.Index] = true
		f.pending[slot.Index] = false
	default:
		f.t.Fatalf("wait on slot %d with no pending work and an unsignaled fence: this frame would deadlock", slot.Index)
	}
	return nil
}

func (f *fakeFrameStack) Reset(slot *FrameSlot) error {
	if f.pending[slot.Index] {
		f.t.Fatalf("reset of slot %d while its submission is still pending", slot.Index)
	}
	f.signaled[slot.Index] = false
	f.events = append(f.events, fmt.Sprintf("reset:%d", slot.Index))
	return nil
}

func (f *fakeFrameStack) AcquireNext(_ time.Duration, _ vk.Semaphore) (uint32, PresentStatus, error) {
	if len(f.acquires) > 0 {
		a := f.acquires[0]
		f.acquires = f.acquires[1:]
		if a.err != nil {
			f.events = append(f.events, "acquire:error")
			return 0, Ready, a.err
		}
		if a.status == OutOfDate {
			f.events = append(f.events, "acquire:out-of-date")
			return 0, OutOfDate, nil
		}
		f.events = append(f.events, fmt.Sprintf("acquire:%d", a.index))
		return a.index, a.status, nil
	}
	idx := f.nextIndex
	f.nextIndex = (f.nextIndex + 1) % f.images
	f.events = append(f.events, fmt.Sprintf("acquire:%d", idx))
	return idx, Ready, nil
}

func (f *fakeFrameStack) SubmitFrame(_ vk.CommandBuffer, _, _ vk.Semaphore, _ vk.Fence) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.pending[f.lastSlot] = true
	f.events = append(f.events, fmt.Sprintf("submit:%d", f.lastSlot))
	return nil
}

func (f *fakeFrameStack) Present(_ *Queue, imageIndex uint32, _ vk.Semaphore) (PresentStatus, error) {
	status := Ready
	if len(f.presents) > 0 {
		status = f.presents[0]
		f.presents = f.presents[1:]
	}
	f.presented = append(f.presented, imageIndex)
	f.events = append(f.events, fmt.Sprintf("present:%d", imageIndex))
	return status, nil
}

func (f *fakeFrameStack) Rebuild(desiredExtent vk.Extent2D) error {
	f.rebuilds++
	f.rebuildExtent = desiredExtent
	f.events = append(f.events, "rebuild")
	return f.rebuildErr
}

func (f *fakeFrameStack) GetExtent() (uint32, uint32) { return f.extentW, f.extentH }

func (f *fakeFrameStack) OnResize(fn func()) { f.resizeFns = append(f.resizeFns, fn) }

func (f *fakeFrameStack) triggerResize() {
	for _, fn := range f.resizeFns {
		fn()
	}
}

type recorded struct {
	imageIndex uint32
	slot       int
}

func newTestScheduler(f *fakeFrameStack, record RecordFunc) *FrameScheduler {
	if record == nil {
		record = func(uint32, int) (vk.CommandBuffer, error) { return nil, nil }
	}
	return NewFrameScheduler(f, f, f, nil, f, record, nil)
}

func TestDrawFrameCyclesSlotsAndBoundsInFlight(t *testing.T) {
	f := newFakeStack(t, 2)
	var records []recorded
	s := newTestScheduler(f, func(imageIndex uint32, slot int) (vk.CommandBuffer, error) {
		records = append(records, recorded{imageIndex, slot})
		return nil, nil
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, s.DrawFrame())
	}

	require.Equal(t, uint64(3), s.FrameCount())
	require.Equal(t, StateIdle, s.State())
	require.Equal(t, []recorded{{0, 0}, {1, 1}, {2, 0}}, records)

	// The third frame reuses slot 0 and must wait out its earlier submission
	// before resetting the fence or touching the semaphores.
	require.Equal(t, []string{
		"wait:0", "acquire:0", "reset:0", "submit:0", "present:0",
		"wait:1", "acquire:1", "reset:1", "submit:1", "present:1",
		"wait-blocked:0", "acquire:2", "reset:0", "submit:0", "present:2",
	}, f.events)
}

func TestDrawFrameFirstSlotsNeverBlock(t *testing.T) {
	f := newFakeStack(t, 3)
	s := newTestScheduler(f, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.DrawFrame())
	}

	for _, ev := range f.events {
		require.NotContains(t, ev, "wait-blocked")
	}
}

func TestDrawFrameOutOfDateAcquireSkipsFrame(t *testing.T) {
	f := newFakeStack(t, 2)
	f.acquires = []fakeAcquire{{status: OutOfDate}}
	var records []recorded
	s := newTestScheduler(f, func(imageIndex uint32, slot int) (vk.CommandBuffer, error) {
		records = append(records, recorded{imageIndex, slot})
		return nil, nil
	})

	require.NoError(t, s.DrawFrame())
	require.Equal(t, uint64(0), s.FrameCount())
	require.Equal(t, StateIdle, s.State())
	require.Empty(t, records)
	require.Equal(t, []string{"wait:0", "acquire:out-of-date", "rebuild"}, f.events)

	// The retried frame runs on the same slot; the fence was never reset, so
	// the wait completes immediately.
	require.NoError(t, s.DrawFrame())
	require.Equal(t, uint64(1), s.FrameCount())
	require.Equal(t, []recorded{{0, 0}}, records)
	require.Equal(t, []string{
		"wait:0", "acquire:out-of-date", "rebuild",
		"wait:0", "acquire:0", "reset:0", "submit:0", "present:0",
	}, f.events)
}

func TestDrawFrameRepeatedOutOfDateRecovers(t *testing.T) {
	f := newFakeStack(t, 2)
	f.acquires = []fakeAcquire{{status: OutOfDate}, {status: OutOfDate}}
	s := newTestScheduler(f, nil)

	require.NoError(t, s.DrawFrame())
	require.NoError(t, s.DrawFrame())
	require.Equal(t, 2, f.rebuilds)
	require.Equal(t, uint64(0), s.FrameCount())

	require.NoError(t, s.DrawFrame())
	require.Equal(t, uint64(1), s.FrameCount())
	require.Equal(t, []uint32{0}, f.presented)
}

func TestDrawFramePresentOutOfDateRebuildsAfterCounting(t *testing.T) {
	f := newFakeStack(t, 2)
	f.presents = []PresentStatus{OutOfDate}
	s := newTestScheduler(f, nil)

	require.NoError(t, s.DrawFrame())
	require.Equal(t, uint64(1), s.FrameCount())
	require.Equal(t, 1, f.rebuilds)
	require.Equal(t, []string{"wait:0", "acquire:0", "reset:0", "submit:0", "present:0", "rebuild"}, f.events)
}

func TestDrawFrameSuboptimalPresentDoesNotRebuild(t *testing.T) {
	f := newFakeStack(t, 2)
	f.presents = []PresentStatus{SuboptimalButUsable}
	s := newTestScheduler(f, nil)

	require.NoError(t, s.DrawFrame())
	require.Equal(t, 0, f.rebuilds)
	require.Equal(t, uint64(1), s.FrameCount())
}

func TestDrawFrameResizeTriggersRebuildWithWindowExtent(t *testing.T) {
	f := newFakeStack(t, 2)
	f.extentW, f.extentH = 640, 480
	s := newTestScheduler(f, nil)

	f.triggerResize()
	require.NoError(t, s.DrawFrame())
	require.Equal(t, 1, f.rebuilds)
	require.Equal(t, uint32(640), f.rebuildExtent.Width)
	require.Equal(t, uint32(480), f.rebuildExtent.Height)

	// The pending resize is consumed; the next frame does not rebuild again.
	require.NoError(t, s.DrawFrame())
	require.Equal(t, 1, f.rebuilds)
}

func TestDrawFrameAcquireFailureIsDeviceLost(t *testing.T) {
	f := newFakeStack(t, 2)
	f.acquires = []fakeAcquire{{err: errors.New("surface gone")}}
	s := newTestScheduler(f, nil)

	err := s.DrawFrame()
	require.ErrorIs(t, err, ErrDeviceLost)
	require.Equal(t, 0, f.rebuilds)
	require.Equal(t, uint64(0), s.FrameCount())
	require.Equal(t, StateIdle, s.State())
}

func TestDrawFrameWaitTimeoutIsDeviceLost(t *testing.T) {
	f := newFakeStack(t, 2)
	f.waitErr = fmt.Errorf("%w: fence wait elapsed", ErrTimeout)
	s := newTestScheduler(f, nil)

	err := s.DrawFrame()
	require.ErrorIs(t, err, ErrDeviceLost)
}

func TestDrawFrameSubmitFailureIsDeviceLost(t *testing.T) {
	f := newFakeStack(t, 2)
	f.submitErr = errors.New("queue submit failed")
	s := newTestScheduler(f, nil)

	err := s.DrawFrame()
	require.ErrorIs(t, err, ErrDeviceLost)
	require.Equal(t, uint64(0), s.FrameCount())
}

func TestDrawFrameRecordErrorPropagatesUnwrapped(t *testing.T) {
	f := newFakeStack(t, 2)
	recordErr := errors.New("pipeline not ready")
	s := newTestScheduler(f, func(uint32, int) (vk.CommandBuffer, error) {
		return nil, recordErr
	})

	err := s.DrawFrame()
	require.ErrorIs(t, err, recordErr)
	require.NotErrorIs(t, err, ErrDeviceLost)
	// The fence was not reset, so the retried slot remains usable.
	require.True(t, f.signaled[0])
}

func TestSchedulerStateString(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "acquiring", StateAcquiring.String())
	require.Equal(t, "recording", StateRecording.String())
	require.Equal(t, "submitting", StateSubmitting.String())
	require.Equal(t, "presenting", StatePresenting.String())
	require.Equal(t, "rebuilding", StateRebuilding.String())
}
