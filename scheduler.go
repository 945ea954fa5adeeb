package vkp

import (
	"errors"
	"fmt"
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// PresentTarget is the scheduler's view of the swapchain.
type PresentTarget interface {
	AcquireNext(timeout time.Duration, imageAvailable vk.Semaphore) (uint32, PresentStatus, error)
	Present(queue *Queue, imageIndex uint32, waitSignal vk.Semaphore) (PresentStatus, error)
	Rebuild(desiredExtent vk.Extent2D) error
}

// SlotSet is the scheduler's view of the per-frame synchronization ring.
type SlotSet interface {
	SlotCount() int
	Slot(frame uint64) *FrameSlot
	Wait(slot *FrameSlot, timeout time.Duration) error
	Reset(slot *FrameSlot) error
}

// FrameSubmitter accepts one frame's recorded commands for execution.
type FrameSubmitter interface {
	SubmitFrame(buffer vk.CommandBuffer, imageAvailable, renderFinished vk.Semaphore, fence vk.Fence) error
}

// ExtentSource supplies the current drawable size and resize notifications.
// The provided Window type implements it over GLFW.
type ExtentSource interface {
	GetExtent() (width, height uint32)
	OnResize(func())
}

// RecordFunc produces the submittable command buffer for one frame. It is
// the hand-off point to the application's command recording: imageIndex
// selects the swapchain image (and so the framebuffer) being rendered into,
// slot identifies the in-flight frame whose per-frame resources may be
// reused.
type RecordFunc func(imageIndex uint32, slot int) (vk.CommandBuffer, error)

// SchedulerState tracks where in the frame cycle the scheduler is.
type SchedulerState int

const (
	StateIdle SchedulerState = iota
	StateAcquiring
	StateRecording
	StateSubmitting
	StatePresenting
	StateRebuilding
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateRecording:
		return "recording"
	case StateSubmitting:
		return "submitting"
	case StatePresenting:
		return "presenting"
	case StateRebuilding:
		return "rebuilding"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// SchedulerOptions bound the scheduler's blocking calls. Zero values wait
// forever.
type SchedulerOptions struct {
	// WaitTimeout bounds the per-slot fence wait; when it elapses the frame
	// fails with ErrDeviceLost.
	WaitTimeout time.Duration
	// AcquireTimeout bounds the image acquire.
	AcquireTimeout time.Duration
}

// FrameScheduler orchestrates one frame's acquire, record, submit, present
// cycle. It owns no device resources, only a monotonic frame counter; the
// swapchain, sync ring and queues are borrowed. A single control thread must
// drive DrawFrame; the only cross-thread input is the resize notification,
// which GLFW delivers from the same thread during event polling.
type FrameScheduler struct {
	target   PresentTarget
	sync     SlotSet
	graphics FrameSubmitter
	present  *Queue
	window   ExtentSource
	record   RecordFunc

	waitTimeout    time.Duration
	acquireTimeout time.Duration

	frame   uint64
	state   SchedulerState
	resized bool
}

// NewFrameScheduler wires a scheduler to its collaborators and subscribes to
// resize notifications. window may be nil, in which case rebuilds use the
// zero extent and rely on the surface's pinned extent.
func NewFrameScheduler(target PresentTarget, sync SlotSet, graphics FrameSubmitter, present *Queue, window ExtentSource, record RecordFunc, options *SchedulerOptions) *FrameScheduler {
	s := &FrameScheduler{
		target:   target,
		sync:     sync,
		graphics: graphics,
		present:  present,
		window:   window,
		record:   record,
	}
	if options != nil {
		s.waitTimeout = options.WaitTimeout
		s.acquireTimeout = options.AcquireTimeout
	}
	if window != nil {
		window.OnResize(func() {
			s.resized = true
		})
	}
	return s
}

// FrameCount returns the number of frames completed so far. Skipped frames
// (those that triggered a rebuild at acquire) do not count.
func (s *FrameScheduler) FrameCount() uint64 {
	return s.frame
}

// State returns the scheduler's current position in the frame cycle.
func (s *FrameScheduler) State() SchedulerState {
	return s.state
}

// DrawFrame runs one frame. The slot is the frame counter modulo the slot
// count, which bounds the frames in flight: the slot's fence is waited on
// before any of its primitives are reused. The fence is reset only once a
// submission is certain, so a frame skipped for an out of date chain leaves
// the fence signaled and the retried frame does not deadlock.
//
// An out of date chain, at acquire or present, is handled by rebuilding in
// place; it is never surfaced as an error. Everything else fatal wraps
// ErrDeviceLost and the caller owns recovery.
func (s *FrameScheduler) DrawFrame() error {
	slot := s.sync.Slot(s.frame)

	if err := s.sync.Wait(slot, s.waitTimeout); err != nil {
		return s.fatal("waiting for frame fence", err)
	}

	s.state = StateAcquiring
	imageIndex, status, err := s.target.AcquireNext(s.acquireTimeout, slot.ImageAvailable)
	if err != nil {
		return s.fatal("acquire", err)
	}
	if status == OutOfDate {
		// The frame is skipped entirely; the counter does not advance and
		// the same slot is retried after the rebuild.
		return s.rebuild()
	}

	s.state = StateRecording
	buffer, err := s.record(imageIndex, slot.Index)
	if err != nil {
		s.state = StateIdle
		return fmt.Errorf("frame %d: recording commands: %w", s.frame, err)
	}

	if err := s.sync.Reset(slot); err != nil {
		return s.fatal("resetting frame fence", err)
	}

	s.state = StateSubmitting
	if err := s.graphics.SubmitFrame(buffer, slot.ImageAvailable, slot.RenderFinished, slot.InFlight); err != nil {
		return s.fatal("submit", err)
	}

	s.state = StatePresenting
	status, err = s.target.Present(s.present, imageIndex, slot.RenderFinished)
	if err != nil {
		return s.fatal("present", err)
	}

	// The frame that was just presented is valid even when a rebuild follows.
	s.frame++

	if status == OutOfDate || s.resized {
		return s.rebuild()
	}

	s.state = StateIdle
	return nil
}

func (s *FrameScheduler) rebuild() error {
	s.state = StateRebuilding

	var extent vk.Extent2D
	if s.window != nil {
		extent.Width, extent.Height = s.window.GetExtent()
	}

	err := s.target.Rebuild(extent)
	s.resized = false
	s.state = StateIdle
	if err != nil {
		return fmt.Errorf("rebuilding swapchain: %w", err)
	}
	return nil
}

// fatal classifies a frame-cycle failure. Anything the status vocabulary does
// not cover is a device level loss: the caller must tear down and
// re-initialize the DeviceContext.
func (s *FrameScheduler) fatal(op string, err error) error {
	s.state = StateIdle
	if errors.Is(err, ErrDeviceLost) {
		return fmt.Errorf("frame %d: %s: %w", s.frame, op, err)
	}
	return fmt.Errorf("frame %d: %s: %v: %w", s.frame, op, err, ErrDeviceLost)
}
