package vkp

import (
	"errors"
)

var (
	// ErrNoSuitableQueueFamily is returned by NewDeviceContext when no physical
	// device exposes a queue family supporting graphics work and a family
	// (possibly the same) able to present to the target surface.
	ErrNoSuitableQueueFamily = errors.New("vkp: no suitable queue family")

	// ErrDeviceLost marks a non-recoverable device condition. The holder of the
	// DeviceContext must tear it down and re-initialize from scratch; nothing in
	// this package attempts recovery.
	ErrDeviceLost = errors.New("vkp: device lost")

	// ErrTimeout is returned when a bounded wait on the device elapses. The
	// scheduler's default policy treats it as device loss.
	ErrTimeout = errors.New("vkp: device wait timed out")

	// ErrSwapchainDestroyed is returned when acquire or present is attempted on
	// a swapchain whose chain handle has been released, i.e. after a failed
	// rebuild that has not yet been retried.
	ErrSwapchainDestroyed = errors.New("vkp: swapchain destroyed")
)
