package vkp

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// PresentStatus is the shared status vocabulary of acquire and present. Only
// OutOfDate requires action from the caller: the chain must be rebuilt before
// the image index may be used again.
type PresentStatus int

const (
	// Ready means the image may be rendered into and presented as usual.
	Ready PresentStatus = iota
	// SuboptimalButUsable means the chain no longer matches the surface
	// exactly but presenting to it still works.
	SuboptimalButUsable
	// OutOfDate means the chain is invalid and must never be rendered into.
	OutOfDate
)

func (s PresentStatus) String() string {
	switch s {
	case Ready:
		return "ready"
	case SuboptimalButUsable:
		return "suboptimal"
	case OutOfDate:
		return "out-of-date"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// statusFromResult folds a vulkan result into the status vocabulary. Out of
// date and suboptimal conditions are statuses, not errors; everything else
// non-successful is classified as fatal.
func statusFromResult(res vk.Result) (PresentStatus, error) {
	switch res {
	case vk.Success:
		return Ready, nil
	case vk.Suboptimal:
		return SuboptimalButUsable, nil
	case vk.ErrorOutOfDate:
		return OutOfDate, nil
	case vk.ErrorDeviceLost:
		return Ready, fmt.Errorf("%w: %v", ErrDeviceLost, vk.Error(res))
	case vk.Timeout, vk.NotReady:
		return Ready, fmt.Errorf("%w: %v", ErrTimeout, vk.Error(res))
	}
	return Ready, vk.Error(res)
}
