package vkp

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

var end = "\x00"
var endChar byte = '\x00'

func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	for i := range list {
		list[i] = safeString(list[i])
	}
	return list
}

// timeoutNanos converts a wait bound into the representation the device
// expects. A zero or negative duration means wait forever.
func timeoutNanos(d time.Duration) uint64 {
	if d <= 0 {
		return vk.MaxUint64
	}
	return uint64(d.Nanoseconds())
}
