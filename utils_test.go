package vkp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestSafeString(t *testing.T) {
	require.Equal(t, "abc\x00", safeString("abc"))
	require.Equal(t, "abc\x00", safeString("abc\x00"))
	require.Equal(t, "\x00", safeString(""))
}

func TestSafeStrings(t *testing.T) {
	got := safeStrings([]string{"VK_KHR_surface", "VK_KHR_swapchain\x00"})
	require.Equal(t, []string{"VK_KHR_surface\x00", "VK_KHR_swapchain\x00"}, got)
}

func TestTimeoutNanos(t *testing.T) {
	require.Equal(t, uint64(vk.MaxUint64), timeoutNanos(0))
	require.Equal(t, uint64(vk.MaxUint64), timeoutNanos(-time.Second))
	require.Equal(t, uint64(time.Second.Nanoseconds()), timeoutNanos(time.Second))
	require.Equal(t, uint64(1), timeoutNanos(time.Nanosecond))
}
