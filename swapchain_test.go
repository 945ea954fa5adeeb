package vkp

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseSwapExtentClampsToSurfaceBounds(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: vk.Extent2D{Width: 2000, Height: 1500},
	}

	cases := []struct {
		name    string
		desired vk.Extent2D
		want    vk.Extent2D
	}{
		{"within bounds", vk.Extent2D{Width: 800, Height: 600}, vk.Extent2D{Width: 800, Height: 600}},
		{"at minimum", vk.Extent2D{Width: 100, Height: 100}, vk.Extent2D{Width: 100, Height: 100}},
		{"at maximum", vk.Extent2D{Width: 2000, Height: 1500}, vk.Extent2D{Width: 2000, Height: 1500}},
		{"below minimum", vk.Extent2D{Width: 50, Height: 80}, vk.Extent2D{Width: 100, Height: 100}},
		{"above maximum", vk.Extent2D{Width: 5000, Height: 5000}, vk.Extent2D{Width: 2000, Height: 1500}},
		{"zero", vk.Extent2D{}, vk.Extent2D{Width: 100, Height: 100}},
		{"mixed", vk.Extent2D{Width: 50, Height: 5000}, vk.Extent2D{Width: 100, Height: 1500}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := chooseSwapExtent(caps, tc.desired)
			require.Equal(t, tc.want.Width, got.Width)
			require.Equal(t, tc.want.Height, got.Height)
		})
	}
}

func TestChooseSwapExtentHonorsPinnedExtent(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 1024, Height: 768},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: vk.Extent2D{Width: 2000, Height: 1500},
	}

	got := chooseSwapExtent(caps, vk.Extent2D{Width: 640, Height: 480})
	require.Equal(t, uint32(1024), got.Width)
	require.Equal(t, uint32(768), got.Height)
}

func TestChooseSurfaceFormatPrefersSRGB(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}

	got := chooseSurfaceFormat(formats)
	require.Equal(t, vk.FormatB8g8r8a8Srgb, got.Format)
}

func TestChooseSurfaceFormatFallsBackToFirst(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR5g6b5UnormPack16, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}

	got := chooseSurfaceFormat(formats)
	require.Equal(t, vk.FormatR5g6b5UnormPack16, got.Format)
}

func TestChoosePresentModePrefersMailbox(t *testing.T) {
	modes := VKPresentModes{vk.PresentModeFifo, vk.PresentModeMailbox}
	require.Equal(t, vk.PresentModeMailbox, choosePresentMode(modes))
}

func TestChoosePresentModeFallsBackToFifo(t *testing.T) {
	require.Equal(t, vk.PresentModeFifo, choosePresentMode(VKPresentModes{vk.PresentModeImmediate}))
	require.Equal(t, vk.PresentModeFifo, choosePresentMode(nil))
}

func TestChooseImageCount(t *testing.T) {
	cases := []struct {
		name     string
		min, max uint32
		desired  int
		want     uint32
	}{
		{"min plus one unbounded", 2, 0, 0, 3},
		{"min plus one at maximum", 2, 3, 0, 3},
		{"clamped to maximum", 3, 3, 0, 3},
		{"desired within bounds", 2, 8, 4, 4},
		{"desired below minimum", 2, 8, 1, 2},
		{"desired above maximum", 2, 8, 10, 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			caps := &vk.SurfaceCapabilities{MinImageCount: tc.min, MaxImageCount: tc.max}
			require.Equal(t, tc.want, chooseImageCount(caps, tc.desired))
		})
	}
}

func TestPresentStatusString(t *testing.T) {
	require.Equal(t, "ready", Ready.String())
	require.Equal(t, "suboptimal", SuboptimalButUsable.String())
	require.Equal(t, "out-of-date", OutOfDate.String())
}
