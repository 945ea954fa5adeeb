package vkp

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestStatusFromResult(t *testing.T) {
	status, err := statusFromResult(vk.Success)
	require.NoError(t, err)
	require.Equal(t, Ready, status)

	status, err = statusFromResult(vk.Suboptimal)
	require.NoError(t, err)
	require.Equal(t, SuboptimalButUsable, status)

	status, err = statusFromResult(vk.ErrorOutOfDate)
	require.NoError(t, err)
	require.Equal(t, OutOfDate, status)
}

func TestStatusFromResultDeviceLost(t *testing.T) {
	_, err := statusFromResult(vk.ErrorDeviceLost)
	require.ErrorIs(t, err, ErrDeviceLost)
}

func TestStatusFromResultTimeout(t *testing.T) {
	_, err := statusFromResult(vk.Timeout)
	require.ErrorIs(t, err, ErrTimeout)

	_, err = statusFromResult(vk.NotReady)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestStatusFromResultOtherFailure(t *testing.T) {
	_, err := statusFromResult(vk.ErrorOutOfDeviceMemory)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDeviceLost)
}
