/*
Package vkp implements the swapchain and frame-synchronization core of a Vulkan
renderer for go. It deliberately covers the hardest slice of Vulkan presentation:
keeping the presentable image chain alive across window changes, and wiring the
synchronization primitives so that CPU submission and GPU execution never race.

The package is built from four cooperating pieces. An Instance (created from an
App description) owns process-wide Vulkan state. A DeviceContext owns the logical
device together with its graphics and present queues, resolved once at creation.
A SurfaceSwapchain owns the presentable images and views bound to a borrowed
window surface and knows how to rebuild itself when the platform reports the
chain out of date. A FrameSyncSet owns a fixed ring of per-frame semaphore pairs
and fences, sized independently of the image count. The FrameScheduler ties them
together: it drives the acquire, record, submit, present cycle each frame, bounds
the number of frames in flight, and tears down and rebuilds the swapchain in
place when it is invalidated, while the sync set and device live on.

What this package does not do: it does not create windows (it only consumes a
surface and drawable extents through small interfaces, with a GLFW backed
implementation provided), it does not record rendering commands (the scheduler
hands each frame to a caller supplied callback which must return a ready
command buffer), and it does not build pipelines beyond loading compiled SPIR-V
modules. Those concerns belong to the application.

A typical frame, as the scheduler runs it:

	wait on the slot's fence (bounds frames in flight)
	acquire the next image, signaling the slot's image-available semaphore
	    out of date? rebuild the chain and skip the frame
	ask the application to record commands for (imageIndex, slot)
	submit, waiting on image-available, signaling render-finished and the fence
	present, waiting on render-finished
	    out of date, or the window resized? rebuild after the frame

Conditions the platform can recover from (an out of date or suboptimal chain)
are handled inside the package and never surface to the caller as failures.
Device loss is fatal here: it is reported wrapping ErrDeviceLost, and recovery,
which means rebuilding the DeviceContext from scratch, is left to the
application.
*/
package vkp
