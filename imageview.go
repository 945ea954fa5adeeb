package vkp

import (
	vk "github.com/vulkan-go/vulkan"
)

type ImageView struct {
	Device      *DeviceContext
	VKImageView vk.ImageView
}

// CreateColorImageView constructs a 2D color view over an image, as needed
// for rendering into swapchain images.
func (d *DeviceContext) CreateColorImageView(image vk.Image, format vk.Format) (*ImageView, error) {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	err := vk.Error(vk.CreateImageView(d.VKDevice, createInfo, nil, &view))
	if err != nil {
		return nil, err
	}

	return &ImageView{Device: d, VKImageView: view}, nil
}

func (i *ImageView) Destroy() {
	vk.DestroyImageView(i.Device.VKDevice, i.VKImageView, nil)
}
