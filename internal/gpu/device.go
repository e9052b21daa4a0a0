// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// deviceContext bundles the HAL handles the driver renders with and the
// ownership state needed to tear them down. A context built from an
// external provider never destroys the device it was handed.
type deviceContext struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
}

// acquireDevice resolves the device for a new driver. A nil provider opens
// a standalone Vulkan device; anything else must expose shared HAL handles.
func acquireDevice(provider any) (*deviceContext, error) {
	if provider == nil {
		return openStandalone()
	}
	return fromProvider(provider)
}

// fromProvider adopts a shared GPU device from an external provider
// (e.g. gogpu). The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func fromProvider(provider any) (*deviceContext, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu-batch: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu-batch: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu-batch: provider HalQueue is not hal.Queue")
	}
	slogger().Debug("gpu-batch: using shared GPU device")
	return &deviceContext{device: device, queue: queue, external: true}, nil
}

// openStandalone creates a standalone Vulkan device. This is the fallback
// path when the renderer is configured without a device provider.
func openStandalone() (*deviceContext, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	slogger().Info("gpu-batch: GPU initialized (standalone)", "adapter", selected.Info.Name)
	return &deviceContext{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}, nil
}

// release destroys the device and instance when the context owns them.
// Shared handles are only detached.
func (dc *deviceContext) release() {
	if !dc.external {
		if dc.device != nil {
			dc.device.Destroy()
		}
		if dc.instance != nil {
			dc.instance.Destroy()
		}
	}
	dc.device = nil
	dc.queue = nil
	dc.instance = nil
}
