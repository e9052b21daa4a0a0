// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceProvider supplies a shared GPU device from the host application.
//
// This interface is the integration point between blit and GPU frameworks
// like gogpu. The host application implements DeviceProvider and passes it
// to blit.WithDevice, letting the driver draw on the shared device instead
// of opening its own adapter.
//
// The driver reaches the HAL layer through gpucontext.HalProvider, so the
// provider must also implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. Providers that omit them are rejected at open
// time and the renderer reports the error.
//
// DeviceProvider is an alias for gpucontext.DeviceProvider, providing a
// blit-specific name for the interface while maintaining full compatibility
// with the gpucontext ecosystem.
type DeviceProvider = gpucontext.DeviceProvider

// NullDeviceProvider is a DeviceProvider that provides nil implementations.
// Useful as a placeholder in host plumbing that requires a provider value.
// It carries no HAL device, so the driver rejects it at open time; to let
// blit open its own adapter, omit blit.WithDevice instead.
type NullDeviceProvider struct{}

// Device returns nil for the null provider.
func (NullDeviceProvider) Device() gpucontext.Device { return nil }

// Queue returns nil for the null provider.
func (NullDeviceProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null provider.
func (NullDeviceProvider) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null provider.
func (NullDeviceProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceProvider implements DeviceProvider.
var _ DeviceProvider = NullDeviceProvider{}
