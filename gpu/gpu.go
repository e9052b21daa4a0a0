//go:build !nogpu

// Package gpu registers the wgpu/hal batch driver with blit.
//
// Import this package to render through the GPU. Registration happens at
// init time; blit.New then opens the driver automatically:
//
//	import _ "github.com/gogpu/blit/gpu" // enable the GPU driver
//
// Without a device provider the driver opens its own Vulkan adapter. To
// share a host application's device instead, pass a provider through
// blit.WithDevice; see DeviceProvider.
package gpu

import (
	"log/slog"

	"github.com/gogpu/blit"
	gpuimpl "github.com/gogpu/blit/internal/gpu"
)

// opener adapts the internal driver package to blit's registry.
type opener struct{}

func (opener) Open(provider any) (blit.Driver, error) {
	d, err := gpuimpl.Open(provider)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SetLogger receives the renderer's logger when blit.SetLogger runs.
func (opener) SetLogger(l *slog.Logger) {
	gpuimpl.SetLogger(l)
}

func init() {
	blit.RegisterDriver(opener{})
}
