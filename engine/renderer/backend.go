package renderer

import "github.com/spaghettifunk/scaffold/engine/render"

// System is a render system plugin the root can select and drive.
type System interface {
	render.RenderSystem
	// Initialise prepares the backend. customCapabilities is an optional
	// backend specific capabilities file, empty when not used.
	Initialise(customCapabilities string) error
	CreateRenderWindow(name string, width, height uint32, fullscreen bool, params render.NameValuePairList) (render.RenderWindow, error)
	// PumpMessages processes the pending events of every window.
	PumpMessages()
	Shutdown() error
}
