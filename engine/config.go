package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/scaffold/engine/core"
	"github.com/spaghettifunk/scaffold/engine/render"
)

// RootConfig names the files the root reads on creation. Every field is
// optional.
type RootConfig struct {
	// PluginsFilename is a TOML file listing the render systems to use,
	// in preference order:
	//
	//	plugins = ["OpenGL Rendering Subsystem", "Headless Software Rendering Subsystem"]
	PluginsFilename string
	// ConfigFilename is a TOML file with the settings of automatically
	// created windows:
	//
	//	[window]
	//	name = "Render Window"
	//	width = 800
	//	height = 600
	//	fullscreen = false
	//	[window.params]
	//	vsync = "true"
	ConfigFilename string
	// LogFilename is a file the log is written to, on top of stderr.
	LogFilename string
	LogLevel    core.LogLevel
}

// WindowConfig are the settings of the window Initialise creates.
type WindowConfig struct {
	Name       string                   `toml:"name"`
	Width      uint32                   `toml:"width"`
	Height     uint32                   `toml:"height"`
	Fullscreen bool                     `toml:"fullscreen"`
	Params     render.NameValuePairList `toml:"params"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Name:   "Render Window",
		Width:  800,
		Height: 600,
	}
}

type pluginsFile struct {
	Plugins []string `toml:"plugins"`
}

type configFile struct {
	Window WindowConfig `toml:"window"`
}

// readTOML decodes a TOML file. A missing file is reported with ok false
// and no error.
func readTOML(path string, v interface{}) (ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// LoadPlugins returns the plugin names listed in the file, nil when the
// file does not exist. A file without a plugins list enables none.
func LoadPlugins(path string) ([]string, error) {
	var pf pluginsFile
	ok, err := readTOML(path, &pf)
	if err != nil || !ok {
		return nil, err
	}
	if pf.Plugins == nil {
		return []string{}, nil
	}
	return pf.Plugins, nil
}

// LoadWindowConfig reads the window section of a config file over the
// defaults.
func LoadWindowConfig(path string) (WindowConfig, error) {
	cf := configFile{Window: DefaultWindowConfig()}
	if _, err := readTOML(path, &cf); err != nil {
		return DefaultWindowConfig(), err
	}
	if cf.Window.Width == 0 || cf.Window.Height == 0 {
		return DefaultWindowConfig(), fmt.Errorf("window size %dx%d in %s: %w", cf.Window.Width, cf.Window.Height, path, core.ErrInvalidParams)
	}
	return cf.Window, nil
}
