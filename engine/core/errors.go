package core

import (
	"errors"
)

var (
	ErrNoRenderSystem        = errors.New("no render system selected")
	ErrUnknownRenderSystem   = errors.New("render system is not available")
	ErrNotInitialised        = errors.New("root has not been initialised")
	ErrNoRenderWindow        = errors.New("no render window")
	ErrWindowClosed          = errors.New("render window is closed")
	ErrDuplicateName         = errors.New("an item with the same name already exists")
	ErrItemNotFound          = errors.New("item not found")
	ErrAlreadyAttached       = errors.New("object already attached to a scene node")
	ErrInvalidParams         = errors.New("invalid parameters")
	ErrInvalidClipDistance   = errors.New("invalid clip distance")
	ErrInvalidState          = errors.New("invalid state")
	ErrUnsupportedResource   = errors.New("unsupported resource location type")
	ErrResourceGroupNotReady = errors.New("resource group is not initialised")
	ErrUnknown               = errors.New("unknown")
)
