package core

import (
	"errors"
)

var (
	ErrInvalidSides      = errors.New("polygon needs between 3 and 65535 sides")
	ErrZeroSize          = errors.New("surface width and height must be non-zero")
	ErrUnknownVertexKind = errors.New("unknown vertex kind")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrNoLoader          = errors.New("no loader registered for asset type")
	ErrVulkanInit        = errors.New("vulkan initialization failed")
	ErrUnknown           = errors.New("unknown")
)
