// Package metadata defines the contract through which file format
// handlers expose free-form attributes of the files they manage, such
// as an embedded description string.
package metadata

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Type identifies one kind of metadata attribute.
type Type int

const (
	// Description is a free-form description of the file.
	Description Type = iota
	// PaletteFilename is the name of an external file holding the
	// palette this file is drawn with.
	PaletteFilename
)

// String returns the attribute's name.
func (t Type) String() string {
	switch t {
	case Description:
		return "Description"
	case PaletteFilename:
		return "PaletteFilename"
	}
	return "Unknown"
}

// Map holds attribute values by type.
type Map map[Type]string

// Interface is implemented by format handlers that can expose
// metadata attributes.
type Interface interface {
	// MetadataTypes returns the attribute types this format supports.
	MetadataTypes() []Type

	// Metadata returns the value of one attribute. Requesting a type
	// the format does not support is InvalidArgument; a format with
	// no metadata at all, such as Unsupported, reports Unimplemented.
	Metadata(t Type) (string, error)

	// SetMetadata changes the value of one attribute. Setting a type
	// the format does not support is InvalidArgument; a format with
	// no metadata at all, such as Unsupported, reports Unimplemented.
	SetMetadata(t Type, value string) error
}

// Unsupported implements Interface for formats without metadata. It
// can be embedded to satisfy the contract.
type Unsupported struct{}

// MetadataTypes returns no types.
func (Unsupported) MetadataTypes() []Type {
	return nil
}

// Metadata fails: no attributes exist.
func (Unsupported) Metadata(t Type) (string, error) {
	return "", status.Errorf(codes.Unimplemented, "This format has no %s attribute", t)
}

// SetMetadata fails: no attributes exist.
func (Unsupported) SetMetadata(t Type, value string) error {
	return status.Errorf(codes.Unimplemented, "This format has no %s attribute", t)
}
