package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is wrapped by DecodeError for unknown containers.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format identifies a container/codec. It is resolved once, from the file
// extension, before any bytes are read.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatAIFF
	FormatFLAC
	FormatOGG
	FormatMP3
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "WAV"
	case FormatAIFF:
		return "AIFF"
	case FormatFLAC:
		return "FLAC"
	case FormatOGG:
		return "OGG"
	case FormatMP3:
		return "MP3"
	default:
		return "unknown"
	}
}

var extensions = map[string]Format{
	".wav":  FormatWAV,
	".wave": FormatWAV,
	".aif":  FormatAIFF,
	".aiff": FormatAIFF,
	".flac": FormatFLAC,
	".ogg":  FormatOGG,
	".oga":  FormatOGG,
	".mp3":  FormatMP3,
}

// DetectFormat maps path's extension to a Format.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return FormatUnknown, &DecodeError{
		Path: path,
		Err:  fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext),
	}
}

// SupportedExtensions lists the recognized extensions.
func SupportedExtensions() []string {
	return []string{".wav", ".aif", ".aiff", ".flac", ".ogg", ".mp3"}
}
