// Package mediatype maps byte prefixes, file extensions and MIME types onto
// the image and video formats accepted by the media library.
package mediatype

import (
	"bytes"
	"path"
	"strings"
)

// Kind groups media types by how they are rendered.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
	KindAny   Kind = "any"
)

// DefaultMIME is used when nothing better is known about a file.
const DefaultMIME = "application/octet-stream"

// SniffLength is the number of leading bytes Sniff inspects.
const SniffLength = 16

// Type is a detected media type.
type Type struct {
	MIME      string
	Extension string
}

// Kind reports whether the type is an image, a video or neither.
func (t Type) Kind() Kind {
	return KindOf(t.MIME)
}

var (
	sigJPEG = []byte{0xFF, 0xD8, 0xFF}
	sigPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// Sniff inspects the leading bytes of a file and reports the container format.
func Sniff(prefix []byte) (Type, bool) {
	if len(prefix) > SniffLength {
		prefix = prefix[:SniffLength]
	}
	switch {
	case bytes.HasPrefix(prefix, sigJPEG):
		return Type{MIME: "image/jpeg", Extension: "jpg"}, true
	case bytes.HasPrefix(prefix, sigPNG):
		return Type{MIME: "image/png", Extension: "png"}, true
	case bytes.HasPrefix(prefix, []byte("GIF87a")), bytes.HasPrefix(prefix, []byte("GIF89a")):
		return Type{MIME: "image/gif", Extension: "gif"}, true
	case len(prefix) >= 12 && string(prefix[0:4]) == "RIFF" && string(prefix[8:12]) == "WEBP":
		return Type{MIME: "image/webp", Extension: "webp"}, true
	case len(prefix) >= 8 && string(prefix[4:8]) == "ftyp":
		return Type{MIME: "video/mp4", Extension: "mp4"}, true
	}
	return Type{}, false
}

var extensionMIME = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
}

var mimeExtension = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"image/gif":       "gif",
	"video/mp4":       "mp4",
	"video/webm":      "webm",
	"video/quicktime": "mov",
}

// Extension returns the lower-cased extension of filename without the dot.
func Extension(filename string) string {
	ext := path.Ext(strings.ReplaceAll(filename, "\\", "/"))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FromExtension maps a known extension to its MIME type.
func FromExtension(ext string) (string, bool) {
	mime, ok := extensionMIME[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return mime, ok
}

// ExtensionFor maps a MIME type to its canonical extension, defaulting to "bin".
func ExtensionFor(mime string) string {
	if ext, ok := mimeExtension[normalizeMIME(mime)]; ok {
		return ext
	}
	return "bin"
}

// KindOf classifies a MIME type.
func KindOf(mime string) Kind {
	mime = normalizeMIME(mime)
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	default:
		return KindOther
	}
}

// Resolve picks the content type and extension for an upload. A specific
// reported MIME type wins, then the sniffed signature, then the extension.
// The filename extension is kept when it is short enough to be genuine.
func Resolve(reportedMIME, filename string, prefix []byte) Type {
	sniffed, sniffOK := Sniff(prefix)
	rawExt := Extension(filename)

	var result Type
	switch reported := normalizeMIME(reportedMIME); {
	case reported != "" && reported != DefaultMIME:
		result.MIME = reported
	case sniffOK:
		result.MIME = sniffed.MIME
	default:
		if mime, ok := FromExtension(rawExt); ok {
			result.MIME = mime
		} else {
			result.MIME = DefaultMIME
		}
	}

	switch {
	case rawExt != "" && len(rawExt) <= 8:
		result.Extension = rawExt
	case sniffOK:
		result.Extension = sniffed.Extension
	default:
		result.Extension = ExtensionFor(result.MIME)
	}
	return result
}

// Accepts reports whether a media type of kind k satisfies accepted.
func Accepts(accepted []Kind, k Kind) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, a := range accepted {
		if a == KindAny || a == k {
			return true
		}
	}
	return false
}

func normalizeMIME(mime string) string {
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}
