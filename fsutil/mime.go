package fsutil

import (
	"path/filepath"
	"strings"

	ai "github.com/spetersoncode/aiagent"
)

var mimeTypes = map[string]string{
	// video
	"mp4": "video/mpeg", "m4a": "video/mpeg", "m4b": "video/mpeg", "m4p": "video/mpeg",
	"m4r": "video/mpeg", "mpeg": "video/mpeg", "mpg": "video/mpeg", "mpe": "video/mpeg",
	"mpv": "video/mpeg", "mp2": "video/mpeg", "m2v": "video/mpeg", "m2ts": "video/mpeg",
	"mts": "video/mpeg", "tts": "video/mpeg", "m2t": "video/mpeg", "tsv": "video/mpeg",
	"tsa":  "video/mpeg",
	"webm": "video/webm",
	"3gp":  "video/3gpp",
	"mkv":  "video/x-matroska",
	"avi":  "video/x-msvideo",
	"mov":  "video/quicktime",
	"wmv":  "video/x-ms-wmv",
	"flv":  "video/x-flv",
	"m4v":  "video/x-m4v",

	// audio
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"aac":  "audio/aac",
	"flac": "audio/flac",
	"alac": "audio/alac",

	// image
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"tiff": "image/tiff",
	"psd":  "image/vnd.adobe.photoshop",
	"ai":   "application/postscript",
	"eps":  "application/postscript",
	"indd": "application/x-indesign",
	"raw":  "image/x-raw",
	"cr2":  "image/x-canon-cr2",
	"nef":  "image/x-nikon-nef",
	"orf":  "image/x-olympus-orf",
	"rw2":  "image/x-panasonic-rw2",
	"pef":  "image/x-pentax-pef",
	"arw":  "image/x-sony-arw",
	"dng":  "image/x-adobe-dng",
	"x3f":  "image/x-sigma-x3f",
	"cr3":  "image/x-canon-cr3",
	"heic": "image/heic",
	"heif": "image/heif",
	"avif": "image/avif",

	// documents and text
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"html": "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"xml":  "application/xml",

	// archives
	"zip": "application/zip",
	"rar": "application/x-rar-compressed",
	"7z":  "application/x-7z-compressed",
}

// MimeType returns the mime type for a file name's extension, or
// application/octet-stream when the extension is unknown.
// Extensions are matched case-sensitively.
func MimeType(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return ai.DefaultMimeType
}
