package model

// FileType tags the variants of File.
type FileType string

// File types.
const (
	FileVideo     FileType = "Video"
	FileThumbnail FileType = "Thumbnail"
	FileHTMLZip   FileType = "HTMLZip"
	FileDocument  FileType = "Document"
)

// File references a remote or local file attached to a content node. The
// set of implementations is closed: VideoFile, ThumbnailFile, HTMLZipFile
// and DocumentFile.
type File interface {
	Type() FileType

	// Location returns the URL or local path of the file.
	Location() string

	file()
}

// VideoFile is an mp4 to be transcoded with FFmpegSettings.
type VideoFile struct {
	Path           string
	FFmpegSettings map[string]int
}

// ThumbnailFile is an image used as a node thumbnail.
type ThumbnailFile struct {
	Path string
}

// HTMLZipFile is a zip archive with an index.html at its root.
type HTMLZipFile struct {
	Path     string
	Language string
}

// DocumentFile is a PDF document.
type DocumentFile struct {
	Path     string
	Language string
}

// Type implements File.
func (*VideoFile) Type() FileType { return FileVideo }

// Type implements File.
func (*ThumbnailFile) Type() FileType { return FileThumbnail }

// Type implements File.
func (*HTMLZipFile) Type() FileType { return FileHTMLZip }

// Type implements File.
func (*DocumentFile) Type() FileType { return FileDocument }

// Location implements File.
func (f *VideoFile) Location() string { return f.Path }

// Location implements File.
func (f *ThumbnailFile) Location() string { return f.Path }

// Location implements File.
func (f *HTMLZipFile) Location() string { return f.Path }

// Location implements File.
func (f *DocumentFile) Location() string { return f.Path }

func (*VideoFile) file()     {}
func (*ThumbnailFile) file() {}
func (*HTMLZipFile) file()   {}
func (*DocumentFile) file()  {}
