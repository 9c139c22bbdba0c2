package gravelpress

// Photo is the stored metadata for an uploaded gallery image. The file
// itself lives under <static>/photos/.
type Photo struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}
