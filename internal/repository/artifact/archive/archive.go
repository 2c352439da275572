package archive

import (
	"fmt"
	"io"
	"time"

	"image-pipeline/internal/repository/artifact"

	"github.com/klauspost/compress/zip"
)

// Write packages entries into a zip stream. Already compressed formats are
// stored as-is; everything else is deflated.
func Write(w io.Writer, entries []artifact.Entry) error {
	zw := zip.NewWriter(w)
	modified := time.Now()

	for _, e := range entries {
		header := &zip.FileHeader{
			Name:     e.Name,
			Method:   method(e.MimeType),
			Modified: modified,
		}

		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", e.Name, err)
		}

		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("failed to write %s to archive: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func method(mimeType string) uint16 {
	switch mimeType {
	case "image/jpeg", "image/webp":
		return zip.Store
	default:
		return zip.Deflate
	}
}
