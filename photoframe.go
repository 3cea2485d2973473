/*
Package photoframe converts photographs into the fixed-palette bitmaps
shown by a 7-color e-paper photo frame.
*/
package photoframe

import (
	"io"
	"log/slog"
)

type PhotoFrame struct {
	albums *AlbumDB
	logger *slog.Logger
}

// New returns a PhotoFrame using the given album store, which may be
// nil when only plain conversion is needed. A nil logger discards all
// output.
func New(albums *AlbumDB, logger *slog.Logger) *PhotoFrame {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PhotoFrame{
		albums: albums,
		logger: logger,
	}
}
