// Package blob turns Telegram photo uploads into references the bot can
// store and later show again: either the Telegram file id served through a
// signed proxy URL, or a copy in the R2 bucket.
package blob

import (
	"context"

	"github.com/kwasu-works/lostfound-bot/telegram"
)

// FileSource is the slice of the Telegram client a relay needs.
type FileSource interface {
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, string, error)
}

// Relay converts a transport file id into a stored reference and resolves
// stored references back into displayable URLs.
type Relay interface {
	// Acquire validates the uploaded file and returns the reference to
	// persist on the report.
	Acquire(ctx context.Context, fileID string) (string, error)
	// ResolveURL maps a stored reference to a URL a browser can open.
	ResolveURL(ref string) (string, error)
}
