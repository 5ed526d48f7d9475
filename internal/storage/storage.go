// Package storage abstracts the binary object store used for certificate
// artifacts, QR proof images and uploaded field assets.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"path"
	"strings"
)

// ObjectStore stores a blob under folderPath/filename and returns a public
// URL for it. Callers pass a fresh randomized filename on every store so
// repeated calls never collide.
type ObjectStore interface {
	Store(ctx context.Context, data []byte, filename, folderPath string) (string, error)
}

// RandomizeName appends a random hex suffix to the base name, keeping the
// extension: "logo.png" -> "logo_4f3c2d9a1b0e.png".
func RandomizeName(filename string) string {
	suffix := make([]byte, 6)
	rand.Read(suffix)

	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return base + "_" + hex.EncodeToString(suffix) + ext
}
