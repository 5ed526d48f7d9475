// Package uniqueid pre-allocates certificate identities: human-readable
// unique codes and record identifiers, minted before rendering so the QR
// proof can reference the record being created.
package uniqueid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aswajit1997/Dicert/internal/model"
)

// codeLength is the number of hex characters in a unique code.
const codeLength = 16

// maxAttempts bounds collision retries per allocation.
const maxAttempts = 5

// Code mints a raw 16-character code. Uniqueness is the Allocator's job.
func Code() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength]
}

// Allocator mints codes that are collision-free across the whole identity
// space: active and revoked certificates together.
type Allocator struct {
	db *gorm.DB
}

// NewAllocator creates an Allocator backed by the given database.
func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{db: db}
}

// NewRecordID allocates a fresh certificate record identifier.
func (a *Allocator) NewRecordID() string {
	return uuid.NewString()
}

// AllocateCode mints a unique code not present in either physical store.
func (a *Allocator) AllocateCode() (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := Code()

		taken, err := a.codeTaken(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a unique code after %d attempts", maxAttempts)
}

func (a *Allocator) codeTaken(code string) (bool, error) {
	var count int64
	if err := a.db.Model(&model.Certificate{}).Where("unique_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := a.db.Model(&model.RevokedCertificate{}).Where("unique_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
