package uniqueid

import (
	"testing"

	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/Aswajit1997/Dicert/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Certificate{}, &model.RevokedCertificate{}))
	return db
}

func TestCode_Shape(t *testing.T) {
	code := Code()
	require.Len(t, code, 16)
	require.NotContains(t, code, "-")
}

func TestAllocateCode_Unique(t *testing.T) {
	a := NewAllocator(newTestDB(t))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := a.AllocateCode()
		require.NoError(t, err)
		require.False(t, seen[code], "allocated a duplicate code %s", code)
		seen[code] = true
	}
}

func TestAllocateCode_ChecksBothStores(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator(db)

	// A code held by a revoked certificate is still taken.
	taken, err := a.codeTaken("deadbeefdeadbeef")
	require.NoError(t, err)
	require.False(t, taken)

	issuerID := 1
	require.NoError(t, db.Create(&model.RevokedCertificate{
		ID:          a.NewRecordID(),
		Name:        "old cert",
		Format:      model.FormatPNG,
		ArtifactURL: "mem://x",
		UserID:      1,
		IssuerID:    &issuerID,
		UniqueCode:  "deadbeefdeadbeef",
		RevokedFrom: model.RevokedFromIssuer,
	}).Error)

	taken, err = a.codeTaken("deadbeefdeadbeef")
	require.NoError(t, err)
	require.True(t, taken)
}
