package locker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/storage"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *storage.MemoryStore) {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.ELocker{}, &model.Folder{},
		&model.Certificate{}, &model.RevokedCertificate{},
	))
	store := storage.NewMemoryStore()
	return NewService(db, store), db, store
}

func TestEnsureLocker_Idempotent(t *testing.T) {
	svc, db, _ := newTestService(t)

	first, err := svc.EnsureLocker(1)
	require.NoError(t, err)
	second, err := svc.EnsureLocker(1)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.ELocker{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateFolder_RejectsDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateFolder(1, "Awards")
	require.NoError(t, err)

	_, err = svc.CreateFolder(1, "Awards")
	require.ErrorIs(t, err, ErrFolderExists)

	// Same name under a different user is fine.
	_, err = svc.CreateFolder(2, "Awards")
	require.NoError(t, err)
}

func TestEnsureFolder_Idempotent(t *testing.T) {
	svc, _, _ := newTestService(t)

	first, err := svc.EnsureFolder(1, DefaultIssuedFolder)
	require.NoError(t, err)
	second, err := svc.EnsureFolder(1, DefaultIssuedFolder)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestUploadCertificate(t *testing.T) {
	svc, _, store := newTestService(t)

	cert, err := svc.UploadCertificate(context.Background(), 1, "diploma.PDF", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, model.FormatPDF, cert.Format)
	require.Len(t, cert.UniqueCode, 16)
	require.Nil(t, cert.IssuerID)
	require.EqualValues(t, 8, cert.SizeBytes)
	require.Equal(t, 1, store.Len())

	_, err = svc.UploadCertificate(context.Background(), 1, "notes.txt", []byte("hi"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAddCertificateToFolder(t *testing.T) {
	svc, _, _ := newTestService(t)

	cert, err := svc.UploadCertificate(context.Background(), 1, "a.png", []byte("png"))
	require.NoError(t, err)

	moved, err := svc.AddCertificateToFolder(1, cert.ID, "Awards")
	require.NoError(t, err)
	require.NotNil(t, moved.FolderID)

	// Another user's certificate is invisible.
	_, err = svc.AddCertificateToFolder(2, cert.ID, "Awards")
	require.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestToggleFavorite(t *testing.T) {
	svc, _, _ := newTestService(t)

	cert, err := svc.UploadCertificate(context.Background(), 1, "a.png", []byte("png"))
	require.NoError(t, err)
	require.False(t, cert.IsFavorite)

	got, err := svc.ToggleFavorite(1, cert.ID)
	require.NoError(t, err)
	require.True(t, got.IsFavorite)

	got, err = svc.ToggleFavorite(1, cert.ID)
	require.NoError(t, err)
	require.False(t, got.IsFavorite)
}

func TestListCertificates_FolderFilter(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	inFolder, err := svc.UploadCertificate(ctx, 1, "a.png", []byte("a"))
	require.NoError(t, err)
	_, err = svc.UploadCertificate(ctx, 1, "b.png", []byte("b"))
	require.NoError(t, err)

	moved, err := svc.AddCertificateToFolder(1, inFolder.ID, "Awards")
	require.NoError(t, err)

	all, err := svc.ListCertificates(1, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := svc.ListCertificates(1, moved.FolderID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, inFolder.ID, filtered[0].ID)
}
