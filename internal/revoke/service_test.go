package revoke

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/uniqueid"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Issuer{}, &model.User{},
		&model.Certificate{}, &model.RevokedCertificate{},
	))
	return db
}

func seedIssuer(t *testing.T, db *gorm.DB) *model.Issuer {
	t.Helper()
	issuer := model.Issuer{
		OrganizationName:    "Acme Institute",
		OrganizationAddress: "1 Acme Way",
		Email:               "issuer@acme.test",
		CACNumber:           "CAC-1",
		PasswordHash:        "x",
		PhoneNumber:         "123",
	}
	require.NoError(t, db.Create(&issuer).Error)
	return &issuer
}

func seedCertificate(t *testing.T, db *gorm.DB, issuerID int) *model.Certificate {
	t.Helper()
	alloc := uniqueid.NewAllocator(db)
	code, err := alloc.AllocateCode()
	require.NoError(t, err)

	cert := model.Certificate{
		ID:          alloc.NewRecordID(),
		Name:        "Go Fundamentals",
		Format:      model.FormatPNG,
		ArtifactURL: "mem://certs/go.png",
		UserID:      1,
		IssuerID:    &issuerID,
		UniqueCode:  code,
	}
	require.NoError(t, db.Create(&cert).Error)
	return &cert
}

func TestRevokeOne_MovesBetweenStores(t *testing.T) {
	db := newTestDB(t)
	issuer := seedIssuer(t, db)
	cert := seedCertificate(t, db, issuer.ID)

	svc := NewService(db)
	revoked, err := svc.RevokeOne(issuer.ID, cert.ID)
	require.NoError(t, err)
	require.Equal(t, cert.ID, revoked.ID)
	require.Equal(t, cert.UniqueCode, revoked.UniqueCode)
	require.Equal(t, model.RevokedFromIssuer, revoked.RevokedFrom)

	// Identity must live in exactly one store after the move.
	var activeCount, revokedCount int64
	require.NoError(t, db.Model(&model.Certificate{}).Where("id = ?", cert.ID).Count(&activeCount).Error)
	require.NoError(t, db.Model(&model.RevokedCertificate{}).Where("id = ?", cert.ID).Count(&revokedCount).Error)
	require.Zero(t, activeCount)
	require.EqualValues(t, 1, revokedCount)
}

func TestRevokeOne_WrongIssuer(t *testing.T) {
	db := newTestDB(t)
	issuer := seedIssuer(t, db)
	cert := seedCertificate(t, db, issuer.ID)

	svc := NewService(db)
	_, err := svc.RevokeOne(issuer.ID+1, cert.ID)
	require.ErrorIs(t, err, ErrNotAuthorized)

	var activeCount int64
	require.NoError(t, db.Model(&model.Certificate{}).Where("id = ?", cert.ID).Count(&activeCount).Error)
	require.EqualValues(t, 1, activeCount)
}

func TestRevokeOne_AlreadyRevoked(t *testing.T) {
	db := newTestDB(t)
	issuer := seedIssuer(t, db)
	cert := seedCertificate(t, db, issuer.ID)

	svc := NewService(db)
	_, err := svc.RevokeOne(issuer.ID, cert.ID)
	require.NoError(t, err)

	_, err = svc.RevokeOne(issuer.ID, cert.ID)
	require.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestRevokeBulk_AllOrNothingAuth(t *testing.T) {
	db := newTestDB(t)
	issuerA := seedIssuer(t, db)
	issuerB := model.Issuer{
		OrganizationName:    "Other Org",
		OrganizationAddress: "2 Other St",
		Email:               "other@org.test",
		CACNumber:           "CAC-2",
		PasswordHash:        "x",
		PhoneNumber:         "456",
	}
	require.NoError(t, db.Create(&issuerB).Error)

	mine := seedCertificate(t, db, issuerA.ID)
	theirs := seedCertificate(t, db, issuerB.ID)

	svc := NewService(db)
	moved, unauthorized, err := svc.RevokeBulk(issuerA.ID, []string{mine.ID, theirs.ID})
	require.ErrorIs(t, err, ErrNotAuthorized)
	require.Zero(t, moved)
	require.Equal(t, []string{theirs.ID}, unauthorized)

	// Nothing moved, including the certificate the issuer does own.
	var activeCount int64
	require.NoError(t, db.Model(&model.Certificate{}).Count(&activeCount).Error)
	require.EqualValues(t, 2, activeCount)
}

func TestRevokeBulk_Moves(t *testing.T) {
	db := newTestDB(t)
	issuer := seedIssuer(t, db)
	c1 := seedCertificate(t, db, issuer.ID)
	c2 := seedCertificate(t, db, issuer.ID)

	svc := NewService(db)
	moved, unauthorized, err := svc.RevokeBulk(issuer.ID, []string{c1.ID, c2.ID})
	require.NoError(t, err)
	require.Equal(t, 2, moved)
	require.Empty(t, unauthorized)

	var revokedCount int64
	require.NoError(t, db.Model(&model.RevokedCertificate{}).Count(&revokedCount).Error)
	require.EqualValues(t, 2, revokedCount)
}

func TestListRevoked_SearchAndPagination(t *testing.T) {
	db := newTestDB(t)
	issuer := seedIssuer(t, db)
	svc := NewService(db)

	for i := 0; i < 3; i++ {
		cert := seedCertificate(t, db, issuer.ID)
		_, err := svc.RevokeOne(issuer.ID, cert.ID)
		require.NoError(t, err)
	}

	infos, total, err := svc.ListRevoked(1, 2, "")
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, infos, 2)

	infos, total, err = svc.ListRevoked(1, 10, "Acme")
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, infos, 3)
	require.Equal(t, "Acme Institute", infos[0].OrganizationName)

	_, total, err = svc.ListRevoked(1, 10, "no such org")
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestReconciler_DeletesDanglingActiveRows(t *testing.T) {
	db := newTestDB(t)
	issuer := seedIssuer(t, db)
	cert := seedCertificate(t, db, issuer.ID)

	// Simulate a crash between the copy and the delete: identity present
	// in both stores.
	copyRow := cert.ToRevoked(model.RevokedFromIssuer)
	require.NoError(t, db.Create(&copyRow).Error)

	r := NewReconciler(db, logrus.WithField("component", "test"), ReconcilerConfig{Enabled: true, IntervalSec: 60})
	r.tick()

	var activeCount, revokedCount int64
	require.NoError(t, db.Model(&model.Certificate{}).Where("id = ?", cert.ID).Count(&activeCount).Error)
	require.NoError(t, db.Model(&model.RevokedCertificate{}).Where("id = ?", cert.ID).Count(&revokedCount).Error)
	require.Zero(t, activeCount)
	require.EqualValues(t, 1, revokedCount)
}
