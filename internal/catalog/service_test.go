package catalog

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

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TemplateField{}))
	store := storage.NewMemoryStore()
	return NewService(db, store), store
}

func textField(name string) model.TemplateField {
	return model.TemplateField{
		FieldName:       name,
		HTMLPlaceholder: "{{ " + name + " }}",
		DefaultValue:    name,
		InputFrom:       model.FieldInputCustom,
		FieldType:       model.FieldTypeText,
	}
}

func TestAdd_TextField(t *testing.T) {
	svc, store := newTestService(t)

	field, err := svc.Add(context.Background(), textField("courseName"), nil, "")
	require.NoError(t, err)
	require.NotZero(t, field.ID)
	require.False(t, field.IsDeleted)
	require.Zero(t, store.Len())
}

func TestAdd_FileFieldRequiresAsset(t *testing.T) {
	svc, store := newTestService(t)

	badge := model.TemplateField{
		FieldName: "badge",
		InputFrom: model.FieldInputCustom,
		FieldType: model.FieldTypeFile,
	}
	_, err := svc.Add(context.Background(), badge, nil, "")
	require.ErrorIs(t, err, ErrAssetRequired)

	field, err := svc.Add(context.Background(), badge, []byte("imagedata"), "badge.png")
	require.NoError(t, err)
	// The stored asset URL becomes the field's default value.
	require.NotEmpty(t, field.DefaultValue)
	require.Equal(t, 1, store.Len())
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)

	field, err := svc.Add(context.Background(), textField("courseName"), nil, "")
	require.NoError(t, err)

	edited := textField("course")
	edited.DefaultValue = "Intro to Go"
	updated, err := svc.Update(context.Background(), field.ID, edited, nil, "")
	require.NoError(t, err)
	require.Equal(t, "course", updated.FieldName)
	require.Equal(t, "Intro to Go", updated.DefaultValue)

	// An empty default keeps the stored value.
	edited.DefaultValue = ""
	updated, err = svc.Update(context.Background(), field.ID, edited, nil, "")
	require.NoError(t, err)
	require.Equal(t, "Intro to Go", updated.DefaultValue)

	_, err = svc.Update(context.Background(), 9999, edited, nil, "")
	require.ErrorIs(t, err, ErrFieldNotFound)
}

func TestDelete_TwoPhase(t *testing.T) {
	svc, _ := newTestService(t)

	field, err := svc.Add(context.Background(), textField("courseName"), nil, "")
	require.NoError(t, err)

	// Permanent deletion is rejected while the field is still visible.
	require.ErrorIs(t, svc.PermanentDelete(field.ID), ErrNotSoftDeleted)

	require.NoError(t, svc.SoftDelete(field.ID))
	visible, err := svc.List()
	require.NoError(t, err)
	require.Empty(t, visible)

	require.NoError(t, svc.PermanentDelete(field.ID))
	require.ErrorIs(t, svc.PermanentDelete(field.ID), ErrFieldNotFound)
}

func TestList_HidesSoftDeleted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	keep, err := svc.Add(ctx, textField("keep"), nil, "")
	require.NoError(t, err)
	gone, err := svc.Add(ctx, textField("gone"), nil, "")
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(gone.ID))

	visible, err := svc.List()
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, keep.FieldName, visible[0].FieldName)
}
