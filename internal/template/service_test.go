package template

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/Aswajit1997/Dicert/internal/model"
	"github.com/Aswajit1997/Dicert/internal/render"
	"github.com/Aswajit1997/Dicert/internal/substitute"
)

type stubRenderer struct {
	lastHTML string
	calls    int
}

func (r *stubRenderer) Render(_ context.Context, html, folderPath, format string) (render.Result, error) {
	r.calls++
	r.lastHTML = html
	return render.Result{
		URL:       fmt.Sprintf("mem://%s/preview-%d.%s", folderPath, r.calls, format),
		SizeBytes: int64(len(html)),
	}, nil
}

func newTestService(t *testing.T) (*Service, *stubRenderer) {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Template{}))
	renderer := &stubRenderer{}
	return NewService(db, renderer), renderer
}

const markup = `<html><body>` +
	`<h1>{{ certificateName }}</h1>` +
	`<p>{{recipientName}}</p>` +
	`<div style="background-image: url('{{ backgroundUrl }}')"></div>` +
	`<span>{{uniqueId}}</span>` +
	`</body></html>`

func TestCreate_InjectsCertificateNameAndRendersPreview(t *testing.T) {
	svc, renderer := newTestService(t)

	tpl, err := svc.Create(context.Background(), 1, "completion", markup,
		[]model.FieldBinding{
			{FieldName: "backgroundUrl", FieldType: model.FieldTypeFile, Value: "https://cdn.test/bg.png"},
		},
		[]model.FieldBinding{
			{FieldName: "recipientName", FieldType: model.FieldTypeText, Value: "recipientName"},
		},
	)
	require.NoError(t, err)

	// The reserved binding is always present, last, and typed text.
	last := tpl.CustomFields[len(tpl.CustomFields)-1]
	require.Equal(t, model.FieldCertificateName, last.FieldName)
	require.Equal(t, model.FieldTypeText, last.FieldType)

	require.Equal(t, 1, renderer.calls)
	require.Contains(t, tpl.PreviewHTML, `url("https://cdn.test/bg.png")`)
	require.Contains(t, tpl.PreviewHTML, substitute.PreviewUniqueID)
	require.NotContains(t, tpl.PreviewHTML, "{{")
	require.NotEmpty(t, tpl.PreviewURL)
}

func TestCreate_StripsCallerCertificateName(t *testing.T) {
	svc, _ := newTestService(t)

	tpl, err := svc.Create(context.Background(), 1, "t", `<p>{{certificateName}}</p>`,
		[]model.FieldBinding{
			{FieldName: model.FieldCertificateName, FieldType: model.FieldTypeFile, Value: "sneaky"},
		}, nil)
	require.NoError(t, err)

	count := 0
	for _, f := range tpl.CustomFields {
		if f.FieldName == model.FieldCertificateName {
			count++
			require.Equal(t, model.FieldTypeText, f.FieldType)
		}
	}
	require.Equal(t, 1, count)
}

func TestEdit_RerendersPreview(t *testing.T) {
	svc, renderer := newTestService(t)

	tpl, err := svc.Create(context.Background(), 1, "t", `<p>{{certificateName}}</p>`, nil, nil)
	require.NoError(t, err)
	firstURL := tpl.PreviewURL

	newMarkup := `<h2>{{certificateName}}</h2>`
	updated, err := svc.Edit(context.Background(), tpl.ID, nil, &newMarkup, nil, nil)
	require.NoError(t, err)
	require.Equal(t, newMarkup, updated.MarkupHTML)
	require.Equal(t, 2, renderer.calls)
	require.NotEqual(t, firstURL, updated.PreviewURL)
	// Name was untouched.
	require.Equal(t, "t", updated.Name)
}

func TestGetListDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, 1, "graduation", `<p>{{certificateName}}</p>`, nil, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "attendance", `<p>{{certificateName}}</p>`, nil, nil)
	require.NoError(t, err)

	got, err := svc.Get(tpl.ID)
	require.NoError(t, err)
	require.Equal(t, "graduation", got.Name)

	all, err := svc.List("")
	require.NoError(t, err)
	require.Len(t, all, 2)

	found, err := svc.List("gradu")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, svc.Delete(tpl.ID))
	require.ErrorIs(t, svc.Delete(tpl.ID), ErrTemplateNotFound)
	_, err = svc.Get(tpl.ID)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestBlankCSVHeader(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, 1, "t", `<p>{{certificateName}}</p>`, nil,
		[]model.FieldBinding{
			{FieldName: "recipientName", FieldType: model.FieldTypeText},
			{FieldName: "course", FieldType: model.FieldTypeText},
		})
	require.NoError(t, err)

	header, err := svc.BlankCSVHeader(tpl.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"email", "recipientName", "course"}, header)

	// An explicit email column is not duplicated.
	withEmail, err := svc.Create(ctx, 1, "t2", `<p>{{certificateName}}</p>`, nil,
		[]model.FieldBinding{
			{FieldName: "recipientName", FieldType: model.FieldTypeText},
			{FieldName: "email", FieldType: model.FieldTypeText},
		})
	require.NoError(t, err)

	header, err = svc.BlankCSVHeader(withEmail.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"recipientName", "email"}, header)
}
