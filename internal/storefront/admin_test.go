package storefront

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

func newTestAdmin() (*AdminPanel, *mockMangaAPI, *mockAuthorAPI, *mockCategoryAPI) {
	mangas := &mockMangaAPI{products: testProducts()}
	authors := &mockAuthorAPI{authors: []product.Author{{ID: "1", Name: "Oda"}}}
	cats := &mockCategoryAPI{categories: []product.Category{{ID: "1", Name: "Shonen"}}}
	return NewAdminPanel(mangas, authors, cats, zap.NewNop()), mangas, authors, cats
}

func TestAdminPanel_Load(t *testing.T) {
	a, _, _, _ := newTestAdmin()
	require.NoError(t, a.Load(context.Background()))
	assert.Equal(t, StatusLoaded, a.Status())
	assert.Len(t, a.Products(), 3)
	assert.Len(t, a.Authors(), 1)
	assert.Len(t, a.Categories(), 1)
	assert.Equal(t, "https://backend.test/api/Mangas/export", a.ExportURL())
}

func TestAdminPanel_LoadIsAllOrNothing(t *testing.T) {
	a, mangas, authors, _ := newTestAdmin()
	require.NoError(t, a.Load(context.Background()))

	mangas.products = nil
	authors.listErr = errors.New("authors down")

	err := a.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authors down")
	assert.Equal(t, StatusFailed, a.Status())
	assert.Len(t, a.Products(), 3, "previous products kept")
	assert.Len(t, a.Authors(), 1)
}

func TestProductForm_Input(t *testing.T) {
	valid := ProductForm{
		Title:      " Vagabond ",
		Price:      "39.90",
		Stock:      "5",
		AuthorID:   "2",
		CategoryID: "3",
		ImageURL:   "https://img/vagabond.jpg",
	}
	in, err := valid.Input()
	require.NoError(t, err)
	assert.Equal(t, "Vagabond", in.Title)
	assert.True(t, in.Price.Equal(decimal.RequireFromString("39.9")))
	assert.Equal(t, 5, in.Stock)
	assert.Equal(t, 2, in.AuthorID)
	assert.Equal(t, 3, in.CategoryID)

	tests := []struct {
		name  string
		edit  func(f *ProductForm)
		field string
	}{
		{name: "missing title", edit: func(f *ProductForm) { f.Title = "  " }, field: "title"},
		{name: "missing author", edit: func(f *ProductForm) { f.AuthorID = "" }, field: "author"},
		{name: "missing category", edit: func(f *ProductForm) { f.CategoryID = "" }, field: "author"},
		{name: "non-numeric category", edit: func(f *ProductForm) { f.CategoryID = "shonen" }, field: "category"},
		{name: "bad price", edit: func(f *ProductForm) { f.Price = "free" }, field: "price"},
		{name: "negative price", edit: func(f *ProductForm) { f.Price = "-1" }, field: "price"},
		{name: "bad stock", edit: func(f *ProductForm) { f.Stock = "1.5" }, field: "stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			_, err := f.Input()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestAdminPanel_AddProduct(t *testing.T) {
	a, mangas, _, _ := newTestAdmin()

	p, err := a.AddProduct(context.Background(), ProductForm{
		Title: "Vagabond", Price: "39.90", Stock: "5", AuthorID: "1", CategoryID: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "100", p.ID)
	require.Len(t, mangas.created, 1)
	assert.Equal(t, 1, mangas.listCalls(), "reloaded after create")
	assert.Equal(t, StatusLoaded, a.Status())
}

func TestAdminPanel_AddProductValidationSkipsRequest(t *testing.T) {
	a, mangas, _, _ := newTestAdmin()

	_, err := a.AddProduct(context.Background(), ProductForm{Title: "Vagabond", Price: "1", Stock: "1"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "select a valid author and category", vErr.Error())
	assert.Empty(t, mangas.created)
	assert.Zero(t, mangas.listCalls())
}

func TestAdminPanel_AddProductBackendError(t *testing.T) {
	a, mangas, _, _ := newTestAdmin()
	mangas.writeErr = errors.New("Validación fallida")

	_, err := a.AddProduct(context.Background(), ProductForm{
		Title: "Vagabond", Price: "39.90", Stock: "5", AuthorID: "1", CategoryID: "1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validación fallida")
	assert.Zero(t, mangas.listCalls())
}

func TestAdminPanel_UpdateProduct(t *testing.T) {
	a, mangas, _, _ := newTestAdmin()

	_, err := a.UpdateProduct(context.Background(), "2", ProductForm{
		Title: "Berserk Deluxe", Price: "99", Stock: "1", AuthorID: "1", CategoryID: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Berserk Deluxe", mangas.updated["2"].Title)
}

func TestAdminPanel_AuthorsAndCategories(t *testing.T) {
	a, _, authors, cats := newTestAdmin()
	ctx := context.Background()

	_, err := a.CreateAuthor(ctx, product.AuthorInput{Name: " "})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, authors.created)

	_, err = a.CreateAuthor(ctx, product.AuthorInput{Name: "Inoue", Nationality: "JP"})
	require.NoError(t, err)
	_, err = a.UpdateAuthor(ctx, "1", product.AuthorInput{Name: "Eiichiro Oda"})
	require.NoError(t, err)
	require.NoError(t, a.DeleteAuthor(ctx, "1"))
	assert.Equal(t, []string{"1"}, authors.deleted)

	_, err = a.CreateCategory(ctx, product.CategoryInput{})
	require.ErrorAs(t, err, &vErr)

	_, err = a.CreateCategory(ctx, product.CategoryInput{Name: "Seinen"})
	require.NoError(t, err)
	_, err = a.UpdateCategory(ctx, "1", product.CategoryInput{Name: "Shōnen"})
	require.NoError(t, err)
	require.Len(t, cats.created, 1)

	cats.deleteErr = errors.New("category in use")
	err = a.DeleteCategory(ctx, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category in use")
}
