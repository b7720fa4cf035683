package storefront

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/xenking/otamanga-storefront/internal/domain/auth"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
	"github.com/xenking/otamanga-storefront/internal/session"
)

// --- Mock implementations ---

type mockMangaAPI struct {
	mu       sync.Mutex
	products []product.Product
	listErr  error
	writeErr error
	lists    int
	created  []product.Input
	updated  map[string]product.Input
}

func (m *mockMangaAPI) List(_ context.Context) ([]product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	return m.products, m.listErr
}

func (m *mockMangaAPI) Get(_ context.Context, id string) (*product.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (m *mockMangaAPI) Create(_ context.Context, in product.Input) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.created = append(m.created, in)
	return &product.Product{ID: "100", Title: in.Title, Price: in.Price}, nil
}

func (m *mockMangaAPI) Update(_ context.Context, id string, in product.Input) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	if m.updated == nil {
		m.updated = make(map[string]product.Input)
	}
	m.updated[id] = in
	return &product.Product{ID: id, Title: in.Title, Price: in.Price}, nil
}

func (m *mockMangaAPI) ExportURL() string {
	return "https://backend.test/api/Mangas/export"
}

func (m *mockMangaAPI) Export(_ context.Context, w io.Writer) (int64, error) {
	return io.Copy(w, strings.NewReader("xlsx"))
}

func (m *mockMangaAPI) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

type mockAuthorAPI struct {
	authors []product.Author
	listErr error
	created []product.AuthorInput
	deleted []string
}

func (m *mockAuthorAPI) List(_ context.Context) ([]product.Author, error) {
	return m.authors, m.listErr
}

func (m *mockAuthorAPI) Create(_ context.Context, in product.AuthorInput) (*product.Author, error) {
	m.created = append(m.created, in)
	return &product.Author{ID: "1", Name: in.Name}, nil
}

func (m *mockAuthorAPI) Update(_ context.Context, id string, in product.AuthorInput) (*product.Author, error) {
	return &product.Author{ID: id, Name: in.Name}, nil
}

func (m *mockAuthorAPI) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCategoryAPI struct {
	categories []product.Category
	listErr    error
	created    []product.CategoryInput
	deleteErr  error
}

func (m *mockCategoryAPI) List(_ context.Context) ([]product.Category, error) {
	return m.categories, m.listErr
}

func (m *mockCategoryAPI) Create(_ context.Context, in product.CategoryInput) (*product.Category, error) {
	m.created = append(m.created, in)
	return &product.Category{ID: "1", Name: in.Name}, nil
}

func (m *mockCategoryAPI) Update(_ context.Context, id string, in product.CategoryInput) (*product.Category, error) {
	return &product.Category{ID: id, Name: in.Name}, nil
}

func (m *mockCategoryAPI) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

type mockAuthAPI struct {
	session    *auth.Session
	loginErr   error
	logoutErr  error
	logins     int
	registered []auth.Registration
	status     *auth.Status
}

func (m *mockAuthAPI) Login(_ context.Context, _ auth.Credentials) (*auth.Session, error) {
	m.logins++
	return m.session, m.loginErr
}

func (m *mockAuthAPI) Register(_ context.Context, r auth.Registration) error {
	m.registered = append(m.registered, r)
	return nil
}

func (m *mockAuthAPI) Logout(_ context.Context) error {
	return m.logoutErr
}

func (m *mockAuthAPI) CheckAuth(_ context.Context) (*auth.Status, error) {
	return m.status, nil
}

type memStore struct {
	values map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string][]byte)}
}

func (m *memStore) Get(key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, session.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Put(key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.values, key)
	return nil
}
