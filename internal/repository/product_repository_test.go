package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func productRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "price_cents", "category_id", "category_name",
		"quantity", "artists", "shipping", "created_at", "updated_at",
	}).AddRow(1, "Abbey Road", "abbey-road", "1969 LP", 2999, 2, "Rock", 10, "The Beatles", true, now, now)
}

func TestProductRepoFilterBuildsConditions(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	min, max := uint64(1000), uint64(5000)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.category_id IN (?,?) AND p.price_cents >= ? AND p.price_cents <= ?")).
		WithArgs(uint64(2), uint64(5), min, max).
		WillReturnRows(productRows())

	items, err := NewProductRepo(db).Filter(context.Background(), ProductFilter{
		CategoryIDs: []uint64{2, 5}, MinCents: &min, MaxCents: &max,
	})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "abbey-road" {
		t.Fatalf("unexpected result: %+v", items)
	}
	expectMet(t, mock)
}

func TestProductRepoFilterEmptyMatchesAll(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1")).
		WillReturnRows(productRows())

	if _, err := NewProductRepo(db).Filter(context.Background(), ProductFilter{}); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	expectMet(t, mock)
}

func TestProductRepoSearchLowercasesKeyword(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(p.name) LIKE ?")).
		WithArgs("%abbey road%", "%abbey road%", "%abbey road%").
		WillReturnRows(productRows())

	items, err := NewProductRepo(db).Search(context.Background(), "Abbey Road")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	expectMet(t, mock)
}

func TestProductRepoCreateDuplicateSlug(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'abbey-road' for key 'products.slug'"))

	p := &Product{Name: "Abbey Road", Slug: "abbey-road"}
	if err := NewProductRepo(db).Create(context.Background(), p); !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	expectMet(t, mock)
}

func TestProductRepoUpdateMissing(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := &Product{ID: 42, Name: "Nothing Here", Slug: "nothing-here"}
	if err := NewProductRepo(db).Update(context.Background(), p); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("got %v, want ErrProductNotFound", err)
	}
	expectMet(t, mock)
}

func TestProductRepoRelatedExcludesSelf(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.category_id = ? AND p.id <> ?")).
		WithArgs(uint64(2), uint64(1), 3).
		WillReturnRows(productRows())

	if _, err := NewProductRepo(db).Related(context.Background(), 1, 2, 3); err != nil {
		t.Fatalf("Related: %v", err)
	}
	expectMet(t, mock)
}
