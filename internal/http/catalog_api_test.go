package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"

	"bodyfuel/internal/domain"
	"bodyfuel/internal/http/handlers"
	"bodyfuel/internal/repos"
	"bodyfuel/internal/services"
)

func newCatalogApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	catalogH := &handlers.CatalogHandler{Catalog: services.NewCatalogService(repos.NewProductRepo(db))}

	app := fiber.New()
	app.Get("/api/v1/products", catalogH.List)
	app.Get("/api/v1/products/options", catalogH.Options)
	app.Get("/api/v1/products/:id", catalogH.Detail)
	app.Get("/api/v1/products/:id/recommended", catalogH.Recommended)
	return app
}

type productsResp struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

func getProducts(t *testing.T, app *fiber.App, rawQuery string) productsResp {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products?"+rawQuery, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out productsResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestCatalogListFiltersAndSorts(t *testing.T) {
	app := newCatalogApp(t)

	all := getProducts(t, app, "")
	if all.Count != 12 {
		t.Fatalf("unfiltered count = %d, want 12", all.Count)
	}

	got := getProducts(t, app, url.Values{"category": {"Mass Gainers"}}.Encode())
	for _, p := range got.Products {
		if p.Category != "Mass Gainers" {
			t.Fatalf("category filter leaked %q", p.Category)
		}
	}

	got = getProducts(t, app, url.Values{
		"priceMin": {"40"},
		"priceMax": {"50"},
		"sort":     {"price-asc"},
	}.Encode())
	if len(got.Products) == 0 {
		t.Fatal("price range should match seeded products")
	}
	for i, p := range got.Products {
		if p.Price < 40 || p.Price > 50 {
			t.Fatalf("price filter leaked %v", p.Price)
		}
		if i > 0 && got.Products[i-1].Price > p.Price {
			t.Fatal("price-asc order violated")
		}
	}

	got = getProducts(t, app, url.Values{"dietary": {"Vegan,Sans lactose"}}.Encode())
	if len(got.Products) == 0 {
		t.Fatal("dietary filter should match seeded products")
	}

	// An unknown sort key behaves like relevance.
	got = getProducts(t, app, url.Values{"sort": {"zigzag"}}.Encode())
	if got.Count != 12 {
		t.Fatalf("unknown sort count = %d", got.Count)
	}
}

func TestCatalogDetailCarriesSizeOptions(t *testing.T) {
	app := newCatalogApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/2", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Product     domain.Product      `json:"product"`
		SizeOptions []domain.SizeOption `json:"sizeOptions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Product.Name != "Whey Protein Isolate" {
		t.Fatalf("product name = %q", body.Product.Name)
	}
	if len(body.SizeOptions) != 3 {
		t.Fatalf("expected 3 size options, got %d", len(body.SizeOptions))
	}
	if diff := body.SizeOptions[1].Price - 39.99*1.8; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("2kg price = %v", body.SizeOptions[1].Price)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/products/999", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", resp.StatusCode)
	}
}

func TestCatalogRecommendedSkipsSelfAndOutOfStock(t *testing.T) {
	app := newCatalogApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/1/recommended", nil))
	if err != nil {
		t.Fatal(err)
	}
	var body productsResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Products) == 0 {
		t.Fatal("expected recommendations")
	}
	for _, p := range body.Products {
		if p.ID == 1 {
			t.Fatal("recommended list contains the product itself")
		}
		if !p.InStock {
			t.Fatalf("recommended list contains out-of-stock product %d", p.ID)
		}
	}
}

func TestCatalogOptionsListDistinctValues(t *testing.T) {
	app := newCatalogApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/options", nil))
	if err != nil {
		t.Fatal(err)
	}
	var opts struct {
		Categories []string `json:"categories"`
		Brands     []string `json:"brands"`
		Dietary    []string `json:"dietary"`
		Goals      []string `json:"goals"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&opts); err != nil {
		t.Fatal(err)
	}
	if len(opts.Categories) != 3 {
		t.Fatalf("categories = %v", opts.Categories)
	}
	seen := map[string]bool{}
	for _, b := range opts.Brands {
		if seen[b] {
			t.Fatalf("duplicate brand %q", b)
		}
		seen[b] = true
	}
	if len(opts.Dietary) == 0 || len(opts.Goals) == 0 {
		t.Fatal("dietary and goals should be populated")
	}
}
