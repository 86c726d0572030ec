//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListFruitsSeeded(t *testing.T) {
	resp := doGet(t, "/v1/fruits")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[fruitsResponse](t, resp)
	if len(body.Fruits) != 3 {
		t.Fatalf("expected 3 fruits, got %d", len(body.Fruits))
	}

	byName := make(map[string]fruitResponse)
	for _, f := range body.Fruits {
		byName[f.Name] = f
	}

	banana, ok := byName["banana"]
	if !ok {
		t.Fatal("banana missing from fruit list")
	}
	if banana.Price != 4.5 {
		t.Fatalf("banana price = %v, want 4.5", banana.Price)
	}
	if len(banana.Vitamins) != 2 {
		t.Fatalf("banana has %d vitamins, want 2 (C, B6)", len(banana.Vitamins))
	}
	for _, v := range banana.Vitamins {
		if v.Description == "" {
			t.Fatalf("vitamin %q has no description in fruit listing", v.Name)
		}
	}
}

func TestListLiquidsSeeded(t *testing.T) {
	resp := doGet(t, "/v1/liquids")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[liquidsResponse](t, resp)
	if len(body.Liquids) != 2 {
		t.Fatalf("expected 2 liquids, got %d", len(body.Liquids))
	}
}

func TestStoreFruit(t *testing.T) {
	resp := doJSON(t, http.MethodPut, "/v1/fruits/store", map[string]any{
		"name":        "kiwi",
		"price":       3.25,
		"description": "small and green",
		"image":       "http://someurl.com/image/kiwi.jpeg",
		"vitamins":    []string{"C"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	fruit := decodeJSON[fruitResponse](t, resp)
	if fruit.Name != "kiwi" {
		t.Fatalf("name = %q, want kiwi", fruit.Name)
	}
	if fruit.Price != 3.25 {
		t.Fatalf("price = %v, want 3.25", fruit.Price)
	}
	if len(fruit.Vitamins) != 1 || fruit.Vitamins[0].Name != "C" {
		t.Fatalf("vitamins = %+v, want single C", fruit.Vitamins)
	}
}

func TestStoreFruitVitaminsAccumulate(t *testing.T) {
	store := func(vitamins []string) fruitResponse {
		t.Helper()
		resp := doJSON(t, http.MethodPut, "/v1/fruits/store", map[string]any{
			"name":        "papaya",
			"price":       5.0,
			"description": "tropical",
			"image":       "",
			"vitamins":    vitamins,
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		return decodeJSON[fruitResponse](t, resp)
	}

	fruit := store([]string{"C"})
	if len(fruit.Vitamins) != 1 || fruit.Vitamins[0].Name != "C" {
		t.Fatalf("vitamins = %+v, want single C", fruit.Vitamins)
	}

	fruit = store([]string{"B6"})
	if len(fruit.Vitamins) != 2 {
		t.Fatalf("vitamins = %+v, want C and B6 after second upsert", fruit.Vitamins)
	}
	names := map[string]bool{}
	for _, v := range fruit.Vitamins {
		names[v.Name] = true
	}
	if !names["C"] || !names["B6"] {
		t.Fatalf("vitamins = %+v, want C and B6", fruit.Vitamins)
	}
}

func TestStoreFruitMissingName(t *testing.T) {
	resp := doJSON(t, http.MethodPut, "/v1/fruits/store", map[string]any{
		"price": 1.0,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusBadRequest {
		t.Fatalf("error code = %d, want 400", body.Code)
	}
}

func TestStoreLiquid(t *testing.T) {
	resp := doJSON(t, http.MethodPut, "/v1/liquids/store", map[string]any{
		"name":        "coconut water",
		"price":       2.75,
		"description": "hydrating and light",
		"image":       "http://someurl.com/image/coconut.jpeg",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	liquid := decodeJSON[liquidResponse](t, resp)
	if liquid.Name != "coconut water" {
		t.Fatalf("name = %q, want coconut water", liquid.Name)
	}
	if liquid.Price != 2.75 {
		t.Fatalf("price = %v, want 2.75", liquid.Price)
	}
}
