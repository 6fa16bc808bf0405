package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mandado/internal/repository"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, baseURL, baseURL, 5*time.Second, nil)
}

func TestSearch_ParsesNominatimResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"display_name":"Av. Paulista, São Paulo","lat":"-23.5614","lon":"-46.6559"}]`))
	}))
	defer srv.Close()

	places, err := newTestClient(srv.URL).Search(context.Background(), "av paulista")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
	if places[0].Lat != -23.5614 || places[0].Lng != -46.6559 {
		t.Errorf("unexpected coordinates: %+v", places[0])
	}
}

func TestLookupCEP_UnknownCEPIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).LookupCEP(context.Background(), "00000000")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupCEP_ValidCEP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	addr, err := newTestClient(srv.URL).LookupCEP(context.Background(), "01310100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.City != "São Paulo" || addr.State != "SP" {
		t.Errorf("unexpected address: %+v", addr)
	}
}

func TestNearby_ParsesOverpassElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/interpreter" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"elements":[
			{"lat":-23.5610,"lon":-46.6550,"tags":{"name":"Drogaria Central","amenity":"pharmacy"}},
			{"lat":-23.5620,"lon":-46.6560,"tags":{"name":"Farma Já","amenity":"pharmacy"}}
		]}`))
	}))
	defer srv.Close()

	places, err := newTestClient(srv.URL).Nearby(context.Background(), -23.5614, -46.6559, "pharmacy", 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[0].Name != "Drogaria Central" || places[0].Amenity != "pharmacy" {
		t.Errorf("unexpected place: %+v", places[0])
	}
}

func TestFetch_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Search(context.Background(), "anything"); err == nil {
		t.Error("expected an error for non-200 response")
	}
}
