package geo

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paramsFor(t *testing.T, url string) geoJsonParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return parseGeoJsonParams(c)
}

func TestParseGeoJsonParams(t *testing.T) {
	p := paramsFor(t, "/map/geojson?level=1&types=gate,%20food&include_seats=true")
	if p.level != "1" {
		t.Errorf("level = %q, want 1", p.level)
	}
	if len(p.types) != 2 || p.types[0] != "gate" || p.types[1] != "food" {
		t.Errorf("types = %v, want [gate food]", p.types)
	}
	if !p.includeSeats {
		t.Error("include_seats=true not honored")
	}
	if !p.includeEdges {
		t.Error("include_edges should default to true")
	}
}

func TestParseGeoJsonParamsDefaults(t *testing.T) {
	p := paramsFor(t, "/map/geojson")
	if p.level != "" || len(p.types) != 0 {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if p.includeSeats {
		t.Error("seats should be excluded by default")
	}
	if !p.includeEdges {
		t.Error("edges should be included by default")
	}
}

func TestCacheKeyDistinguishesParams(t *testing.T) {
	keys := map[string]bool{}
	for _, url := range []string{
		"/map/geojson",
		"/map/geojson?level=1",
		"/map/geojson?level=2",
		"/map/geojson?types=gate",
		"/map/geojson?include_seats=true",
		"/map/geojson?include_edges=false",
	} {
		k := paramsFor(t, url).cacheKey()
		if keys[k] {
			t.Errorf("cache key collision for %s: %q", url, k)
		}
		keys[k] = true
	}
}
