package mycache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const geoJsonCacheTTL = 5 * time.Minute

var GeoJsonCache *ristretto.Cache[string, []byte]

func init() {
	cache, err := ristretto.NewCache[string, []byte](&ristretto.Config[string, []byte]{
		NumCounters: 10000,
		MaxCost:     50 * 1024 * 1024, // 50MB, enough for every level/type combination
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	GeoJsonCache = cache
}

// GetGeoJson returns a cached serialized FeatureCollection, ok reports a hit.
func GetGeoJson(key string) ([]byte, bool) {
	GeoJsonCache.Wait()
	return GeoJsonCache.Get(key)
}

// SetGeoJson caches a serialized FeatureCollection for 5 minutes.
func SetGeoJson(key string, payload []byte) {
	if len(payload) == 0 {
		return
	}
	GeoJsonCache.SetWithTTL(key, payload, int64(len(payload)), geoJsonCacheTTL)
	GeoJsonCache.Wait()
}

// InvalidateGeoJson drops every cached payload. Called after any graph
// mutation so stale map data never outlives its TTL window unnecessarily.
func InvalidateGeoJson() {
	GeoJsonCache.Clear()
}
