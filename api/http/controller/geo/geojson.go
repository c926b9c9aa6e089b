package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mycache "stadium/api/cache"
	"stadium/api/codes"
	"stadium/api/log"
	"stadium/api/model"
	"stadium/api/system"
)

// GeoJSON endpoints return raw FeatureCollections, not the response envelope,
// so map clients can consume them directly. Serialized payloads are cached
// per parameter combination and invalidated on any graph mutation.

type geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type geoJsonParams struct {
	level        string
	types        []string
	includeEdges bool
	includeSeats bool
}

func (p geoJsonParams) cacheKey() string {
	return fmt.Sprintf("geojson|%s|%s|%t|%t",
		p.level, strings.Join(p.types, ","), p.includeEdges, p.includeSeats)
}

func parseGeoJsonParams(c *gin.Context) geoJsonParams {
	p := geoJsonParams{
		level:        c.Query("level"),
		includeEdges: c.DefaultQuery("include_edges", "true") == "true",
		includeSeats: c.DefaultQuery("include_seats", "false") == "true",
	}
	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				p.types = append(p.types, t)
			}
		}
	}
	return p
}

func GeoJson(c *gin.Context) {
	serveGeoJson(c, parseGeoJsonParams(c))
}

// GeoJsonLevel is the path-parameter variant of GeoJson.
func GeoJsonLevel(c *gin.Context) {
	p := parseGeoJsonParams(c)
	p.level = c.Param("level")
	serveGeoJson(c, p)
}

// GeoJsonPois restricts the collection to point-of-interest features.
func GeoJsonPois(c *gin.Context) {
	p := parseGeoJsonParams(c)
	p.types = []string{
		model.NodeTypeRestroom,
		model.NodeTypeFood,
		model.NodeTypeBar,
		model.NodeTypeMerchandise,
		model.NodeTypeFirstAid,
		model.NodeTypeEmergencyExit,
		model.NodeTypeInformation,
		model.NodeTypeVipBox,
	}
	p.includeEdges = false
	serveGeoJson(c, p)
}

func serveGeoJson(c *gin.Context, p geoJsonParams) {
	key := p.cacheKey()
	if payload, hit := mycache.GetGeoJson(key); hit {
		c.Data(http.StatusOK, "application/geo+json", payload)
		return
	}

	fc, err := buildFeatureCollection(p)
	if err != nil {
		log.Error("build geojson error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	payload, err := json.Marshal(fc)
	if err != nil {
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.SetGeoJson(key, payload)
	c.Data(http.StatusOK, "application/geo+json", payload)
}

func buildFeatureCollection(p geoJsonParams) (*featureCollection, error) {
	db := system.GetDb()

	q := db.Model(&model.Node{})
	if p.level != "" {
		q = q.Where("level = ?", p.level)
	}
	if len(p.types) > 0 {
		q = q.Where("type IN ?", p.types)
	}
	if !p.includeSeats {
		q = q.Where("type <> ?", model.NodeTypeSeat)
	}

	var nodes []model.Node
	if err := q.Find(&nodes).Error; err != nil {
		return nil, err
	}

	fc := &featureCollection{Type: "FeatureCollection", Features: []feature{}}
	pos := make(map[string][2]float64, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = [2]float64{n.X, n.Y}
		props := map[string]any{
			"id":    n.ID,
			"type":  n.Type,
			"level": n.Level,
		}
		if n.Name != nil {
			props["name"] = *n.Name
		}
		if n.Block != nil {
			props["block"] = *n.Block
		}
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Geometry:   geometry{Type: "Point", Coordinates: []float64{n.X, n.Y}},
			Properties: props,
		})
	}

	if !p.includeEdges {
		return fc, nil
	}

	var edges []model.Edge
	if err := db.Find(&edges).Error; err != nil {
		return nil, err
	}
	for _, e := range edges {
		from, okFrom := pos[e.FromID]
		to, okTo := pos[e.ToID]
		if !okFrom || !okTo {
			// Endpoint filtered out or missing; the edge has no drawable line.
			continue
		}
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type: "LineString",
				Coordinates: [][]float64{
					{from[0], from[1]},
					{to[0], to[1]},
				},
			},
			Properties: map[string]any{
				"id":         e.ID,
				"from":       e.FromID,
				"to":         e.ToID,
				"w":          e.Weight,
				"accessible": e.Accessible,
			},
		})
	}
	return fc, nil
}
