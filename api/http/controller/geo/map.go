package geo

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"stadium/api/codes"
	"stadium/api/log"
	"stadium/api/model"
	"stadium/api/store"
	"stadium/api/system"
)

// Map dumps the whole navigation graph: nodes, edges and active closures.
func Map(c *gin.Context) {
	db := system.GetDb()

	var nodes []model.Node
	if err := db.Find(&nodes).Error; err != nil {
		log.Error("map dump nodes error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	var edges []model.Edge
	if err := db.Find(&edges).Error; err != nil {
		log.Error("map dump edges error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	var closures []model.Closure
	if err := db.Find(&closures).Error; err != nil {
		log.Error("map dump closures error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	ok(c, gin.H{
		"nodes":    nodes,
		"edges":    edges,
		"closures": closures,
	})
}

// Visualization groups nodes per category for one level, the shape the map
// front end draws from.
func Visualization(c *gin.Context) {
	q := system.GetDb().Model(&model.Node{})
	if level := c.Query("level"); level != "" {
		q = q.Where("level = ?", level)
	}

	var nodes []model.Node
	if err := q.Find(&nodes).Error; err != nil {
		log.Error("visualization error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	groups := map[string][]model.Node{
		"corridors": {},
		"seats":     {},
		"gates":     {},
		"pois":      {},
		"transit":   {},
		"other":     {},
	}
	for _, n := range nodes {
		switch {
		case n.Type == model.NodeTypeCorridor || n.Type == model.NodeTypeRowAisle:
			groups["corridors"] = append(groups["corridors"], n)
		case n.Type == model.NodeTypeSeat:
			groups["seats"] = append(groups["seats"], n)
		case n.Type == model.NodeTypeGate:
			groups["gates"] = append(groups["gates"], n)
		case n.Type == model.NodeTypeStairs || n.Type == model.NodeTypeRamp:
			groups["transit"] = append(groups["transit"], n)
		case model.IsPoiType(n.Type):
			groups["pois"] = append(groups["pois"], n)
		default:
			groups["other"] = append(groups["other"], n)
		}
	}

	stats := gin.H{}
	for name, g := range groups {
		stats[name] = len(g)
	}

	ok(c, gin.H{
		"groups": groups,
		"stats":  stats,
		"total":  len(nodes),
	})
}

// Bounds reports the bounding box, center and distinct levels of the map.
func Bounds(c *gin.Context) {
	db := system.GetDb()

	var count int64
	if err := db.Model(&model.Node{}).Count(&count).Error; err != nil {
		log.Error("bounds count error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if count == 0 {
		ok(c, gin.H{"empty": true})
		return
	}

	var box struct {
		MinX float64
		MaxX float64
		MinY float64
		MaxY float64
	}
	err := db.Model(&model.Node{}).
		Select("MIN(x) AS min_x, MAX(x) AS max_x, MIN(y) AS min_y, MAX(y) AS max_y").
		Scan(&box).Error
	if err != nil {
		log.Error("bounds error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	var levels []int
	if err := db.Model(&model.Node{}).Distinct("level").Order("level").Pluck("level", &levels).Error; err != nil {
		log.Error("bounds levels error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	ok(c, gin.H{
		"min_x":    box.MinX,
		"max_x":    box.MaxX,
		"min_y":    box.MinY,
		"max_y":    box.MaxY,
		"center_x": (box.MinX + box.MaxX) / 2,
		"center_y": (box.MinY + box.MaxY) / 2,
		"levels":   levels,
	})
}

// Search looks nodes up by name through the in-memory search index.
func Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "q is required")
		return
	}
	limit := 20
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	hits, err := system.GetSearchIndex().Search(q, limit)
	if err != nil {
		log.Error("search error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	ids := make([]string, 0, len(hits))
	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
		scores[h.ID] = h.Score
	}

	nodes, err := store.NewNodes(system.GetDb()).GetByIDs(ids)
	if err != nil {
		log.Error("search resolve error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	byID := make(map[string]model.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	levelFilter := c.Query("level")
	results := []gin.H{}
	for _, id := range ids {
		n, found := byID[id]
		if !found {
			continue
		}
		if levelFilter != "" && strconv.Itoa(n.Level) != levelFilter {
			continue
		}
		results = append(results, gin.H{"node": n, "score": scores[id]})
	}

	ok(c, gin.H{"results": results, "count": len(results)})
}
