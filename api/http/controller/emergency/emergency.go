package emergency

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stadium/api/api/common"
	"stadium/api/codes"
	"stadium/api/log"
	"stadium/api/model"
	"stadium/api/store"
	"stadium/api/system"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, common.Response{
		Code:      codes.CODE_SUCCESS,
		Msg:       "success",
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, common.Response{
		Code:      code,
		Msg:       msg,
		Timestamp: time.Now().Unix(),
	})
}

func List(c *gin.Context) {
	var routes []model.EmergencyRoute
	if err := system.GetDb().Find(&routes).Error; err != nil {
		log.Error("list emergency routes error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	ok(c, gin.H{"routes": routes, "count": len(routes)})
}

// offLevelPenalty is added to the scored distance when the route's entry
// point sits on a different level than the caller, so a same-level route
// always wins over a marginally closer one a staircase away.
const offLevelPenalty = 100.0

type rankedRoute struct {
	Route    model.EmergencyRoute `json:"route"`
	Start    model.Node           `json:"start"`
	Distance decimal.Decimal      `json:"distance"`
}

// rankRoutes scores routes by straight-line distance from (x, y) to each
// route's first waypoint and returns them closest first. What matters to an
// evacuee is how far the route's entry point is, not its exit. Routes with no
// waypoints or an unresolvable start node are skipped.
func rankRoutes(routes []model.EmergencyRoute, nodeByID map[string]model.Node, x, y float64, level int) []rankedRoute {
	ranked := make([]rankedRoute, 0, len(routes))
	for _, r := range routes {
		if len(r.NodeIDs) == 0 {
			continue
		}
		start, found := nodeByID[r.NodeIDs[0]]
		if !found {
			log.Warnf("emergency route %s references missing start node %s", r.ID, r.NodeIDs[0])
			continue
		}
		d := math.Hypot(start.X-x, start.Y-y)
		if start.Level != level {
			d += offLevelPenalty
		}
		ranked = append(ranked, rankedRoute{
			Route:    r,
			Start:    start,
			Distance: decimal.NewFromFloat(d).Round(2),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Distance.LessThan(ranked[j].Distance)
	})
	return ranked
}

// Nearest scores every emergency route by straight-line distance from the
// caller's position to the route's start node and returns them closest first.
func Nearest(c *gin.Context) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "x and y are required numbers")
		return
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "x and y must be finite")
		return
	}
	level := 0
	if raw := c.Query("level"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, codes.CODE_ERR_BAD_PARAMS, "level must be an integer")
			return
		}
		level = v
	}

	db := system.GetDb()
	var routes []model.EmergencyRoute
	if err := db.Find(&routes).Error; err != nil {
		log.Error("load emergency routes error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if len(routes) == 0 {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "no emergency routes defined")
		return
	}

	startIDs := make([]string, 0, len(routes))
	for _, r := range routes {
		if len(r.NodeIDs) > 0 {
			startIDs = append(startIDs, r.NodeIDs[0])
		}
	}
	starts, err := store.NewNodes(db).GetByIDs(startIDs)
	if err != nil {
		log.Error("load route start nodes error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	startByID := make(map[string]model.Node, len(starts))
	for _, n := range starts {
		startByID[n.ID] = n
	}

	ranked := rankRoutes(routes, startByID, x, y, level)
	if len(ranked) == 0 {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "no usable emergency route")
		return
	}

	ok(c, gin.H{
		"nearest":      ranked[0],
		"alternatives": ranked[1:],
	})
}

// Route returns one evacuation route as a GeoJSON LineString through its
// waypoint nodes, plus the resolved waypoints themselves.
func Route(c *gin.Context) {
	id := c.Param("id")
	db := system.GetDb()

	var route model.EmergencyRoute
	err := db.Where("id = ?", id).First(&route).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "emergency route not found")
		return
	}
	if err != nil {
		log.Error("load emergency route error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	nodes, err := store.NewNodes(db).GetByIDs(route.NodeIDs)
	if err != nil {
		log.Error("load route waypoints error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	byID := make(map[string]model.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	coords := make([][]float64, 0, len(route.NodeIDs))
	waypoints := make([]model.Node, 0, len(route.NodeIDs))
	for _, nid := range route.NodeIDs {
		n, found := byID[nid]
		if !found {
			log.Warnf("emergency route %s has stale waypoint %s", route.ID, nid)
			continue
		}
		coords = append(coords, []float64{n.X, n.Y})
		waypoints = append(waypoints, n)
	}

	ok(c, gin.H{
		"route": route,
		"geojson": gin.H{
			"type": "Feature",
			"geometry": gin.H{
				"type":        "LineString",
				"coordinates": coords,
			},
			"properties": gin.H{
				"id":      route.ID,
				"name":    route.Name,
				"exit_id": route.ExitID,
			},
		},
		"waypoints": waypoints,
	})
}
