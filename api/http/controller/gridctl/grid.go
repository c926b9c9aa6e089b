package gridctl

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stadium/api/api/common"
	mycache "stadium/api/cache"
	"stadium/api/codes"
	"stadium/api/log"
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

// Config reports the grid geometry the index was built with.
func Config(c *gin.Context) {
	g := system.GetGridIndex().Grid()
	ok(c, gin.H{
		"cell_size": g.CellSize,
		"origin_x":  g.OriginX,
		"origin_y":  g.OriginY,
	})
}

// Tiles lists tiles, optionally for one level, with per-category counts.
func Tiles(c *gin.Context) {
	var level *int
	if raw := c.Query("level"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, codes.CODE_ERR_BAD_PARAMS, "level must be an integer")
			return
		}
		level = &v
	}

	tiles, err := system.GetGridIndex().Tiles(level)
	if err != nil {
		log.Error("list tiles error", err)
		fail(c, codes.CODE_ERR_GRID, err.Error())
		return
	}

	out := make([]gin.H, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, gin.H{
			"tile": t,
			"entity_counts": gin.H{
				"nodes": len(t.NodeIDs),
				"pois":  len(t.PoiIDs),
				"seats": len(t.SeatIDs),
				"gates": len(t.GateIDs),
			},
		})
	}
	ok(c, gin.H{"tiles": out, "count": len(out)})
}

// Cell resolves every entity filed in one cell. An unpopulated cell returns
// empty lists, not an error.
func Cell(c *gin.Context) {
	gx, err := strconv.Atoi(c.Param("gx"))
	if err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "gx must be an integer")
		return
	}
	gy, err := strconv.Atoi(c.Param("gy"))
	if err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "gy must be an integer")
		return
	}
	level := 0
	if raw := c.Query("level"); raw != "" {
		level, err = strconv.Atoi(raw)
		if err != nil {
			fail(c, codes.CODE_ERR_BAD_PARAMS, "level must be an integer")
			return
		}
	}

	contents, err := system.GetGridIndex().EntitiesInCell(
		store.NewNodes(system.GetDb()), gx, gy, level)
	if err != nil {
		log.Error("cell contents error", err)
		fail(c, codes.CODE_ERR_GRID, err.Error())
		return
	}
	ok(c, contents)
}

// Rebuild reindexes every entity from scratch. Cancellation of the request
// aborts the rebuild and leaves the previous tiles in place.
func Rebuild(c *gin.Context) {
	start := time.Now()
	count, err := system.GetGridIndex().Rebuild(
		c.Request.Context(), store.NewNodes(system.GetDb()))
	if err != nil {
		log.Error("grid rebuild error", err)
		fail(c, codes.CODE_ERR_GRID, err.Error())
		return
	}
	mycache.InvalidateGeoJson()

	ok(c, gin.H{
		"tiles":       count,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

func Stats(c *gin.Context) {
	st, err := system.GetGridIndex().Stats()
	if err != nil {
		log.Error("grid stats error", err)
		fail(c, codes.CODE_ERR_GRID, err.Error())
		return
	}
	ok(c, st)
}
