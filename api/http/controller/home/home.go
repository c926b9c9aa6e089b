package home

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stadium/api/api/common"
	mycache "stadium/api/cache"
	"stadium/api/codes"
	"stadium/api/loader"
	"stadium/api/log"
	"stadium/api/model"
	"stadium/api/store"
	"stadium/api/system"
)

func Health(c *gin.Context) {
	res := common.Response{}
	res.Timestamp = time.Now().Unix()

	var nodes int64
	dbOk := system.GetDb().Model(&model.Node{}).Count(&nodes).Error == nil

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{
		"status": "ok",
		"db":     dbOk,
		"nodes":  nodes,
	}
	c.JSON(http.StatusOK, res)
}

// Reset wipes the graph, regenerates the sample stadium and rebuilds both
// the spatial index and the search index.
func Reset(c *gin.Context) {
	res := common.Response{}
	res.Timestamp = time.Now().Unix()

	ds := loader.Generate(loader.DefaultOptions())
	db := system.GetDb()
	if err := loader.Load(db, ds); err != nil {
		log.Error("reset load error", err)
		res.Code = codes.CODE_ERR_DB
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	nodes := store.NewNodes(db)
	tiles, err := system.GetGridIndex().Rebuild(c.Request.Context(), nodes)
	if err != nil {
		log.Error("reset grid rebuild error", err)
		res.Code = codes.CODE_ERR_GRID
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	all, err := nodes.All()
	if err == nil {
		err = system.GetSearchIndex().Rebuild(all)
	}
	if err != nil {
		log.Error("reset search rebuild error", err)
		res.Code = codes.CODE_ERR_DB
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}
	mycache.InvalidateGeoJson()

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{
		"nodes":  len(ds.Nodes),
		"edges":  len(ds.Edges),
		"routes": len(ds.Routes),
		"tiles":  tiles,
	}
	c.JSON(http.StatusOK, res)
}
