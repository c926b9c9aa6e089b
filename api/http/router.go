package http

import (
	"github.com/gin-gonic/gin"

	"stadium/api/api/http/controller/emergency"
	"stadium/api/api/http/controller/geo"
	"stadium/api/api/http/controller/graph"
	"stadium/api/api/http/controller/gridctl"
	"stadium/api/api/http/controller/home"
)

func Routers(e *gin.RouterGroup) {

	e.GET("health", home.Health)
	e.POST("reset", home.Reset)

	mapGroup := e.Group("/map")
	mapGroup.GET("", geo.Map)
	mapGroup.GET("/visualization", geo.Visualization)
	mapGroup.GET("/preview", geo.Preview)
	mapGroup.GET("/bounds", geo.Bounds)
	mapGroup.GET("/search", geo.Search)
	mapGroup.GET("/geojson", geo.GeoJson)
	mapGroup.GET("/geojson/level/:level", geo.GeoJsonLevel)
	mapGroup.GET("/geojson/pois", geo.GeoJsonPois)

	e.GET("nodes", graph.ListNodes)
	e.GET("nodes/:id", graph.GetNode)
	e.POST("nodes", graph.CreateNode)
	e.PUT("nodes/:id", graph.UpdateNode)
	e.DELETE("nodes/:id", graph.DeleteNode)

	e.GET("edges", graph.ListEdges)
	e.GET("edges/:id", graph.GetEdge)
	e.POST("edges", graph.CreateEdge)
	e.PUT("edges/:id", graph.UpdateEdge)
	e.DELETE("edges/:id", graph.DeleteEdge)

	e.GET("closures", graph.ListClosures)
	e.GET("closures/:id", graph.GetClosure)
	e.POST("closures", graph.CreateClosure)
	e.DELETE("closures/:id", graph.DeleteClosure)

	e.GET("pois", graph.ListPois)
	e.GET("pois/:id", graph.GetPoi)
	e.PUT("pois/:id", graph.UpdatePoi)
	e.GET("seats", graph.ListSeats)
	e.GET("seats/:id", graph.GetSeat)
	e.PUT("seats/:id", graph.UpdateSeat)
	e.GET("gates", graph.ListGates)
	e.GET("gates/:id", graph.GetGate)
	e.PUT("gates/:id", graph.UpdateGate)

	gridGroup := e.Group("/maps/grid")
	gridGroup.GET("/config", gridctl.Config)
	gridGroup.GET("/tiles", gridctl.Tiles)
	gridGroup.GET("/cell/:gx/:gy", gridctl.Cell)
	gridGroup.POST("/rebuild", gridctl.Rebuild)
	gridGroup.GET("/stats", gridctl.Stats)

	emergencyGroup := e.Group("/emergency-routes")
	emergencyGroup.GET("", emergency.List)
	emergencyGroup.GET("/nearest", emergency.Nearest)
	emergencyGroup.GET("/:id", emergency.Route)
}
