package graph

import (
	"github.com/gin-gonic/gin"

	mycache "stadium/api/cache"
	"stadium/api/codes"
	"stadium/api/grid"
	"stadium/api/log"
	"stadium/api/model"
	"stadium/api/store"
	"stadium/api/system"
)

// The typed views expose the same node rows filtered down to one category.
// A poi id handed to /gates/:id is a not-found, not a type error.

func ListPois(c *gin.Context) {
	q := system.GetDb().Model(&model.Node{})
	if poiType := c.Query("type"); poiType != "" {
		if !model.IsPoiType(poiType) {
			fail(c, codes.CODE_ERR_BAD_PARAMS, "unknown poi type: "+poiType)
			return
		}
		q = q.Where("type = ?", poiType)
	} else {
		q = q.Where("type IN ?", poiTypeList())
	}
	if level := c.Query("level"); level != "" {
		q = q.Where("level = ?", level)
	}

	var pois []model.Node
	if err := q.Find(&pois).Error; err != nil {
		log.Error("list pois error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	ok(c, gin.H{"pois": pois, "count": len(pois)})
}

func poiTypeList() []string {
	return []string{
		model.NodeTypeRestroom,
		model.NodeTypeFood,
		model.NodeTypeBar,
		model.NodeTypeMerchandise,
		model.NodeTypeFirstAid,
		model.NodeTypeEmergencyExit,
		model.NodeTypeInformation,
		model.NodeTypeVipBox,
	}
}

func GetPoi(c *gin.Context) {
	getTyped(c, func(n *model.Node) bool { return model.IsPoiType(n.Type) })
}

func GetSeat(c *gin.Context) {
	getTyped(c, func(n *model.Node) bool { return n.Type == model.NodeTypeSeat })
}

func GetGate(c *gin.Context) {
	getTyped(c, func(n *model.Node) bool { return n.Type == model.NodeTypeGate })
}

func getTyped(c *gin.Context, match func(*model.Node) bool) {
	node, err := store.NewNodes(system.GetDb()).GetByID(c.Param("id"))
	if err != nil {
		log.Error("get node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if node == nil || !match(node) {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "not found")
		return
	}
	ok(c, node)
}

func ListSeats(c *gin.Context) {
	db := system.GetDb()
	q := db.Model(&model.Node{}).Where("type = ?", model.NodeTypeSeat)
	if block := c.Query("block"); block != "" {
		q = q.Where("block = ?", block)
	}
	if level := c.Query("level"); level != "" {
		q = q.Where("level = ?", level)
	}

	var seats []model.Node
	if err := q.Find(&seats).Error; err != nil {
		log.Error("list seats error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	ok(c, gin.H{"seats": seats, "count": len(seats)})
}

func ListGates(c *gin.Context) {
	var gates []model.Node
	err := system.GetDb().Where("type = ?", model.NodeTypeGate).Find(&gates).Error
	if err != nil {
		log.Error("list gates error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	ok(c, gin.H{"gates": gates, "count": len(gates)})
}

func UpdatePoi(c *gin.Context) {
	updateTyped(c, func(n *model.Node) bool { return model.IsPoiType(n.Type) })
}

func UpdateSeat(c *gin.Context) {
	updateTyped(c, func(n *model.Node) bool { return n.Type == model.NodeTypeSeat })
}

func UpdateGate(c *gin.Context) {
	updateTyped(c, func(n *model.Node) bool { return n.Type == model.NodeTypeGate })
}

// updateTyped is UpdateNode restricted to nodes matching the view. The type
// itself stays immutable through these endpoints.
func updateTyped(c *gin.Context, match func(*model.Node) bool) {
	var req NodeUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, err.Error())
		return
	}
	if req.Type != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "type cannot be changed through a typed view")
		return
	}

	db := system.GetDb()
	node, err := store.NewNodes(db).GetByID(c.Param("id"))
	if err != nil {
		log.Error("get node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if node == nil || !match(node) {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "not found")
		return
	}

	applyNodeUpdate(node, &req)

	if _, err := system.GetGridIndex().AssignEntity(
		node.X, node.Y, node.Level, grid.CategoryForType(node.Type), node.ID); err != nil {
		fail(c, codes.CODE_ERR_GRID, err.Error())
		return
	}

	if err := db.Save(node).Error; err != nil {
		log.Error("update node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()
	if err := system.GetSearchIndex().Upsert(*node); err != nil {
		log.Warnf("search index update for %s failed: %v", node.ID, err)
	}

	ok(c, node)
}
