package graph

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mycache "stadium/api/cache"
	"stadium/api/codes"
	"stadium/api/grid"
	"stadium/api/log"
	"stadium/api/model"
	"stadium/api/store"
	"stadium/api/system"
)

func ListNodes(c *gin.Context) {
	db := system.GetDb()
	q := db.Model(&model.Node{})
	if level := c.Query("level"); level != "" {
		q = q.Where("level = ?", level)
	}
	if nodeType := c.Query("type"); nodeType != "" {
		q = q.Where("type = ?", nodeType)
	}

	var nodes []model.Node
	if err := q.Find(&nodes).Error; err != nil {
		log.Error("list nodes error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	ok(c, gin.H{"nodes": nodes, "count": len(nodes)})
}

func GetNode(c *gin.Context) {
	node, err := store.NewNodes(system.GetDb()).GetByID(c.Param("id"))
	if err != nil {
		log.Error("get node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if node == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "node not found")
		return
	}
	ok(c, node)
}

func CreateNode(c *gin.Context) {
	var req NodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, err.Error())
		return
	}
	if !model.IsNodeType(req.Type) {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "unknown node type: "+req.Type)
		return
	}

	db := system.GetDb()
	existing, err := store.NewNodes(db).GetByID(req.ID)
	if err != nil {
		log.Error("check node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if existing != nil {
		fail(c, codes.CODE_ERR_OBJ_EXISTS, "node already exists")
		return
	}

	node := model.Node{
		ID:          req.ID,
		Name:        req.Name,
		X:           req.X,
		Y:           req.Y,
		Level:       req.Level,
		Type:        req.Type,
		Description: req.Description,
		NumServers:  req.NumServers,
		ServiceRate: req.ServiceRate,
		Block:       req.Block,
		Row:         req.Row,
		Number:      req.Number,
	}

	// File the node into its tile first; a grid rejection (non-finite
	// coordinates) must not leave an unindexed entity behind.
	tile, err := system.GetGridIndex().AssignEntity(
		node.X, node.Y, node.Level, grid.CategoryForType(node.Type), node.ID)
	if err != nil {
		fail(c, codes.CODE_ERR_GRID, err.Error())
		return
	}

	if err := db.Create(&node).Error; err != nil {
		log.Error("create node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()
	if err := system.GetSearchIndex().Upsert(node); err != nil {
		log.Warnf("search index update for %s failed: %v", node.ID, err)
	}

	ok(c, gin.H{"node": node, "tile_id": tile.ID})
}

func UpdateNode(c *gin.Context) {
	var req NodeUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, err.Error())
		return
	}
	if req.Type != nil && !model.IsNodeType(*req.Type) {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "unknown node type: "+*req.Type)
		return
	}

	db := system.GetDb()
	node, err := store.NewNodes(db).GetByID(c.Param("id"))
	if err != nil {
		log.Error("get node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if node == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "node not found")
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

func applyNodeUpdate(node *model.Node, req *NodeUpdateReq) {
	if req.Name != nil {
		node.Name = req.Name
	}
	if req.X != nil {
		node.X = *req.X
	}
	if req.Y != nil {
		node.Y = *req.Y
	}
	if req.Level != nil {
		node.Level = *req.Level
	}
	if req.Type != nil {
		node.Type = *req.Type
	}
	if req.Description != nil {
		node.Description = req.Description
	}
	if req.NumServers != nil {
		node.NumServers = req.NumServers
	}
	if req.ServiceRate != nil {
		node.ServiceRate = req.ServiceRate
	}
	if req.Block != nil {
		node.Block = req.Block
	}
	if req.Row != nil {
		node.Row = req.Row
	}
	if req.Number != nil {
		node.Number = req.Number
	}
}

// DeleteNode removes the node together with its incident edges and closures.
// The tile keeps a stale id until the next rebuild; cell reads resolve ids
// against the entity store, so the stale entry is invisible in the meantime.
func DeleteNode(c *gin.Context) {
	id := c.Param("id")
	db := system.GetDb()

	node, err := store.NewNodes(db).GetByID(id)
	if err != nil {
		log.Error("get node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if node == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "node not found")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("from_id = ? OR to_id = ?", id, id).Delete(&model.Edge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("node_id = ?", id).Delete(&model.Closure{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Node{}, "id = ?", id).Error
	})
	if err != nil {
		log.Error("delete node error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()
	if err := system.GetSearchIndex().Delete(id); err != nil {
		log.Warnf("search index removal for %s failed: %v", id, err)
	}

	ok(c, gin.H{"deleted": id})
}
