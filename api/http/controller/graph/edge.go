package graph

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	mycache "stadium/api/cache"
	"stadium/api/codes"
	"stadium/api/log"
	"stadium/api/model"
	"stadium/api/store"
	"stadium/api/system"
)

func ListEdges(c *gin.Context) {
	var edges []model.Edge
	if err := system.GetDb().Find(&edges).Error; err != nil {
		log.Error("list edges error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	ok(c, gin.H{"edges": edges, "count": len(edges)})
}

func GetEdge(c *gin.Context) {
	edge, err := findEdge(c.Param("id"))
	if err != nil {
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if edge == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "edge not found")
		return
	}
	ok(c, edge)
}

func findEdge(id string) (*model.Edge, error) {
	var edge model.Edge
	err := system.GetDb().Where("id = ?", id).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// endpointsExist verifies both edge endpoints reference stored nodes.
func endpointsExist(fromID, toID string) (bool, error) {
	nodes, err := store.NewNodes(system.GetDb()).GetByIDs([]string{fromID, toID})
	if err != nil {
		return false, err
	}
	found := map[string]bool{}
	for _, n := range nodes {
		found[n.ID] = true
	}
	return found[fromID] && found[toID], nil
}

func CreateEdge(c *gin.Context) {
	var req EdgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, err.Error())
		return
	}

	existing, err := findEdge(req.ID)
	if err != nil {
		log.Error("check edge error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if existing != nil {
		fail(c, codes.CODE_ERR_OBJ_EXISTS, "edge already exists")
		return
	}

	okEnds, err := endpointsExist(req.FromID, req.ToID)
	if err != nil {
		log.Error("check edge endpoints error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if !okEnds {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "edge endpoints must reference existing nodes")
		return
	}

	edge := model.Edge{
		ID:         req.ID,
		FromID:     req.FromID,
		ToID:       req.ToID,
		Weight:     req.Weight,
		Accessible: true,
	}
	if req.Accessible != nil {
		edge.Accessible = *req.Accessible
	}

	if err := system.GetDb().Create(&edge).Error; err != nil {
		log.Error("create edge error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()

	ok(c, edge)
}

func UpdateEdge(c *gin.Context) {
	var req EdgeUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, err.Error())
		return
	}

	edge, err := findEdge(c.Param("id"))
	if err != nil {
		log.Error("get edge error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if edge == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "edge not found")
		return
	}

	if req.FromID != nil {
		edge.FromID = *req.FromID
	}
	if req.ToID != nil {
		edge.ToID = *req.ToID
	}
	if req.Weight != nil {
		edge.Weight = *req.Weight
	}
	if req.Accessible != nil {
		edge.Accessible = *req.Accessible
	}

	okEnds, err := endpointsExist(edge.FromID, edge.ToID)
	if err != nil {
		log.Error("check edge endpoints error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if !okEnds {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "edge endpoints must reference existing nodes")
		return
	}

	if err := system.GetDb().Save(edge).Error; err != nil {
		log.Error("update edge error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()

	ok(c, edge)
}

func DeleteEdge(c *gin.Context) {
	id := c.Param("id")
	edge, err := findEdge(id)
	if err != nil {
		log.Error("get edge error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if edge == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "edge not found")
		return
	}

	db := system.GetDb()
	if err := db.Where("edge_id = ?", id).Delete(&model.Closure{}).Error; err != nil {
		log.Error("delete edge closures error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if err := db.Delete(&model.Edge{}, "id = ?", id).Error; err != nil {
		log.Error("delete edge error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()

	ok(c, gin.H{"deleted": id})
}
