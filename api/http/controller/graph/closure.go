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

func ListClosures(c *gin.Context) {
	var closures []model.Closure
	if err := system.GetDb().Find(&closures).Error; err != nil {
		log.Error("list closures error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	ok(c, gin.H{"closures": closures, "count": len(closures)})
}

func GetClosure(c *gin.Context) {
	closure, err := findClosure(c.Param("id"))
	if err != nil {
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if closure == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "closure not found")
		return
	}
	ok(c, closure)
}

func findClosure(id string) (*model.Closure, error) {
	var closure model.Closure
	err := system.GetDb().Where("id = ?", id).First(&closure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &closure, nil
}

// CreateClosure registers a temporary blockage. A closure must point at an
// existing edge or an existing node, never both and never neither.
func CreateClosure(c *gin.Context) {
	var req ClosureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, codes.CODE_ERR_BAD_PARAMS, err.Error())
		return
	}
	if (req.EdgeID == nil) == (req.NodeID == nil) {
		fail(c, codes.CODE_ERR_BAD_PARAMS, "closure needs exactly one of edge_id or node_id")
		return
	}

	existing, err := findClosure(req.ID)
	if err != nil {
		log.Error("check closure error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if existing != nil {
		fail(c, codes.CODE_ERR_OBJ_EXISTS, "closure already exists")
		return
	}

	if req.EdgeID != nil {
		edge, err := findEdge(*req.EdgeID)
		if err != nil {
			fail(c, codes.CODE_ERR_DB, err.Error())
			return
		}
		if edge == nil {
			fail(c, codes.CODE_ERR_BAD_PARAMS, "closure references unknown edge "+*req.EdgeID)
			return
		}
	} else {
		node, err := store.NewNodes(system.GetDb()).GetByID(*req.NodeID)
		if err != nil {
			fail(c, codes.CODE_ERR_DB, err.Error())
			return
		}
		if node == nil {
			fail(c, codes.CODE_ERR_BAD_PARAMS, "closure references unknown node "+*req.NodeID)
			return
		}
	}

	closure := model.Closure{
		ID:     req.ID,
		Reason: req.Reason,
		EdgeID: req.EdgeID,
		NodeID: req.NodeID,
	}
	if err := system.GetDb().Create(&closure).Error; err != nil {
		log.Error("create closure error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()

	ok(c, closure)
}

func DeleteClosure(c *gin.Context) {
	id := c.Param("id")
	closure, err := findClosure(id)
	if err != nil {
		log.Error("get closure error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	if closure == nil {
		fail(c, codes.CODE_ERR_OBJ_NOT_FOUND, "closure not found")
		return
	}

	if err := system.GetDb().Delete(&model.Closure{}, "id = ?", id).Error; err != nil {
		log.Error("delete closure error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	mycache.InvalidateGeoJson()

	ok(c, gin.H{"deleted": id})
}
