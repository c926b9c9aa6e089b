package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"stadium/api/model"
)

// Nodes is the gorm-backed entity store consumed by the grid index.
type Nodes struct {
	db *gorm.DB
}

func NewNodes(db *gorm.DB) *Nodes {
	return &Nodes{db: db}
}

func (s *Nodes) GetByID(id string) (*model.Node, error) {
	var n model.Node
	err := s.db.Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load node %s", id)
	}
	return &n, nil
}

func (s *Nodes) GetByIDs(ids []string) ([]model.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []model.Node
	if err := s.db.Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "load nodes by ids")
	}
	return out, nil
}

func (s *Nodes) All() ([]model.Node, error) {
	var out []model.Node
	if err := s.db.Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "scan all nodes")
	}
	return out, nil
}

// Tiles is the gorm-backed tile store.
type Tiles struct {
	db *gorm.DB
}

func NewTiles(db *gorm.DB) *Tiles {
	return &Tiles{db: db}
}

func (s *Tiles) Get(id string) (*model.Tile, error) {
	var t model.Tile
	err := s.db.Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load tile %s", id)
	}
	return &t, nil
}

func (s *Tiles) Put(tile *model.Tile) error {
	if err := s.db.Save(tile).Error; err != nil {
		return errors.Wrapf(err, "save tile %s", tile.ID)
	}
	return nil
}

// Replace swaps the whole tile set in one transaction, so readers see either
// the old index or the new one.
func (s *Tiles) Replace(tiles []*model.Tile) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Tile{}).Error; err != nil {
			return err
		}
		if len(tiles) == 0 {
			return nil
		}
		return tx.CreateInBatches(tiles, 500).Error
	})
	return errors.Wrap(err, "replace tiles")
}

func (s *Tiles) All(level *int) ([]model.Tile, error) {
	q := s.db.Model(&model.Tile{})
	if level != nil {
		q = q.Where("level = ?", *level)
	}
	var out []model.Tile
	if err := q.Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list tiles")
	}
	return out, nil
}
