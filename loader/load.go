package loader

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"stadium/api/log"
	"stadium/api/model"
)

const insertBatch = 500

// Load wipes the graph tables and bulk-inserts the dataset. Tiles are not
// touched here; callers run a grid rebuild afterwards.
func Load(db *gorm.DB, ds *Dataset) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&model.Closure{}, &model.EmergencyRoute{}, &model.Edge{}, &model.Node{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		if len(ds.Nodes) > 0 {
			if err := tx.CreateInBatches(ds.Nodes, insertBatch).Error; err != nil {
				return err
			}
		}
		if len(ds.Edges) > 0 {
			if err := tx.CreateInBatches(ds.Edges, insertBatch).Error; err != nil {
				return err
			}
		}
		if len(ds.Routes) > 0 {
			if err := tx.CreateInBatches(ds.Routes, insertBatch).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "load stadium dataset")
	}

	log.Infof("loaded stadium layout: %d nodes, %d edges, %d emergency routes",
		len(ds.Nodes), len(ds.Edges), len(ds.Routes))
	return nil
}
