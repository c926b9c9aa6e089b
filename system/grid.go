package system

import (
	"github.com/pkg/errors"

	"stadium/api/config"
	"stadium/api/grid"
	"stadium/api/search"
	"stadium/api/store"
)

var (
	gridIndex   *grid.Index
	searchIndex *search.Index
)

// InitGrid builds the spatial index and the name search index from config.
// Requires Init to have opened the database first.
func InitGrid() error {
	conf := config.GetConfig()

	g, err := grid.NewGrid(conf.Grid.CellSize, conf.Grid.OriginX, conf.Grid.OriginY)
	if err != nil {
		return errors.Wrap(err, "grid config")
	}
	gridIndex = grid.NewIndex(g, store.NewTiles(GetDb()))

	si, err := search.NewIndex()
	if err != nil {
		return err
	}
	nodes, err := store.NewNodes(GetDb()).All()
	if err != nil {
		return errors.Wrap(err, "warm search index")
	}
	if err := si.Rebuild(nodes); err != nil {
		return err
	}
	searchIndex = si
	return nil
}

func GetGridIndex() *grid.Index {
	return gridIndex
}

func GetSearchIndex() *search.Index {
	return searchIndex
}
