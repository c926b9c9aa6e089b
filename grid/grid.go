package grid

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Grid maps continuous stadium coordinates onto a uniform raster of square
// cells. It is a plain value with no state beyond its parameters; changing
// the cell size invalidates every previously derived cell id, so a Grid is
// built once at startup and never mutated.
type Grid struct {
	CellSize float64
	OriginX  float64
	OriginY  float64
}

func NewGrid(cellSize, originX, originY float64) (Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		return Grid{}, errors.Errorf("grid cell size must be a positive finite number, got %v", cellSize)
	}
	return Grid{CellSize: cellSize, OriginX: originX, OriginY: originY}, nil
}

// CellCoords returns the integer cell containing (x, y). Floored division,
// not truncation: points below the origin land in negative cells, and a
// point exactly on a cell boundary belongs to the upper cell.
func (g Grid) CellCoords(x, y float64) (int, int) {
	gx := int(math.Floor((x - g.OriginX) / g.CellSize))
	gy := int(math.Floor((y - g.OriginY) / g.CellSize))
	return gx, gy
}

// CellBounds is the arithmetic inverse of CellCoords: the bounding rectangle
// of cell (gx, gy).
func (g Grid) CellBounds(gx, gy int) (minX, maxX, minY, maxY float64) {
	minX = g.OriginX + float64(gx)*g.CellSize
	maxX = minX + g.CellSize
	minY = g.OriginY + float64(gy)*g.CellSize
	maxY = minY + g.CellSize
	return
}

// TileID renders the composite tile key. Levels never share tiles, so the
// level is part of the identity.
func TileID(gx, gy, level int) string {
	return fmt.Sprintf("tile_%d_%d_%d", gx, gy, level)
}

func checkCoords(x, y float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return errors.Errorf("non-finite coordinate (%v, %v)", x, y)
	}
	return nil
}
