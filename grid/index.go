package grid

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"stadium/api/log"
	"stadium/api/model"
)

// Category selects which membership list of a tile an entity is filed under,
// in addition to the catch-all node list.
type Category string

const (
	CategoryNode Category = "node"
	CategoryPoi  Category = "poi"
	CategorySeat Category = "seat"
	CategoryGate Category = "gate"
)

// CategoryForType maps a node type onto its grid category.
func CategoryForType(nodeType string) Category {
	switch {
	case nodeType == model.NodeTypeGate:
		return CategoryGate
	case nodeType == model.NodeTypeSeat:
		return CategorySeat
	case model.IsPoiType(nodeType):
		return CategoryPoi
	default:
		return CategoryNode
	}
}

// NodeStore is the read contract the index needs from the entity store. The
// index never writes entities and never stores them, only their ids.
type NodeStore interface {
	GetByIDs(ids []string) ([]model.Node, error)
	All() ([]model.Node, error)
}

// TileStore persists tiles. Get returns (nil, nil) for an absent tile.
// Replace must swap the full tile set atomically: either the previous tiles
// or the new ones are visible, never a mix.
type TileStore interface {
	Get(id string) (*model.Tile, error)
	Put(tile *model.Tile) error
	Replace(tiles []*model.Tile) error
	All(level *int) ([]model.Tile, error)
}

// Index owns the tile collection: it places entities into their cells and
// rebuilds the whole structure from an entity scan. A single RWMutex
// serializes writers; Rebuild holds it for its full duration so incremental
// assignments can never race a teardown.
type Index struct {
	grid  Grid
	tiles TileStore
	mu    sync.RWMutex
}

func NewIndex(g Grid, tiles TileStore) *Index {
	return &Index{grid: g, tiles: tiles}
}

func (ix *Index) Grid() Grid {
	return ix.grid
}

// GetOrCreateTile resolves the tile owning (x, y) on the given level,
// creating and persisting it with computed bounds if it does not exist yet.
func (ix *Index) GetOrCreateTile(x, y float64, level int) (*model.Tile, error) {
	if err := checkCoords(x, y); err != nil {
		return nil, err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.getOrCreateTileLocked(x, y, level)
}

func (ix *Index) getOrCreateTileLocked(x, y float64, level int) (*model.Tile, error) {
	gx, gy := ix.grid.CellCoords(x, y)
	id := TileID(gx, gy, level)

	tile, err := ix.tiles.Get(id)
	if err != nil {
		return nil, errors.Wrapf(err, "load tile %s", id)
	}
	if tile != nil {
		return tile, nil
	}

	tile = ix.newTile(gx, gy, level)
	if err := ix.tiles.Put(tile); err != nil {
		return nil, errors.Wrapf(err, "create tile %s", id)
	}
	return tile, nil
}

func (ix *Index) newTile(gx, gy, level int) *model.Tile {
	minX, maxX, minY, maxY := ix.grid.CellBounds(gx, gy)
	return &model.Tile{
		ID:       TileID(gx, gy, level),
		GridX:    gx,
		GridY:    gy,
		Level:    level,
		MinX:     minX,
		MaxX:     maxX,
		MinY:     minY,
		MaxY:     maxY,
		Walkable: true,
		NodeIDs:  []string{},
		PoiIDs:   []string{},
		SeatIDs:  []string{},
		GateIDs:  []string{},
	}
}

// AssignEntity files entityID into the tile owning (x, y, level). The id
// always goes into the catch-all node list and additionally into the list
// matching category, so the incremental path and Rebuild produce the same
// membership shape. Idempotent: re-assigning an already filed id is a no-op
// that keeps its existing position.
func (ix *Index) AssignEntity(x, y float64, level int, category Category, entityID string) (*model.Tile, error) {
	if err := checkCoords(x, y); err != nil {
		return nil, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	tile, err := ix.getOrCreateTileLocked(x, y, level)
	if err != nil {
		return nil, err
	}

	tile.NodeIDs = appendID(tile.NodeIDs, entityID)
	switch category {
	case CategoryPoi:
		tile.PoiIDs = appendID(tile.PoiIDs, entityID)
	case CategorySeat:
		tile.SeatIDs = appendID(tile.SeatIDs, entityID)
	case CategoryGate:
		tile.GateIDs = appendID(tile.GateIDs, entityID)
	}

	if err := ix.tiles.Put(tile); err != nil {
		return nil, errors.Wrapf(err, "persist tile %s", tile.ID)
	}
	return tile, nil
}

// appendID appends id unless it is already present, preserving the position
// of prior entries.
func appendID(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// CellContents is the resolved view of one cell: the entities behind every
// membership list, partitioned per category. Tile is nil for an unpopulated
// cell, which is a valid state and not an error.
type CellContents struct {
	Nodes []model.Node `json:"nodes"`
	Pois  []model.Node `json:"pois"`
	Seats []model.Node `json:"seats"`
	Gates []model.Node `json:"gates"`
	Tile  *model.Tile  `json:"tile"`
}

// EntitiesInCell resolves every id stored in the tile at (gx, gy, level)
// against the entity store in one batched lookup. Ids that no longer resolve
// are stale references and are dropped silently; a full Rebuild is the
// mechanism that clears them out of the tile itself.
func (ix *Index) EntitiesInCell(nodes NodeStore, gx, gy, level int) (*CellContents, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	contents := &CellContents{
		Nodes: []model.Node{},
		Pois:  []model.Node{},
		Seats: []model.Node{},
		Gates: []model.Node{},
	}

	id := TileID(gx, gy, level)
	tile, err := ix.tiles.Get(id)
	if err != nil {
		return nil, errors.Wrapf(err, "load tile %s", id)
	}
	if tile == nil {
		return contents, nil
	}

	var union []string
	seen := map[string]bool{}
	for _, list := range [][]string{tile.NodeIDs, tile.PoiIDs, tile.SeatIDs, tile.GateIDs} {
		for _, nid := range list {
			if !seen[nid] {
				seen[nid] = true
				union = append(union, nid)
			}
		}
	}

	resolved, err := nodes.GetByIDs(union)
	if err != nil {
		return nil, errors.Wrap(err, "resolve cell members")
	}
	lookup := make(map[string]model.Node, len(resolved))
	for _, n := range resolved {
		lookup[n.ID] = n
	}

	pick := func(ids []string) []model.Node {
		out := []model.Node{}
		for _, nid := range ids {
			if n, ok := lookup[nid]; ok {
				out = append(out, n)
			}
		}
		return out
	}
	contents.Nodes = pick(tile.NodeIDs)
	contents.Pois = pick(tile.PoiIDs)
	contents.Seats = pick(tile.SeatIDs)
	contents.Gates = pick(tile.GateIDs)
	contents.Tile = tile
	return contents, nil
}

// rebuildBatch is how many scanned nodes go between context checks.
const rebuildBatch = 1024

// Rebuild drops every tile and reconstructs the index from a full entity
// scan. All tiles are built in memory and swapped in with one atomic Replace
// at the end, so a failure or cancellation mid-scan leaves the previous
// index untouched. Returns the number of tiles created.
func (ix *Index) Rebuild(ctx context.Context, nodes NodeStore) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	all, err := nodes.All()
	if err != nil {
		return 0, errors.Wrap(err, "scan entities for grid rebuild")
	}

	built := map[string]*model.Tile{}
	var order []string

	for i, n := range all {
		if i%rebuildBatch == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if checkCoords(n.X, n.Y) != nil {
			log.Warnf("grid rebuild: skipping node %s with non-finite position", n.ID)
			continue
		}

		gx, gy := ix.grid.CellCoords(n.X, n.Y)
		id := TileID(gx, gy, n.Level)

		tile, ok := built[id]
		if !ok {
			tile = ix.newTile(gx, gy, n.Level)
			built[id] = tile
			order = append(order, id)
		}

		// Every entity lands in the complete membership list; gates, seats
		// and POI types additionally land in their category list.
		tile.NodeIDs = appendID(tile.NodeIDs, n.ID)
		switch CategoryForType(n.Type) {
		case CategoryGate:
			tile.GateIDs = appendID(tile.GateIDs, n.ID)
		case CategorySeat:
			tile.SeatIDs = appendID(tile.SeatIDs, n.ID)
		case CategoryPoi:
			tile.PoiIDs = appendID(tile.PoiIDs, n.ID)
		}
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tiles := make([]*model.Tile, 0, len(built))
	for _, id := range order {
		tiles = append(tiles, built[id])
	}
	if err := ix.tiles.Replace(tiles); err != nil {
		return 0, errors.Wrap(err, "persist rebuilt tiles")
	}

	log.Infof("grid rebuild: indexed %d entities into %d tiles", len(all), len(tiles))
	return len(tiles), nil
}

// Tiles lists all persisted tiles, optionally restricted to one level.
func (ix *Index) Tiles(level *int) ([]model.Tile, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.tiles.All(level)
}

// Stats summarizes the index for the maintenance endpoint.
type Stats struct {
	TotalTiles int `json:"total_tiles"`
	Nodes      int `json:"nodes"`
	Pois       int `json:"pois"`
	Seats      int `json:"seats"`
	Gates      int `json:"gates"`
}

func (ix *Index) Stats() (Stats, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	tiles, err := ix.tiles.All(nil)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalTiles: len(tiles)}
	for _, t := range tiles {
		st.Nodes += len(t.NodeIDs)
		st.Pois += len(t.PoiIDs)
		st.Seats += len(t.SeatIDs)
		st.Gates += len(t.GateIDs)
	}
	return st, nil
}
