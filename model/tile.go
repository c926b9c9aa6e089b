package model

// Tile is the persisted record of one populated grid cell on one level.
// Membership lists hold entity ids only; the authoritative entity data lives
// in the nodes table. NodeIDs is the complete membership, the other three are
// per-category subsets.
type Tile struct {
	ID    string `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	GridX int    `gorm:"column:grid_x;not null" json:"grid_x"`
	GridY int    `gorm:"column:grid_y;not null" json:"grid_y"`
	Level int    `gorm:"column:level;default:0;index" json:"level"`

	MinX float64 `gorm:"column:min_x" json:"min_x"`
	MaxX float64 `gorm:"column:max_x" json:"max_x"`
	MinY float64 `gorm:"column:min_y" json:"min_y"`
	MaxY float64 `gorm:"column:max_y" json:"max_y"`

	Walkable bool `gorm:"column:walkable;default:true" json:"walkable"`

	NodeIDs []string `gorm:"column:node_ids;serializer:json" json:"node_ids"`
	PoiIDs  []string `gorm:"column:poi_ids;serializer:json" json:"poi_ids"`
	SeatIDs []string `gorm:"column:seat_ids;serializer:json" json:"seat_ids"`
	GateIDs []string `gorm:"column:gate_ids;serializer:json" json:"gate_ids"`
}

func (Tile) TableName() string {
	return "tiles"
}
