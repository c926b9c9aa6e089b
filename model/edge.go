package model

// Edge is a directed, weighted connection between two nodes. Bidirectional
// corridors are stored as two rows.
type Edge struct {
	ID         string  `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	FromID     string  `gorm:"column:from_id;type:varchar(64);not null;index" json:"from"`
	ToID       string  `gorm:"column:to_id;type:varchar(64);not null;index" json:"to"`
	Weight     float64 `gorm:"column:weight;not null" json:"w"`
	Accessible bool    `gorm:"column:accessible;default:true" json:"accessible"`
}

func (Edge) TableName() string {
	return "edges"
}
