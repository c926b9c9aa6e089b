package model

// Closure marks a node or an edge as temporarily unusable. Exactly one of
// NodeID/EdgeID is set.
type Closure struct {
	ID     string  `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Reason string  `gorm:"column:reason;type:varchar(255);not null" json:"reason"`
	EdgeID *string `gorm:"column:edge_id;type:varchar(64);index" json:"edge_id"`
	NodeID *string `gorm:"column:node_id;type:varchar(64);index" json:"node_id"`
}

func (Closure) TableName() string {
	return "closures"
}
