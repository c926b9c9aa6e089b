package model

// EmergencyRoute is a predefined evacuation path, stored as the ordered node
// ids from the start point to the exit.
type EmergencyRoute struct {
	ID          string   `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Name        string   `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description *string  `gorm:"column:description;type:varchar(255)" json:"description"`
	ExitID      string   `gorm:"column:exit_id;type:varchar(64);not null" json:"exit_id"`
	NodeIDs     []string `gorm:"column:node_ids;serializer:json" json:"node_ids"`
}

func (EmergencyRoute) TableName() string {
	return "emergency_routes"
}
