package model

const (
	NodeTypeNormal   = "normal"
	NodeTypeCorridor = "corridor"
	NodeTypeRowAisle = "row_aisle"
	NodeTypeSeat     = "seat"
	NodeTypeGate     = "gate"
	NodeTypeStairs   = "stairs"
	NodeTypeRamp     = "ramp"

	NodeTypeRestroom      = "restroom"
	NodeTypeFood          = "food"
	NodeTypeBar           = "bar"
	NodeTypeMerchandise   = "merchandise"
	NodeTypeFirstAid      = "first_aid"
	NodeTypeEmergencyExit = "emergency_exit"
	NodeTypeInformation   = "information"
	NodeTypeVipBox        = "vip_box"
)

// poiTypes is the closed set of node types that count as points of interest
// for grid categorization and the /pois views.
var poiTypes = map[string]bool{
	NodeTypeRestroom:      true,
	NodeTypeFood:          true,
	NodeTypeBar:           true,
	NodeTypeMerchandise:   true,
	NodeTypeFirstAid:      true,
	NodeTypeEmergencyExit: true,
	NodeTypeInformation:   true,
	NodeTypeVipBox:        true,
}

func IsPoiType(t string) bool {
	return poiTypes[t]
}

var structuralTypes = map[string]bool{
	NodeTypeNormal:   true,
	NodeTypeCorridor: true,
	NodeTypeRowAisle: true,
	NodeTypeSeat:     true,
	NodeTypeGate:     true,
	NodeTypeStairs:   true,
	NodeTypeRamp:     true,
}

// IsNodeType reports whether t is one of the known node types.
func IsNodeType(t string) bool {
	return structuralTypes[t] || poiTypes[t]
}

// Node is the single polymorphic entity of the navigation graph. Gates,
// seats, POIs and plain corridor points are all rows in this table,
// discriminated by Type.
type Node struct {
	ID    string  `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Name  *string `gorm:"column:name;type:varchar(255)" json:"name"`
	X     float64 `gorm:"column:x;not null" json:"x"`
	Y     float64 `gorm:"column:y;not null" json:"y"`
	Level int     `gorm:"column:level;default:0" json:"level"`
	Type  string  `gorm:"column:type;type:varchar(32);default:normal;index" json:"type"`

	Description *string `gorm:"column:description;type:varchar(255)" json:"description"`

	// Waiting-service fields for gates and service POIs.
	NumServers  *int     `gorm:"column:num_servers" json:"num_servers,omitempty"`
	ServiceRate *float64 `gorm:"column:service_rate" json:"service_rate,omitempty"`

	// Seat placement fields.
	Block  *string `gorm:"column:block;type:varchar(32);index" json:"block,omitempty"`
	Row    *int    `gorm:"column:row" json:"row,omitempty"`
	Number *int    `gorm:"column:number" json:"number,omitempty"`
}

func (Node) TableName() string {
	return "nodes"
}
