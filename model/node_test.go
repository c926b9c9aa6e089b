package model

import "testing"

func TestIsPoiType(t *testing.T) {
	for _, poi := range []string{
		NodeTypeRestroom, NodeTypeFood, NodeTypeBar, NodeTypeMerchandise,
		NodeTypeFirstAid, NodeTypeEmergencyExit, NodeTypeInformation, NodeTypeVipBox,
	} {
		if !IsPoiType(poi) {
			t.Errorf("%s should be a poi type", poi)
		}
	}
	for _, other := range []string{
		NodeTypeNormal, NodeTypeCorridor, NodeTypeSeat, NodeTypeGate,
		NodeTypeStairs, NodeTypeRamp, NodeTypeRowAisle, "madeup", "",
	} {
		if IsPoiType(other) {
			t.Errorf("%s should not be a poi type", other)
		}
	}
}

func TestIsNodeType(t *testing.T) {
	for _, valid := range []string{
		NodeTypeNormal, NodeTypeSeat, NodeTypeGate, NodeTypeRestroom, NodeTypeVipBox,
	} {
		if !IsNodeType(valid) {
			t.Errorf("%s should be a valid node type", valid)
		}
	}
	for _, invalid := range []string{"", "madeup", "GATE"} {
		if IsNodeType(invalid) {
			t.Errorf("%s should not be a valid node type", invalid)
		}
	}
}
