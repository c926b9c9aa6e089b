package loader

import (
	"fmt"
	"math"

	"stadium/api/model"
)

// Options describes the stadium geometry to generate. The defaults mirror
// the Estádio do Dragão layout: an elliptical bowl with three concourse
// rings, 27 numbered gates and four stands.
type Options struct {
	CenterX float64
	CenterY float64

	CorridorOuterX float64
	CorridorOuterY float64
	CorridorMidX   float64
	CorridorMidY   float64
	CorridorInnerX float64
	CorridorInnerY float64

	OuterPerimeterX float64
	OuterPerimeterY float64

	CorridorPoints int
	Levels         int
	SeatsPerRow    int

	Stands []Stand

	WeightAlong    float64
	WeightRadial   float64
	WeightDiagonal float64
	WeightStairs   float64
	WeightAccess   float64
}

// Stand is one side of the bowl. Tiers beyond the first live on level 1.
type Stand struct {
	Name        string
	AngleStart  float64
	AngleEnd    float64
	RowsPerTier []int
	Gates       []int
	VipBoxes    bool
}

func DefaultOptions() Options {
	return Options{
		CenterX:         500,
		CenterY:         400,
		CorridorOuterX:  400,
		CorridorOuterY:  320,
		CorridorMidX:    360,
		CorridorMidY:    280,
		CorridorInnerX:  320,
		CorridorInnerY:  240,
		OuterPerimeterX: 420,
		OuterPerimeterY: 340,
		CorridorPoints:  72, // one point every 5 degrees
		Levels:          2,
		SeatsPerRow:     40,
		Stands: []Stand{
			{Name: "Norte", AngleStart: 45, AngleEnd: 135, RowsPerTier: []int{35}, Gates: []int{21, 22, 23}},
			{Name: "Sul", AngleStart: 225, AngleEnd: 315, RowsPerTier: []int{35}, Gates: []int{7, 8, 9}},
			{Name: "Este", AngleStart: 315, AngleEnd: 405, RowsPerTier: []int{20, 15}, Gates: []int{10, 11, 12, 13, 17, 18}, VipBoxes: true},
			{Name: "Oeste", AngleStart: 135, AngleEnd: 225, RowsPerTier: []int{20, 15}, Gates: []int{3, 4, 5, 6, 24, 25, 26, 27}, VipBoxes: true},
		},
		WeightAlong:    5,
		WeightRadial:   8,
		WeightDiagonal: 10,
		WeightStairs:   15,
		WeightAccess:   3,
	}
}

// Dataset is a generated stadium graph ready for bulk insertion.
type Dataset struct {
	Nodes  []model.Node
	Edges  []model.Edge
	Routes []model.EmergencyRoute
}

type ringKey struct {
	level int
	ring  string
	pos   int
}

type generator struct {
	opts      Options
	nodes     []model.Node
	edges     []model.Edge
	routes    []model.EmergencyRoute
	ringNodes map[ringKey]string
	exitPos   map[string]int
	nextNode  int
	nextEdge  int
}

// Generate builds the full navigation graph in memory. It is deterministic:
// the same options always produce the same ids and positions.
func Generate(opts Options) *Dataset {
	g := &generator{
		opts:      opts,
		ringNodes: map[ringKey]string{},
		exitPos:   map[string]int{},
		nextNode:  1,
		nextEdge:  1,
	}

	g.generateCorridors()
	g.connectCorridors()
	g.generateStairs()
	g.generateGates()
	g.generatePois()
	g.generateSeats()
	g.generateEmergencyRoutes()

	return &Dataset{Nodes: g.nodes, Edges: g.edges, Routes: g.routes}
}

func (g *generator) ellipsePos(angleDeg, radiusX, radiusY float64) (float64, float64) {
	a := angleDeg * math.Pi / 180
	return g.opts.CenterX + radiusX*math.Cos(a), g.opts.CenterY + radiusY*math.Sin(a)
}

func (g *generator) addNode(n model.Node) string {
	if n.ID == "" {
		n.ID = fmt.Sprintf("N%d", g.nextNode)
		g.nextNode++
	}
	g.nodes = append(g.nodes, n)
	return n.ID
}

func (g *generator) addEdge(from, to string, weight float64) {
	g.edges = append(g.edges, model.Edge{
		ID:         fmt.Sprintf("E%d", g.nextEdge),
		FromID:     from,
		ToID:       to,
		Weight:     weight,
		Accessible: true,
	})
	g.nextEdge++
}

func (g *generator) addBidirEdge(a, b string, weight float64) {
	g.addEdge(a, b, weight)
	g.addEdge(b, a, weight)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func fltPtr(f float64) *float64 {
	return &f
}

type ringSpec struct {
	name    string
	radiusX float64
	radiusY float64
}

func (g *generator) rings() []ringSpec {
	return []ringSpec{
		{"outer", g.opts.CorridorOuterX, g.opts.CorridorOuterY},
		{"mid", g.opts.CorridorMidX, g.opts.CorridorMidY},
		{"inner", g.opts.CorridorInnerX, g.opts.CorridorInnerY},
	}
}

func (g *generator) generateCorridors() {
	for level := 0; level < g.opts.Levels; level++ {
		for _, ring := range g.rings() {
			for i := 0; i < g.opts.CorridorPoints; i++ {
				angle := float64(i) * 360 / float64(g.opts.CorridorPoints)
				x, y := g.ellipsePos(angle, ring.radiusX, ring.radiusY)
				id := g.addNode(model.Node{
					X:     x,
					Y:     y,
					Level: level,
					Type:  model.NodeTypeCorridor,
					Name:  strPtr(fmt.Sprintf("%s L%d P%d", ring.name, level, i)),
				})
				g.ringNodes[ringKey{level, ring.name, i}] = id
			}
		}
	}
}

func (g *generator) connectCorridors() {
	n := g.opts.CorridorPoints
	for level := 0; level < g.opts.Levels; level++ {
		// Along each ring.
		for _, ring := range g.rings() {
			for i := 0; i < n; i++ {
				g.addBidirEdge(
					g.ringNodes[ringKey{level, ring.name, i}],
					g.ringNodes[ringKey{level, ring.name, (i + 1) % n}],
					g.opts.WeightAlong,
				)
			}
		}
		// Radial connections every second point.
		for i := 0; i < n; i += 2 {
			outer := g.ringNodes[ringKey{level, "outer", i}]
			mid := g.ringNodes[ringKey{level, "mid", i}]
			inner := g.ringNodes[ringKey{level, "inner", i}]
			g.addBidirEdge(outer, mid, g.opts.WeightRadial)
			g.addBidirEdge(mid, inner, g.opts.WeightRadial)
		}
		// Diagonal shortcuts.
		for i := 0; i < n; i += 6 {
			outer := g.ringNodes[ringKey{level, "outer", i}]
			midNext := g.ringNodes[ringKey{level, "mid", (i + 1) % n}]
			g.addBidirEdge(outer, midNext, g.opts.WeightDiagonal)
		}
	}
}

func (g *generator) generateStairs() {
	if g.opts.Levels < 2 {
		return
	}
	n := g.opts.CorridorPoints
	for i := 0; i < n; i += 12 {
		nodeType := model.NodeTypeStairs
		if i%24 == 12 {
			nodeType = model.NodeTypeRamp
		}
		angle := float64(i) * 360 / float64(n)
		x, y := g.ellipsePos(angle, g.opts.CorridorOuterX, g.opts.CorridorOuterY)
		id := g.addNode(model.Node{
			X:     x,
			Y:     y,
			Level: 0,
			Type:  nodeType,
			Name:  strPtr(fmt.Sprintf("Escadas P%d", i)),
		})
		g.addBidirEdge(g.ringNodes[ringKey{0, "outer", i}], id, g.opts.WeightAccess)
		g.addBidirEdge(id, g.ringNodes[ringKey{1, "outer", i}], g.opts.WeightStairs)
	}
}

func (g *generator) generateGates() {
	n := g.opts.CorridorPoints
	for _, stand := range g.opts.Stands {
		span := stand.AngleEnd - stand.AngleStart
		for gi, gateNum := range stand.Gates {
			angle := stand.AngleStart + span*float64(gi+1)/float64(len(stand.Gates)+1)
			x, y := g.ellipsePos(angle, g.opts.OuterPerimeterX, g.opts.OuterPerimeterY)
			id := g.addNode(model.Node{
				ID:          fmt.Sprintf("GATE-%d", gateNum),
				X:           x,
				Y:           y,
				Level:       0,
				Type:        model.NodeTypeGate,
				Name:        strPtr(fmt.Sprintf("Porta %d", gateNum)),
				Description: strPtr(fmt.Sprintf("Entrada %s", stand.Name)),
				NumServers:  intPtr(3),
				ServiceRate: fltPtr(0.5),
			})
			pos := int(math.Mod(angle, 360)/360*float64(n)+0.5) % n
			g.addBidirEdge(id, g.ringNodes[ringKey{0, "outer", pos}], g.opts.WeightAccess)
		}
	}
}

// poiCycle is the rotation of concourse POIs placed along the mid ring.
var poiCycle = []string{
	model.NodeTypeRestroom,
	model.NodeTypeFood,
	model.NodeTypeBar,
	model.NodeTypeRestroom,
	model.NodeTypeMerchandise,
	model.NodeTypeInformation,
	model.NodeTypeFirstAid,
	model.NodeTypeFood,
}

func (g *generator) generatePois() {
	n := g.opts.CorridorPoints
	step := n / 12
	if step == 0 {
		step = 1
	}
	for level := 0; level < g.opts.Levels; level++ {
		idx := 0
		for i := 0; i < n; i += step {
			poiType := poiCycle[idx%len(poiCycle)]
			idx++
			angle := float64(i)*360/float64(n) + 2
			x, y := g.ellipsePos(angle, g.opts.CorridorMidX+8, g.opts.CorridorMidY+8)
			id := g.addNode(model.Node{
				X:           x,
				Y:           y,
				Level:       level,
				Type:        poiType,
				Name:        strPtr(fmt.Sprintf("%s L%d #%d", poiType, level, idx)),
				NumServers:  intPtr(2),
				ServiceRate: fltPtr(0.8),
			})
			g.addBidirEdge(id, g.ringNodes[ringKey{level, "mid", i}], g.opts.WeightAccess)
		}
	}
	// Emergency exits sit on the outer ring of the ground level.
	exitStep := n / 4
	if exitStep == 0 {
		exitStep = 1
	}
	for i := 0; i < n; i += exitStep {
		angle := float64(i) * 360 / float64(n)
		x, y := g.ellipsePos(angle, g.opts.OuterPerimeterX, g.opts.OuterPerimeterY)
		id := g.addNode(model.Node{
			ID:    fmt.Sprintf("EXIT-%d", i),
			X:     x,
			Y:     y,
			Level: 0,
			Type:  model.NodeTypeEmergencyExit,
			Name:  strPtr(fmt.Sprintf("Saída de Emergência P%d", i)),
		})
		g.exitPos[id] = i
		g.addBidirEdge(id, g.ringNodes[ringKey{0, "outer", i}], g.opts.WeightAccess)
	}
}

func (g *generator) generateSeats() {
	n := g.opts.CorridorPoints
	for _, stand := range g.opts.Stands {
		for tier, rows := range stand.RowsPerTier {
			level := tier // upper tiers live on upper levels
			if level >= g.opts.Levels {
				level = g.opts.Levels - 1
			}
			block := fmt.Sprintf("%s-T%d", stand.Name, tier)
			for row := 0; row < rows; row++ {
				// Rows step inward from the inner corridor toward the pitch.
				rx := g.opts.CorridorInnerX - 10 - float64(row)*2
				ry := g.opts.CorridorInnerY - 10 - float64(row)*2
				span := stand.AngleEnd - stand.AngleStart

				// One row aisle at the start of each row.
				ax, ay := g.ellipsePos(stand.AngleStart, rx, ry)
				aisle := g.addNode(model.Node{
					X:     ax,
					Y:     ay,
					Level: level,
					Type:  model.NodeTypeRowAisle,
					Name:  strPtr(fmt.Sprintf("%s R%d aisle", block, row+1)),
				})
				pos := int(math.Mod(stand.AngleStart, 360)/360*float64(n)+0.5) % n
				g.addBidirEdge(aisle, g.ringNodes[ringKey{level, "inner", pos}], g.opts.WeightAccess)

				prev := aisle
				for s := 0; s < g.opts.SeatsPerRow; s++ {
					angle := stand.AngleStart + span*float64(s+1)/float64(g.opts.SeatsPerRow+1)
					x, y := g.ellipsePos(angle, rx, ry)
					seat := g.addNode(model.Node{
						X:      x,
						Y:      y,
						Level:  level,
						Type:   model.NodeTypeSeat,
						Block:  strPtr(block),
						Row:    intPtr(row + 1),
						Number: intPtr(s + 1),
					})
					g.addEdge(prev, seat, 1)
					prev = seat
				}
			}
			if stand.VipBoxes && tier == len(stand.RowsPerTier)-1 {
				mid := (stand.AngleStart + stand.AngleEnd) / 2
				x, y := g.ellipsePos(mid, g.opts.CorridorInnerX-6, g.opts.CorridorInnerY-6)
				vip := g.addNode(model.Node{
					X:     x,
					Y:     y,
					Level: level,
					Type:  model.NodeTypeVipBox,
					Name:  strPtr(fmt.Sprintf("Camarote %s", stand.Name)),
				})
				pos := int(math.Mod(mid, 360)/360*float64(n)+0.5) % n
				g.addBidirEdge(vip, g.ringNodes[ringKey{level, "inner", pos}], g.opts.WeightAccess)
			}
		}
	}
}

// generateEmergencyRoutes builds one evacuation path per emergency exit: a
// short walk along the outer ring ending at the exit.
func (g *generator) generateEmergencyRoutes() {
	n := g.opts.CorridorPoints
	routeNum := 1
	for _, node := range g.nodes {
		if node.Type != model.NodeTypeEmergencyExit {
			continue
		}
		pos := g.exitPos[node.ID]
		var path []string
		for off := 2; off >= 0; off-- {
			path = append(path, g.ringNodes[ringKey{0, "outer", (pos - off + n) % n}])
		}
		path = append(path, node.ID)
		g.routes = append(g.routes, model.EmergencyRoute{
			ID:          fmt.Sprintf("ER%d", routeNum),
			Name:        fmt.Sprintf("Evacuação via %s", *node.Name),
			Description: strPtr("Rota de evacuação pelo anel exterior"),
			ExitID:      node.ID,
			NodeIDs:     path,
		})
		routeNum++
	}
}
