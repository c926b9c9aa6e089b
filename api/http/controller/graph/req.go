package graph

type NodeReq struct {
	ID          string   `json:"id" binding:"required"`
	Name        *string  `json:"name"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Level       int      `json:"level"`
	Type        string   `json:"type" binding:"required"`
	Description *string  `json:"description"`
	NumServers  *int     `json:"num_servers"`
	ServiceRate *float64 `json:"service_rate"`
	Block       *string  `json:"block"`
	Row         *int     `json:"row"`
	Number      *int     `json:"number"`
}

type NodeUpdateReq struct {
	Name        *string  `json:"name"`
	X           *float64 `json:"x"`
	Y           *float64 `json:"y"`
	Level       *int     `json:"level"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	NumServers  *int     `json:"num_servers"`
	ServiceRate *float64 `json:"service_rate"`
	Block       *string  `json:"block"`
	Row         *int     `json:"row"`
	Number      *int     `json:"number"`
}

type EdgeReq struct {
	ID         string  `json:"id" binding:"required"`
	FromID     string  `json:"from" binding:"required"`
	ToID       string  `json:"to" binding:"required"`
	Weight     float64 `json:"w"`
	Accessible *bool   `json:"accessible"`
}

type EdgeUpdateReq struct {
	FromID     *string  `json:"from"`
	ToID       *string  `json:"to"`
	Weight     *float64 `json:"w"`
	Accessible *bool    `json:"accessible"`
}

type ClosureReq struct {
	ID     string  `json:"id" binding:"required"`
	Reason string  `json:"reason" binding:"required"`
	EdgeID *string `json:"edge_id"`
	NodeID *string `json:"node_id"`
}
