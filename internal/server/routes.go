package server

import "github.com/gin-gonic/gin"

// Prefix is the path every visualization route lives under.
const Prefix = "/dataviz"

// route is one visualization with an optional trailing parameter.
type route struct {
	name    string
	param   string
	handler gin.HandlerFunc
	public  bool
}

func (s *Server) routes() []route {
	return []route{
		{name: "sunburst", param: "type", handler: s.sunburst},
		{name: "circles", param: "type", handler: s.circles},
		{name: "graph", param: "type", handler: s.graph},
		{name: "sankey", param: "type", handler: s.sankey},
		{name: "spiral", param: "key", handler: s.spiral},
		{name: "heatmap", param: "key", handler: s.heatmap},
		{name: "calendar", param: "key", handler: s.calendar},
		{name: "chord", param: "key", handler: s.chord},
		{name: "steamgraph", param: "key", handler: s.steamgraph},
		{name: "draggable", param: "key", handler: s.draggable, public: true},
		{name: "scatterplot", param: "key", handler: s.scatterplot, public: true},
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", health)
	s.engine.GET("/metrics", metricsHandler)

	dataviz := s.engine.Group(Prefix)
	staff := dataviz.Group("", staffOnly(s.cfg.StaffTokens))
	staff.GET("/", s.index)

	for _, r := range s.routes() {
		group := staff
		if r.public {
			group = dataviz
		}
		group.GET("/"+r.name, r.handler)
		group.GET("/"+r.name+"/:"+r.param, r.handler)
	}
}

// pathArg returns the trailing parameter of a visualization route, or "".
func pathArg(c *gin.Context) string {
	if len(c.Params) == 0 {
		return ""
	}
	return c.Params[0].Value
}
