package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/bountyviz/core"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/outwriter"
	"github.com/huangsam/bountyviz/schema"
	"go.uber.org/zap"
)

const csvContentType = "text/csv; charset=utf-8"

// pageView is the data of the page template.
type pageView struct {
	Page    schema.Page
	Prefix  string
	DataURL string
}

// indexView is the data of the index template.
type indexView struct {
	Prefix string
	Routes []string
}

// dataRequested reports whether the request asks for the data response instead of the shell.
func dataRequested(c *gin.Context) bool {
	return contract.IsTruthy(c.Query("data"))
}

// payloadFormat returns the requested data format; anything but json means csv.
func payloadFormat(c *gin.Context) schema.PayloadFormat {
	if strings.EqualFold(c.Query("format"), string(schema.JSONFormat)) {
		return schema.JSONFormat
	}
	return schema.CSVFormat
}

// degraded logs a store failure; the response still carries whatever data was built.
func (s *Server) degraded(c *gin.Context, viz string, err error) {
	degradedTotal.WithLabelValues(viz).Inc()
	s.logger.Error("visualization degraded to an empty dataset",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("visualization", viz),
		zap.Error(err),
	)
}

func (s *Server) renderPage(c *gin.Context, page schema.Page) {
	c.HTML(http.StatusOK, "page", pageView{
		Page:    page,
		Prefix:  Prefix,
		DataURL: c.Request.URL.Path + "?data=1",
	})
}

func (s *Server) renderCSV(c *gin.Context, rows [][]string) {
	c.Data(http.StatusOK, csvContentType, []byte(outwriter.JoinRows(rows)))
}

// renderTable writes a table, dropping partial rows of a failed computation.
func (s *Server) renderTable(c *gin.Context, viz string, table schema.Table, err error) {
	if err != nil {
		s.degraded(c, viz, err)
		table.Rows = nil
	}
	s.renderCSV(c, table.AllRows())
}

func (s *Server) index(c *gin.Context) {
	routes := s.routes()
	names := make([]string, len(routes))
	for i, r := range routes {
		names[i] = r.name
	}
	c.HTML(http.StatusOK, "index", indexView{Prefix: Prefix, Routes: names})
}

func (s *Server) sunburst(c *gin.Context) {
	s.treePage(c, schema.SunburstTemplate)
}

func (s *Server) circles(c *gin.Context) {
	s.treePage(c, schema.CirclesTemplate)
}

func (s *Server) treePage(c *gin.Context, template schema.Template) {
	v := s.visualizer()
	ctx := c.Request.Context()
	arg := pathArg(c)

	if !dataRequested(c) {
		page, err := v.SunburstPage(ctx, arg, template)
		if err != nil {
			s.degraded(c, string(template), err)
		}
		s.renderPage(c, page)
		return
	}

	vt := core.ResolveVisualType(arg)
	if payloadFormat(c) == schema.JSONFormat {
		root, err := v.SunburstTree(ctx, vt)
		if err != nil {
			s.degraded(c, string(template), err)
		}
		c.JSON(http.StatusOK, root)
		return
	}
	rows, err := v.SunburstRows(ctx, vt)
	if err != nil {
		s.degraded(c, string(template), err)
		rows = nil
	}
	s.renderCSV(c, rows)
}

func (s *Server) graph(c *gin.Context) {
	s.networkPage(c, schema.GraphTemplate)
}

func (s *Server) sankey(c *gin.Context) {
	s.networkPage(c, schema.SquareGraphTemplate)
}

func (s *Server) networkPage(c *gin.Context, template schema.Template) {
	v := s.visualizer()
	ctx := c.Request.Context()
	arg := pathArg(c)

	if !dataRequested(c) {
		page, err := v.GraphPage(ctx, arg, template)
		if err != nil {
			s.degraded(c, string(template), err)
		}
		s.renderPage(c, page)
		return
	}

	data, err := v.Graph(ctx, arg, template)
	if err != nil {
		s.degraded(c, string(template), err)
		data = core.GraphData{Mode: data.Mode, Graph: schema.Graph{Nodes: []schema.GraphNode{}, Links: []schema.GraphLink{}}}
	}
	if data.Stored != nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", data.Stored)
		return
	}
	c.JSON(http.StatusOK, data.Graph)
}

func (s *Server) heatmap(c *gin.Context) {
	s.statPage(c, schema.HeatmapTemplate)
}

func (s *Server) calendar(c *gin.Context) {
	s.statPage(c, schema.CalendarTemplate)
}

func (s *Server) statPage(c *gin.Context, template schema.Template) {
	v := s.visualizer()
	ctx := c.Request.Context()
	arg := pathArg(c)

	if !dataRequested(c) {
		page, err := v.HeatmapPage(ctx, arg, template)
		if err != nil {
			s.degraded(c, string(template), err)
		}
		s.renderPage(c, page)
		return
	}

	series, err := v.HeatmapStats(ctx, arg, template)
	if err != nil {
		s.degraded(c, string(template), err)
		series.Stats = nil
	}
	if payloadFormat(c) == schema.JSONFormat {
		c.JSON(http.StatusOK, core.HeatmapSeries(series.Stats))
		return
	}
	s.renderCSV(c, core.HeatmapTable(series.Stats).AllRows())
}

func (s *Server) spiral(c *gin.Context) {
	v := s.visualizer()
	ctx := c.Request.Context()
	arg := pathArg(c)

	if !dataRequested(c) {
		page, err := v.SpiralPage(ctx, arg)
		if err != nil {
			s.degraded(c, string(schema.SpiralTemplate), err)
		}
		s.renderPage(c, page)
		return
	}

	series, err := v.SpiralStats(ctx, arg)
	if err != nil {
		s.degraded(c, string(schema.SpiralTemplate), err)
		series.Stats = nil
	}
	c.JSON(http.StatusOK, core.SpiralSeries(series.Stats))
}

func (s *Server) chord(c *gin.Context) {
	v := s.visualizer()
	if !dataRequested(c) {
		s.renderPage(c, v.ChordPage(pathArg(c)))
		return
	}
	table, err := v.Chord(c.Request.Context())
	s.renderTable(c, string(schema.ChordTemplate), table, err)
}

func (s *Server) steamgraph(c *gin.Context) {
	v := s.visualizer()
	ctx := c.Request.Context()
	arg := pathArg(c)

	if !dataRequested(c) {
		page, err := v.SteamgraphPage(ctx, arg)
		if err != nil {
			s.degraded(c, string(schema.SteamgraphTemplate), err)
		}
		s.renderPage(c, page)
		return
	}
	table, err := v.Steamgraph(ctx, arg)
	s.renderTable(c, string(schema.SteamgraphTemplate), table, err)
}

func (s *Server) draggable(c *gin.Context) {
	v := s.visualizer()
	ctx := c.Request.Context()

	if !dataRequested(c) {
		page, err := v.DraggablePage(ctx, pathArg(c))
		if err != nil {
			s.degraded(c, string(schema.DraggableTemplate), err)
		}
		s.renderPage(c, page)
		return
	}
	series, err := v.Draggable(ctx)
	if err != nil {
		s.degraded(c, string(schema.DraggableTemplate), err)
		series = []schema.BubbleSeries{}
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) scatterplot(c *gin.Context) {
	v := s.visualizer()
	if !dataRequested(c) {
		s.renderPage(c, v.ScatterplotPage(pathArg(c)))
		return
	}
	table, err := v.Scatterplot(c.Request.Context())
	s.renderTable(c, string(schema.ScatterplotTemplate), table, err)
}
