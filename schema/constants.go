package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of CLI output.
	OutputMode string

	// PayloadFormat represents the machine-readable format of a data response.
	PayloadFormat string

	// DatabaseBackend represents the database backend for the bounty store.
	DatabaseBackend string

	// VisualType selects the category paths of a sunburst/circles chart.
	VisualType string

	// GraphMode selects which relationships a network graph is built from.
	GraphMode string

	// NodeType classifies a graph node.
	NodeType string

	// Template names the HTML shell a visualization page renders with.
	Template string
)

// All output modes supported by the CLI.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All payload formats supported by the data endpoints.
const (
	CSVFormat  PayloadFormat = "csv" // default
	JSONFormat PayloadFormat = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Sunburst visual types.
const (
	StatusProgression VisualType = "status_progression" // default
	ReposVisual       VisualType = "repos"
	FulfillersVisual  VisualType = "fulfillers"
	FundersVisual     VisualType = "funders"
)

// Graph modes.
const (
	AllMode          GraphMode = "all"
	FulfillmentsMode GraphMode = "fulfillments"
	AcceptedOnlyMode GraphMode = "fulfillments_accepted_only"
	FutureMode       GraphMode = "what_future_could_look_like"
)

// GraphPayloadKey is the DataPayload key holding precomputed graph reports.
const GraphPayloadKey = "graph"

// Status progression paths are padded or truncated to this many segments.
const (
	StatusProgressionMaxLen = 12
	StatusPadding           = "_"
)

// Graph node types.
const (
	SourceNode         NodeType = "source"
	TargetNode         NodeType = "target"
	TargetAcceptedNode NodeType = "target_accepted"
	IndependentNode    NodeType = "independent"
)

// HTML shell templates.
const (
	SunburstTemplate    Template = "sunburst"
	CirclesTemplate     Template = "circles"
	GraphTemplate       Template = "graph"
	SquareGraphTemplate Template = "square_graph"
	HeatmapTemplate     Template = "heatmap"
	CalendarTemplate    Template = "calendar"
	SpiralTemplate      Template = "spiral"
	ChordTemplate       Template = "chord"
	SteamgraphTemplate  Template = "steamgraph"
	DraggableTemplate   Template = "draggable"
	ScatterplotTemplate Template = "scatterplot"
	IndexTemplate       Template = "index"
)

// Bounty statuses referenced by the aggregations.
const (
	OpenStatus    = "open"
	StartedStatus = "started"
	DoneStatus    = "done"
)

// Record filters used across the visualizations.
const (
	DefaultNetwork  = "mainnet"
	BountiesNetwork = "bounties_network"
)

// Default keys of the stat-driven and misc visualizations.
const (
	DefaultStatKey        = "email_open"
	DefaultChordKey       = "bounties_paid"
	DefaultSteamgraphKey  = "open"
	DefaultScatterplotKey = "hourly_rate"
)

// AllVisualTypes lists the sunburst visual types in display order.
var AllVisualTypes = []VisualType{StatusProgression, ReposVisual, FulfillersVisual, FundersVisual}

// BuiltinGraphModes lists the graph modes that do not depend on stored payloads.
var BuiltinGraphModes = []GraphMode{AcceptedOnlyMode, AllMode, FulfillmentsMode, FutureMode}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
