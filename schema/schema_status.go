package schema

// StoreStatus represents the status of the bounty store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  uint             `json:"schema_version"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	TotalBounties  int64            `json:"total_bounties"`
	DistinctOrgs   int64            `json:"distinct_orgs"`
	DistinctStatus int64            `json:"distinct_status"`
}
