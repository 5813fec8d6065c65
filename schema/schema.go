// Package schema has records, payloads and constants for all parts of bountyviz.
package schema

import "time"

// Bounty is a single funded issue as read from the marketplace store.
type Bounty struct {
	ID                 int64      `json:"id"`
	StandardBountiesID int64      `json:"standard_bounties_id"`
	Network            string     `json:"network"`
	Web3Type           string     `json:"web3_type"`
	CurrentBounty      bool       `json:"current_bounty"`
	Status             string     `json:"status"`
	OrgName            string     `json:"org_name"`
	RepoName           string     `json:"repo_name"`
	IssueNumber        int64      `json:"issue_number"`
	GithubURL          string     `json:"github_url"`
	OwnerUsername      string     `json:"owner_username"`
	ValueInUSDTThen    float64    `json:"value_in_usdt_then"`
	ValueInUSDT        float64    `json:"value_in_usdt"`
	Web3Created        time.Time  `json:"web3_created"`
	CreatedOn          time.Time  `json:"created_on"`
	ClosedOn           *time.Time `json:"closed_on,omitempty"`
}

// WasActiveAt reports whether the bounty was open for work at instant t.
func (b Bounty) WasActiveAt(t time.Time) bool {
	if b.Web3Created.After(t) {
		return false
	}
	return b.ClosedOn == nil || b.ClosedOn.After(t)
}

// Fulfillment is a submission of work against a bounty.
type Fulfillment struct {
	ID                int64      `json:"id"`
	BountyID          int64      `json:"bounty_id"`
	FulfillerUsername string     `json:"fulfiller_username"`
	Accepted          bool       `json:"accepted"`
	CreatedOn         time.Time  `json:"created_on"`
	AcceptedOn        *time.Time `json:"accepted_on,omitempty"`
	HoursWorked       *float64   `json:"hours_worked,omitempty"`
}

// Tip is a direct payment from one user to another.
type Tip struct {
	ID           int64     `json:"id"`
	Network      string    `json:"network"`
	Username     string    `json:"username"`
	FromUsername string    `json:"from_username"`
	ValueInUSDT  *float64  `json:"value_in_usdt,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
}

// Profile is a marketplace user.
type Profile struct {
	ID             int64  `json:"id"`
	Handle         string `json:"handle"`
	HasGithubToken bool   `json:"has_github_token"`
}

// Stat is one hourly sample of a marketing metric.
type Stat struct {
	ID                int64     `json:"id"`
	Key               string    `json:"key"`
	CreatedOn         time.Time `json:"created_on"`
	Val               float64   `json:"val"`
	ValSinceHour      float64   `json:"val_since_hour"`
	ValSinceYesterday float64   `json:"val_since_yesterday"`
}

// DataPayload is a precomputed visualization payload stored under a key and report name.
type DataPayload struct {
	ID       int64  `json:"id"`
	Key      string `json:"key"`
	Report   string `json:"report"`
	Comments string `json:"comments"`
	Payload  string `json:"payload"`
}

// Dataset bundles every record kind, used for bulk imports.
type Dataset struct {
	Bounties     []Bounty      `json:"bounties"`
	Fulfillments []Fulfillment `json:"fulfillments"`
	Tips         []Tip         `json:"tips"`
	Profiles     []Profile     `json:"profiles"`
	Stats        []Stat        `json:"stats"`
	DataPayloads []DataPayload `json:"data_payloads"`
}

// BountyFilter narrows a bounty query. Zero values do not filter.
type BountyFilter struct {
	Network     string
	Web3Type    string
	CurrentOnly bool
	Status      string
}

// FulfillmentFilter narrows a fulfillment query. Zero values do not filter.
type FulfillmentFilter struct {
	AcceptedOnly bool
	BountyIDs    []int64
}

// StatFilter narrows a stat query. Zero values do not filter.
type StatFilter struct {
	Key           string
	CreatedBefore time.Time
	CreatedAfter  time.Time
	Hour          *int
}
