package datastore

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/bountyviz/schema"
)

const bountyColumns = `id, standard_bounties_id, network, web3_type, current_bounty, status, org_name, repo_name,
	issue_number, github_url, owner_username, value_in_usdt_then, value_in_usdt, web3_created, created_on, closed_on`

// ListBounties returns bounties matching the filter ordered by creation time.
func (s *Store) ListBounties(ctx context.Context, filter schema.BountyFilter) ([]schema.Bounty, error) {
	if s.disabled() {
		return nil, nil
	}

	var where []string
	var args []any
	if filter.Network != "" {
		where = append(where, "network = ?")
		args = append(args, filter.Network)
	}
	if filter.Web3Type != "" {
		where = append(where, "web3_type = ?")
		args = append(args, filter.Web3Type)
	}
	if filter.CurrentOnly {
		where = append(where, "current_bounty = ?")
		args = append(args, true)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_on, id", bountyColumns, bountiesTable, whereClause(where))
	rows, err := s.db.QueryContext(ctx, rebind(s.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bounties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Bounty
	for rows.Next() {
		var b schema.Bounty
		var web3Created, createdOn, closedOn dbTime
		if err := rows.Scan(&b.ID, &b.StandardBountiesID, &b.Network, &b.Web3Type, &b.CurrentBounty, &b.Status,
			&b.OrgName, &b.RepoName, &b.IssueNumber, &b.GithubURL, &b.OwnerUsername, &b.ValueInUSDTThen,
			&b.ValueInUSDT, &web3Created, &createdOn, &closedOn); err != nil {
			return nil, fmt.Errorf("failed to scan bounty: %w", err)
		}
		b.Web3Created = web3Created.Time
		b.CreatedOn = createdOn.Time
		b.ClosedOn = closedOn.Ptr()
		results = append(results, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bounties: %w", err)
	}
	return results, nil
}

// maxBoundIDs caps the ids bound in a single IN clause. It stays well below
// the bind variable limits of SQLite (32766) and MySQL/PostgreSQL (65535).
const maxBoundIDs = 1000

// ListFulfillments returns fulfillments matching the filter ordered by creation time.
// Large bounty id filters are sent in chunks of maxBoundIDs.
func (s *Store) ListFulfillments(ctx context.Context, filter schema.FulfillmentFilter) ([]schema.Fulfillment, error) {
	if s.disabled() {
		return nil, nil
	}
	if filter.BountyIDs != nil && len(filter.BountyIDs) == 0 {
		return nil, nil
	}
	if len(filter.BountyIDs) <= maxBoundIDs {
		return s.queryFulfillments(ctx, filter.AcceptedOnly, filter.BountyIDs)
	}

	var results []schema.Fulfillment
	for chunk := range slices.Chunk(filter.BountyIDs, maxBoundIDs) {
		part, err := s.queryFulfillments(ctx, filter.AcceptedOnly, chunk)
		if err != nil {
			return nil, err
		}
		results = append(results, part...)
	}
	slices.SortStableFunc(results, func(a, b schema.Fulfillment) int {
		if c := a.CreatedOn.Compare(b.CreatedOn); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return results, nil
}

// queryFulfillments runs one fulfillment query with at most maxBoundIDs bound ids.
func (s *Store) queryFulfillments(ctx context.Context, acceptedOnly bool, bountyIDs []int64) ([]schema.Fulfillment, error) {
	var where []string
	var args []any
	if acceptedOnly {
		where = append(where, "accepted = ?")
		args = append(args, true)
	}
	if len(bountyIDs) > 0 {
		where = append(where, fmt.Sprintf("bounty_id IN (%s)", placeholders(len(bountyIDs))))
		for _, id := range bountyIDs {
			args = append(args, id)
		}
	}

	query := fmt.Sprintf(`SELECT id, bounty_id, fulfiller_username, accepted, created_on, accepted_on, hours_worked
		FROM %s%s ORDER BY created_on, id`, fulfillmentsTable, whereClause(where))
	rows, err := s.db.QueryContext(ctx, rebind(s.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fulfillments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Fulfillment
	for rows.Next() {
		var f schema.Fulfillment
		var createdOn, acceptedOn dbTime
		var hours sql.NullFloat64
		if err := rows.Scan(&f.ID, &f.BountyID, &f.FulfillerUsername, &f.Accepted, &createdOn, &acceptedOn, &hours); err != nil {
			return nil, fmt.Errorf("failed to scan fulfillment: %w", err)
		}
		f.CreatedOn = createdOn.Time
		f.AcceptedOn = acceptedOn.Ptr()
		f.HoursWorked = nullFloatPtr(hours)
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fulfillments: %w", err)
	}
	return results, nil
}

// DistinctStatuses returns every bounty status present in the store, sorted.
func (s *Store) DistinctStatuses(ctx context.Context) ([]string, error) {
	if s.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT DISTINCT status FROM %s ORDER BY status", bountiesTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []string
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		results = append(results, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statuses: %w", err)
	}
	return results, nil
}

// ListTips returns tips sent on the given network. An empty network matches all tips.
func (s *Store) ListTips(ctx context.Context, network string) ([]schema.Tip, error) {
	if s.disabled() {
		return nil, nil
	}

	var where []string
	var args []any
	if network != "" {
		where = append(where, "network = ?")
		args = append(args, network)
	}
	query := fmt.Sprintf("SELECT id, network, username, from_username, value_in_usdt, created_on FROM %s%s ORDER BY created_on, id",
		tipsTable, whereClause(where))
	rows, err := s.db.QueryContext(ctx, rebind(s.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Tip
	for rows.Next() {
		var tip schema.Tip
		var value sql.NullFloat64
		var createdOn dbTime
		if err := rows.Scan(&tip.ID, &tip.Network, &tip.Username, &tip.FromUsername, &value, &createdOn); err != nil {
			return nil, fmt.Errorf("failed to scan tip: %w", err)
		}
		tip.ValueInUSDT = nullFloatPtr(value)
		tip.CreatedOn = createdOn.Time
		results = append(results, tip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tips: %w", err)
	}
	return results, nil
}

// ListProfiles returns profiles ordered by id, optionally only those with a GitHub token.
func (s *Store) ListProfiles(ctx context.Context, withGithubToken bool) ([]schema.Profile, error) {
	if s.disabled() {
		return nil, nil
	}

	var where []string
	var args []any
	if withGithubToken {
		where = append(where, "has_github_token = ?")
		args = append(args, true)
	}
	query := fmt.Sprintf("SELECT id, handle, has_github_token FROM %s%s ORDER BY id", profilesTable, whereClause(where))
	rows, err := s.db.QueryContext(ctx, rebind(s.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Profile
	for rows.Next() {
		var p schema.Profile
		if err := rows.Scan(&p.ID, &p.Handle, &p.HasGithubToken); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return results, nil
}

// ListStats returns stats matching the filter ordered by creation time.
// The hour filter is applied after the query since hour extraction differs per backend.
func (s *Store) ListStats(ctx context.Context, filter schema.StatFilter) ([]schema.Stat, error) {
	if s.disabled() {
		return nil, nil
	}

	var where []string
	var args []any
	if filter.Key != "" {
		where = append(where, "stat_key = ?")
		args = append(args, filter.Key)
	}
	if !filter.CreatedBefore.IsZero() {
		where = append(where, "created_on < ?")
		args = append(args, formatTime(filter.CreatedBefore, s.backend))
	}
	if !filter.CreatedAfter.IsZero() {
		where = append(where, "created_on > ?")
		args = append(args, formatTime(filter.CreatedAfter, s.backend))
	}

	query := fmt.Sprintf(`SELECT id, stat_key, created_on, val, val_since_hour, val_since_yesterday
		FROM %s%s ORDER BY created_on, id`, statsTable, whereClause(where))
	rows, err := s.db.QueryContext(ctx, rebind(s.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Stat
	for rows.Next() {
		var st schema.Stat
		var createdOn dbTime
		if err := rows.Scan(&st.ID, &st.Key, &createdOn, &st.Val, &st.ValSinceHour, &st.ValSinceYesterday); err != nil {
			return nil, fmt.Errorf("failed to scan stat: %w", err)
		}
		st.CreatedOn = createdOn.Time
		if filter.Hour != nil && st.CreatedOn.Hour() != *filter.Hour {
			continue
		}
		results = append(results, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}
	return results, nil
}

// ListDataPayloads returns the stored payloads saved under key, ordered by id.
func (s *Store) ListDataPayloads(ctx context.Context, key string) ([]schema.DataPayload, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT id, payload_key, report, comments, payload FROM %s WHERE payload_key = ? ORDER BY id", dataPayloadsTable)
	rows, err := s.db.QueryContext(ctx, rebind(s.backend, query), key)
	if err != nil {
		return nil, fmt.Errorf("failed to query data payloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DataPayload
	for rows.Next() {
		var p schema.DataPayload
		if err := rows.Scan(&p.ID, &p.Key, &p.Report, &p.Comments, &p.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan data payload: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating data payloads: %w", err)
	}
	return results, nil
}

// whereClause joins conditions with AND, or returns an empty string.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
