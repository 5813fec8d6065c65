package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huangsam/bountyviz/schema"
)

// Import writes every record of the dataset in a single transaction.
func (s *Store) Import(ctx context.Context, data schema.Dataset) error {
	if s.disabled() {
		return errNoDatabase
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := func(table string, columns string, count int, args ...any) error {
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, columns, placeholders(count))
		if _, err := tx.ExecContext(ctx, rebind(s.backend, query), args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		return nil
	}

	for _, b := range data.Bounties {
		if err := insert(bountiesTable, bountyColumns, 16,
			b.ID, b.StandardBountiesID, b.Network, b.Web3Type, b.CurrentBounty, b.Status, b.OrgName, b.RepoName,
			b.IssueNumber, b.GithubURL, b.OwnerUsername, b.ValueInUSDTThen, b.ValueInUSDT,
			formatTime(b.Web3Created, s.backend), formatTime(b.CreatedOn, s.backend), formatNullTime(b.ClosedOn, s.backend),
		); err != nil {
			return err
		}
	}
	for _, f := range data.Fulfillments {
		if err := insert(fulfillmentsTable, "id, bounty_id, fulfiller_username, accepted, created_on, accepted_on, hours_worked", 7,
			f.ID, f.BountyID, f.FulfillerUsername, f.Accepted, formatTime(f.CreatedOn, s.backend),
			formatNullTime(f.AcceptedOn, s.backend), nullableFloat(f.HoursWorked),
		); err != nil {
			return err
		}
	}
	for _, tip := range data.Tips {
		if err := insert(tipsTable, "id, network, username, from_username, value_in_usdt, created_on", 6,
			tip.ID, tip.Network, tip.Username, tip.FromUsername, nullableFloat(tip.ValueInUSDT), formatTime(tip.CreatedOn, s.backend),
		); err != nil {
			return err
		}
	}
	for _, p := range data.Profiles {
		if err := insert(profilesTable, "id, handle, has_github_token", 3, p.ID, p.Handle, p.HasGithubToken); err != nil {
			return err
		}
	}
	for _, st := range data.Stats {
		if err := insert(statsTable, "id, stat_key, created_on, val, val_since_hour, val_since_yesterday", 6,
			st.ID, st.Key, formatTime(st.CreatedOn, s.backend), st.Val, st.ValSinceHour, st.ValSinceYesterday,
		); err != nil {
			return err
		}
	}
	for _, p := range data.DataPayloads {
		if err := insert(dataPayloadsTable, "id, payload_key, report, comments, payload", 5,
			p.ID, p.Key, p.Report, p.Comments, p.Payload,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Clear deletes all records while keeping the schema.
func (s *Store) Clear(ctx context.Context) error {
	if s.disabled() {
		return errNoDatabase
	}
	for i := len(allTables) - 1; i >= 0; i-- {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", allTables[i])); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", allTables[i], err)
		}
	}
	return nil
}

// GetStatus returns status information about the bounty store.
func (s *Store) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	version, err := s.schemaVersion()
	if err != nil {
		return status, err
	}
	status.SchemaVersion = version

	for _, table := range allTables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalBounties = status.TableSizes[bountiesTable]

	counts := []struct {
		column string
		dest   *int64
	}{
		{"org_name", &status.DistinctOrgs},
		{"status", &status.DistinctStatus},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s", c.column, bountiesTable)
		if err := s.db.QueryRow(query).Scan(c.dest); err != nil {
			return status, fmt.Errorf("failed to count distinct %s: %w", c.column, err)
		}
	}
	return status, nil
}

// nullableFloat converts an optional number into a driver argument.
func nullableFloat(f *float64) any {
	if f == nil {
		return sql.NullFloat64{}
	}
	return *f
}
