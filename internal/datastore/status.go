package datastore

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/bountyviz/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Schema Version: %d\n", status.SchemaVersion)
	_, _ = fmt.Fprintf(w, "Total Bounties: %d\n", status.TotalBounties)
	if status.TotalBounties > 0 {
		_, _ = fmt.Fprintf(w, "Distinct Orgs: %d\n", status.DistinctOrgs)
		_, _ = fmt.Fprintf(w, "Distinct Statuses: %d\n", status.DistinctStatus)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
