package adapters

import (
	"sort"

	"github.com/de-tools/clarity/pkg/models/api"
	"github.com/de-tools/clarity/pkg/services/workflow"
)

func MapSyncStatusToApi(company string, p workflow.RunnerProgress) api.SyncStatus {
	status := api.SyncStatus{
		Company:   company,
		Runs:      p.Runs,
		Fetched:   p.Fetched,
		Failed:    p.Failed,
		LastError: p.LastError,
	}
	if !p.LastRunAt.IsZero() {
		lastRun := p.LastRunAt
		status.LastRunAt = &lastRun
	}
	return status
}

// MapSyncStatusesToApi orders the statuses by company.
func MapSyncStatusesToApi(progress map[string]workflow.RunnerProgress) []api.SyncStatus {
	result := make([]api.SyncStatus, 0, len(progress))
	for company, p := range progress {
		result = append(result, MapSyncStatusToApi(company, p))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Company < result[j].Company
	})
	return result
}
