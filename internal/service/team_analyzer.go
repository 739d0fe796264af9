package service

import (
	"sort"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

// analyzeTeam turns per-assignee aggregates into member and team rollups.
func analyzeTeam(rows []models.MemberPerformanceRow) models.TeamPerformance {
	team := models.TeamPerformance{Members: make([]models.MemberPerformance, 0, len(rows))}

	var memberAverages []float64
	for _, row := range rows {
		member := models.MemberPerformance{
			UserID:         row.UserID,
			Name:           row.Name,
			Email:          row.Email,
			AssignedCount:  row.AssignedCount,
			ResolvedCount:  row.ResolvedCount,
			ResolutionRate: percentOf(float64(row.ResolvedCount), float64(row.AssignedCount)),
		}
		if row.AvgResolutionDays != nil {
			avg := round1(*row.AvgResolutionDays)
			member.AvgResolutionTime = &avg
			memberAverages = append(memberAverages, *row.AvgResolutionDays)
		}
		team.TotalAssigned += row.AssignedCount
		team.TotalResolved += row.ResolvedCount
		team.Members = append(team.Members, member)
	}

	sort.SliceStable(team.Members, func(i, j int) bool {
		if team.Members[i].ResolvedCount != team.Members[j].ResolvedCount {
			return team.Members[i].ResolvedCount > team.Members[j].ResolvedCount
		}
		return team.Members[i].Name < team.Members[j].Name
	})

	team.MemberCount = len(team.Members)
	team.TeamResolutionRate = percentOf(float64(team.TotalResolved), float64(team.TotalAssigned))
	team.AvgResolutionTime = round1(mean(memberAverages))
	if len(team.Members) > 0 {
		top := team.Members[0]
		team.TopPerformer = &top
	}
	return team
}
