package service

//go:generate mockgen -package=mocks -destination=mocks/mock_fetcher.go github.com/okian/skillboard/internal/app SkillsFetcher

import (
	"context"

	"github.com/okian/skillboard/internal/domain/model"
)

// SkillsFetcher reads teams and their skills runs from RobotEvents.
type SkillsFetcher interface {
	TeamSkills(ctx context.Context, teamID, season, program int) ([]model.SkillsRun, error)
	Team(ctx context.Context, teamID int) (model.TeamInfo, error)
}
