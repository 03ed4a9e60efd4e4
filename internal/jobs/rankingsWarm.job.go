package jobs

import (
	"context"

	rankingsController "inkwell/internal/controllers/rankings"
	"inkwell/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// RankingsWarmJob recomputes the site-wide team rankings on a schedule so the
// durable cache stays warm and readers never pay for a cold recompute.
type RankingsWarmJob struct {
	rankings rankingsController.RankingsControllerInterface
	log      logger.Logger
	schedule services.Schedule
}

func NewRankingsWarmJob(
	rankings rankingsController.RankingsControllerInterface,
	schedule services.Schedule,
) *RankingsWarmJob {
	return &RankingsWarmJob{
		rankings: rankings,
		log:      logger.New("rankingsWarmJob"),
		schedule: schedule,
	}
}

func (j *RankingsWarmJob) Name() string {
	return "SiteRankingsWarm"
}

func (j *RankingsWarmJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	rankings, err := j.rankings.ComputeRankings(ctx, "", true)
	if err != nil {
		return log.Err("failed to warm site rankings", err)
	}

	log.Info("warmed site rankings", "teams", len(rankings))
	return nil
}

func (j *RankingsWarmJob) Schedule() services.Schedule {
	return j.schedule
}
