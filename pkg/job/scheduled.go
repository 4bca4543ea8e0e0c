package job

import (
	"context"
	"errors"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

type schedule struct {
	run  func(context.Context) error
	name string
	expr string
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// cronSchedule adapts a cron schedule to river.PeriodicSchedule.
type cronSchedule struct {
	cron.Schedule
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	s, err := cronParser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return cronSchedule{Schedule: s}, nil
}

// periodicJobs registers every schedule in reg and returns the River
// periodic jobs that enqueue them.
func periodicJobs(schedules []schedule, reg *registry) ([]*river.PeriodicJob, error) {
	jobs := make([]*river.PeriodicJob, 0, len(schedules))
	for _, s := range schedules {
		when, err := parseCronSchedule(s.expr)
		if err != nil {
			return nil, err
		}
		reg.add(s.name, periodicTask(s.run))

		name := s.name
		jobs = append(jobs, river.NewPeriodicJob(
			when,
			func() (river.JobArgs, *river.InsertOpts) {
				return &taskArgs{Task: name}, &river.InsertOpts{MaxAttempts: 1}
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		))
	}
	return jobs, nil
}
