// Package scheduler drives the periodic background jobs. Job failures are
// logged and retried on the next tick, a slow run suppresses the overlapping
// one rather than stacking up.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/uksimracing/website/internal/streams"
	"github.com/uksimracing/website/internal/videos"
	"github.com/uksimracing/website/pkg/log"
)

const (
	videoSyncSchedule   = "0 * * * *"
	streamCheckSchedule = "*/15 * * * *"
	memberCountSchedule = "5 * * * *"

	initialSyncDelay = time.Second * 30
	jobTimeout       = time.Minute * 5
)

// MemberCounter pushes the current guild member count into the stats state.
// Satisfied by the discord bot.
type MemberCounter interface {
	PushMemberCount(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	videos  videos.Videos
	monitor *streams.Monitor
	counter MemberCounter
}

// New builds the job schedule. Times run in the London timezone so the hourly
// jobs track UK wall clock across DST changes. counter may be nil when the
// discord bot is disabled.
func New(videoUsecase videos.Videos, monitor *streams.Monitor, counter MemberCounter) (*Scheduler, error) {
	location, errLocation := time.LoadLocation("Europe/London")
	if errLocation != nil {
		return nil, errLocation
	}

	scheduler := &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		videos:  videoUsecase,
		monitor: monitor,
		counter: counter,
	}

	if _, err := scheduler.cron.AddFunc(videoSyncSchedule, scheduler.syncVideos); err != nil {
		return nil, err
	}

	if _, err := scheduler.cron.AddFunc(streamCheckSchedule, scheduler.checkStreams); err != nil {
		return nil, err
	}

	if counter != nil {
		if _, err := scheduler.cron.AddFunc(memberCountSchedule, scheduler.pushMemberCount); err != nil {
			return nil, err
		}
	}

	return scheduler, nil
}

// Start launches the cron loop and schedules a one-shot initial sync shortly
// after boot so a fresh deploy does not wait out the first hour.
func (s *Scheduler) Start() {
	s.cron.Start()

	time.AfterFunc(initialSyncDelay, func() {
		s.syncVideos()
		s.checkStreams()

		if s.counter != nil {
			s.pushMemberCount()
		}
	})
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) syncVideos() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, errSync := s.videos.Sync(ctx)
	if errSync != nil {
		slog.Error("Video sync failed", log.ErrAttr(errSync))

		return
	}

	slog.Info("Video sync complete", slog.Int("videos", count))
}

func (s *Scheduler) checkStreams() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.monitor.CheckOfficial(ctx)
	s.monitor.CheckCommunity(ctx)
}

func (s *Scheduler) pushMemberCount() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if errPush := s.counter.PushMemberCount(ctx); errPush != nil {
		slog.Warn("Member count push failed", log.ErrAttr(errPush))
	}
}
