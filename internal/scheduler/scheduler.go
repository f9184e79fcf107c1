package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shabelski89/pushups/internal/config"
	"github.com/shabelski89/pushups/internal/exercise"
	"github.com/shabelski89/pushups/internal/messages"
	"github.com/shabelski89/pushups/internal/models"
	"github.com/shabelski89/pushups/internal/progress"
	"github.com/shabelski89/pushups/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sender is what the scheduler needs from the chat transport.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Service drives the two periodic jobs: the under-quota reminder and the
// daily report. Jobs are stateless between firings apart from the optional
// once-per-day reminder suppression set.
type Service struct {
	Store *store.Store
	Bot   Sender
	Cfg   *config.Config

	// Now is swappable in tests; nil means time.Now.
	Now func() time.Time

	mu          sync.Mutex
	remindedDay string
	reminded    map[string]struct{}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start registers both jobs and starts the cron runner. Panics inside a job
// are caught and logged by the cron chain so one bad tick cannot stop
// future ones.
func (s *Service) Start() *cron.Cron {
	c := cron.New(
		cron.WithLocation(s.Cfg.Location),
		cron.WithChain(cron.Recover(cron.PrintfLogger(logrus.StandardLogger()))),
	)
	c.Schedule(cron.Every(s.Cfg.RemindEvery), cron.FuncJob(s.RunReminders))
	spec := fmt.Sprintf("%d %d * * *", s.Cfg.ReportMinute, s.Cfg.ReportHour)
	if _, err := c.AddFunc(spec, s.RunDailyReport); err != nil {
		logrus.Errorf("scheduler: add daily report %q: %s", spec, err)
	}
	c.Start()
	logrus.Infof("scheduler started: reminders every %s within [%d,%d), report at %02d:%02d",
		s.Cfg.RemindEvery, s.Cfg.RemindFromHour, s.Cfg.RemindToHour,
		s.Cfg.ReportHour, s.Cfg.ReportMinute)
	return c
}

// RunReminders is one reminder tick. Outside the configured local-time
// window it does nothing. Inside it, every underachiever gets one reminder
// per exercise, closest-to-goal first; send failures are logged per
// recipient and never stop the rest.
func (s *Service) RunReminders() {
	now := s.now().In(s.Cfg.Location)
	if now.Hour() < s.Cfg.RemindFromHour || now.Hour() >= s.Cfg.RemindToHour {
		logrus.Debugf("reminder tick at %02d:%02d is outside the window, nothing to do",
			now.Hour(), now.Minute())
		return
	}

	ctx := context.Background()
	day := models.Day(now, s.Cfg.Location)
	for _, kind := range exercise.Kinds() {
		goal, ok := s.Cfg.Goal(kind)
		if !ok {
			continue
		}
		totals, err := s.Store.TotalsForDay(ctx, kind, day)
		if err != nil {
			logrus.Errorf("reminders: totals for %s: %s", kind, err)
			continue
		}
		ev := progress.Evaluate(totals, goal)
		progress.SortByClosest(ev.Under)
		for _, u := range ev.Under {
			if s.alreadyReminded(day, kind, u.User.ID) {
				continue
			}
			chatID := u.User.ID
			mention := ""
			if s.Cfg.RemindInGroup && s.Cfg.GroupChatID != 0 {
				chatID = s.Cfg.GroupChatID
				mention = u.User.DisplayName()
			}
			if err := s.Bot.SendMessage(chatID, messages.Reminder(kind, u.Total, goal, mention)); err != nil {
				logrus.Warnf("reminders: send to chat %d: %s", chatID, err)
				continue
			}
			s.markReminded(day, kind, u.User.ID)
		}
	}
}

// RunDailyReport fires once a day regardless of the reminder window. The
// report goes to the group chat; with no group configured it degrades to the
// admin with a warning banner, and with neither it is dropped loudly.
func (s *Service) RunDailyReport() {
	now := s.now().In(s.Cfg.Location)
	day := models.Day(now, s.Cfg.Location)

	text, err := BuildReport(context.Background(), s.Store, s.Cfg, day)
	if err != nil {
		logrus.Errorf("daily report: %s", err)
		return
	}

	dest := s.Cfg.GroupChatID
	if dest == 0 {
		if s.Cfg.AdminChatID == 0 {
			logrus.Error("daily report: neither GROUP_CHAT_ID nor ADMIN_CHAT_ID configured, report not sent")
			return
		}
		dest = s.Cfg.AdminChatID
		text = messages.MissingGroupWarning + text
	}
	if err := s.Bot.SendMessage(dest, text); err != nil {
		logrus.Errorf("daily report: send to chat %d: %s", dest, err)
	}
}

// BuildReport runs the aggregate-evaluate-format pipeline for one day across
// all kinds and users. Shared by the scheduled report and the /report
// command.
func BuildReport(ctx context.Context, st *store.Store, cfg *config.Config, day string) (string, error) {
	var sections []messages.Section
	for _, kind := range exercise.Kinds() {
		goal, ok := cfg.Goal(kind)
		if !ok {
			continue
		}
		totals, err := st.TotalsForDay(ctx, kind, day)
		if err != nil {
			return "", fmt.Errorf("totals for %s: %w", kind, err)
		}
		sections = append(sections, messages.Section{
			Kind: kind,
			Goal: goal,
			Eval: progress.Evaluate(totals, goal),
		})
	}
	return messages.DailyReport(day, sections), nil
}

func (s *Service) alreadyReminded(day string, kind exercise.Kind, userID int64) bool {
	if !s.Cfg.RemindOncePerDay {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover(day)
	_, ok := s.reminded[remindKey(kind, userID)]
	return ok
}

func (s *Service) markReminded(day string, kind exercise.Kind, userID int64) {
	if !s.Cfg.RemindOncePerDay {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover(day)
	s.reminded[remindKey(kind, userID)] = struct{}{}
}

// rollover resets the suppression set at the day boundary. Callers hold mu.
func (s *Service) rollover(day string) {
	if s.remindedDay != day {
		s.remindedDay = day
		s.reminded = make(map[string]struct{})
	}
}

func remindKey(kind exercise.Kind, userID int64) string {
	return fmt.Sprintf("%s|%d", kind, userID)
}
