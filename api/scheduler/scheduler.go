package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/mailer"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
	"github.com/cybermitra/guardian-api/storage"
	templates "github.com/cybermitra/guardian-api/templates/html"
)

// Job names double as lock names
const (
	JobStaleCaseDigest  = "stale_case_digest"
	JobPurgeResetTokens = "purge_reset_tokens"
	JobSweepEvidence    = "sweep_orphan_evidence"
)

const (
	jobTimeout = 5 * time.Minute
	lockTTL    = 10 * time.Minute
)

// DigestRecipients get the daily unverified case digest
var DigestRecipients = []string{models.RoleSeniorInvestigator, models.RoleSuperAdmin}

// Scheduler handles periodic background jobs for case housekeeping
type Scheduler struct {
	cron           *cron.Cron
	Cases          *services.CaseStore
	Users          *services.Users
	Subcollections *services.Subcollections
	Resets         *services.ResetTokens
	Mailer         mailer.Mailer
	LockDB         databases.SchedulerLockDatabase
	StaleDays      int
	WebBaseURL     string
	Clock          func() time.Time
	instanceID     string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cases *services.CaseStore,
	users *services.Users,
	subs *services.Subcollections,
	resets *services.ResetTokens,
	m mailer.Mailer,
	lockDB databases.SchedulerLockDatabase,
	staleDays int,
	webBaseURL string,
) *Scheduler {
	// Heroku sets DYNO to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:           cron.New(cron.WithLocation(time.UTC)),
		Cases:          cases,
		Users:          users,
		Subcollections: subs,
		Resets:         resets,
		Mailer:         m,
		LockDB:         lockDB,
		StaleDays:      staleDays,
		WebBaseURL:     strings.TrimRight(webBaseURL, "/"),
		instanceID:     instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	jobs := []struct {
		spec string
		name string
		run  func(ctx context.Context) error
	}{
		// digest of unverified cases every morning at 8 AM UTC
		{"0 8 * * *", JobStaleCaseDigest, func(ctx context.Context) error {
			_, err := s.SendStaleCaseDigest(ctx)
			return err
		}},
		{"0 * * * *", JobPurgeResetTokens, func(ctx context.Context) error {
			_, err := s.PurgeResetTokens(ctx)
			return err
		}},
		{"0 3 * * *", JobSweepEvidence, func(ctx context.Context) error {
			_, err := s.SweepEvidence(ctx)
			return err
		}},
	}
	for _, j := range jobs {
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() { s.runLocked(j.name, j.run) }); err != nil {
			zap.S().Errorw("failed to register job", "job", j.name, "error", err)
		}
	}

	s.cron.Start()
	zap.S().Infow("case scheduler started", "instance", s.instanceID, "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("case scheduler stopped")
}

// runLocked runs job on this instance only if no other instance holds its lock
func (s *Scheduler) runLocked(name string, job func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if s.LockDB != nil {
		acquired, err := s.LockDB.TryAcquireLock(ctx, name, s.instanceID, lockTTL)
		if err != nil {
			zap.S().Errorw("failed to acquire job lock", "job", name, "error", err)
			return
		}
		if !acquired {
			zap.S().Debugw("job already running on another instance, skipping", "job", name)
			return
		}
		defer func() {
			if err := s.LockDB.ReleaseLock(context.WithoutCancel(ctx), name, s.instanceID); err != nil {
				zap.S().Warnw("failed to release job lock", "job", name, "error", err)
			}
		}()
	}

	start := time.Now()
	if err := job(ctx); err != nil {
		zap.S().Errorw("scheduled job failed", "job", name, "error", err)
		return
	}
	zap.S().Infow("scheduled job finished", "job", name, "instance", s.instanceID, "duration", time.Since(start))
}

func (s *Scheduler) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

// StaleCases returns unverified cases opened at least StaleDays ago, oldest first
func (s *Scheduler) StaleCases(ctx context.Context) ([]templates.StaleCaseRow, error) {
	cases, err := s.Cases.GetAllCases(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	cutoff := now.AddDate(0, 0, -s.StaleDays)

	var rows []templates.StaleCaseRow
	// cases arrive newest first
	for i := len(cases) - 1; i >= 0; i-- {
		c := cases[i]
		opened := c.DateOpened.Time()
		if c.Status != models.CaseStatusUnverified || opened.After(cutoff) {
			continue
		}
		rows = append(rows, templates.StaleCaseRow{
			CaseNumber: c.CaseNumber,
			Title:      c.Title,
			VictimName: c.Victim.Name,
			DaysOpen:   int(now.Sub(opened).Hours() / 24),
			Link:       s.WebBaseURL + "/cases/" + c.ID.Hex(),
		})
	}
	return rows, nil
}

// SendStaleCaseDigest emails the unverified case digest to every active senior
// investigator and super admin. It returns the number of messages sent.
func (s *Scheduler) SendStaleCaseDigest(ctx context.Context) (int, error) {
	rows, err := s.StaleCases(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		zap.S().Debug("no stale cases, digest skipped")
		return 0, nil
	}

	recipients, err := s.Users.GetUsersByRole(ctx, DigestRecipients)
	if err != nil {
		return 0, err
	}

	subject := fmt.Sprintf("%d unverified case(s) need review", len(rows))
	html := templates.RenderStaleCaseDigest(rows)
	text := templates.StaleCaseDigestText(rows)

	sent := 0
	for _, u := range recipients {
		if !u.IsActive || u.Email == "" {
			continue
		}
		err := s.Mailer.Send(ctx, mailer.Message{
			ToEmail:   u.Email,
			ToName:    strings.TrimSpace(u.FirstName + " " + u.LastName),
			Subject:   subject,
			HTML:      html,
			PlainText: text,
		})
		if err != nil {
			zap.S().Warnw("failed to send stale case digest", "userId", u.ID.Hex(), "error", err)
			continue
		}
		sent++
	}
	zap.S().Infow("stale case digest sent", "cases", len(rows), "recipients", sent)
	return sent, nil
}

// PurgeResetTokens deletes expired and used password reset tokens
func (s *Scheduler) PurgeResetTokens(ctx context.Context) (int64, error) {
	n, err := s.Resets.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge reset tokens: %w", err)
	}
	if n > 0 {
		zap.S().Infow("purged reset tokens", "count", n)
	}
	return n, nil
}

// SweepEvidence removes evidence files that no record refers to. Backends that
// cannot list their objects are skipped.
func (s *Scheduler) SweepEvidence(ctx context.Context) (int, error) {
	n, err := s.Subcollections.SweepOrphanEvidence(ctx)
	if errors.Is(err, storage.ErrListUnsupported) {
		zap.S().Info("evidence backend cannot list objects, sweep skipped")
		return 0, nil
	}
	if err != nil {
		return n, fmt.Errorf("failed to sweep evidence: %w", err)
	}
	if n > 0 {
		zap.S().Infow("removed orphaned evidence files", "count", n)
	}
	return n, nil
}
