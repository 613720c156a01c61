package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/deadline"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/report"
	templates "github.com/linesmerrill/case-tracker-api/templates/html"
)

// DigestEvent is the websocket event type carrying the digest alerts
const DigestEvent = "deadline.digest"

const jobTimeout = 5 * time.Minute

// Broadcaster pushes an event to connected dashboards
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// Scheduler runs the daily chargesheet deadline digest
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	CDB      databases.CaseDatabase
	UDB      databases.UserDatabase
	Mailer   Mailer
	Hub      Broadcaster
	Location *time.Location
	BaseURL  string
	Now      func() time.Time
}

// NewScheduler creates a new scheduler instance. spec is a standard five
// field cron expression evaluated in loc.
func NewScheduler(cdb databases.CaseDatabase, udb databases.UserDatabase, mailer Mailer, hub Broadcaster, spec string, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     spec,
		CDB:      cdb,
		UDB:      udb,
		Mailer:   mailer,
		Hub:      hub,
		Location: loc,
		Now:      time.Now,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runDeadlineDigest); err != nil {
		return fmt.Errorf("failed to register deadline digest %q: %w", s.spec, err)
	}
	s.cron.Start()
	zap.S().Infow("deadline scheduler started", "spec", s.spec, "timezone", s.Location.String())
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("deadline scheduler stopped")
}

func (s *Scheduler) runDeadlineDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	due, err := s.DeadlineDigest(ctx)
	if err != nil {
		zap.S().Errorw("deadline digest failed", "error", err)
		return
	}
	zap.S().Infow("deadline digest finished", "cases", len(due))
}

// DeadlineDigest finds the open cases that are overdue or close to their
// chargesheet deadline, pushes them to dashboards and mails them to every
// active SuperAdmin
func (s *Scheduler) DeadlineDigest(ctx context.Context) ([]deadline.CaseAlert, error) {
	docs, err := s.CDB.Find(ctx, bson.M{
		"case.caseStatus":                bson.M{"$ne": "Disposed"},
		"case.finalChargesheetSubmitted": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	cases := make([]casefile.Case, 0, len(docs))
	for _, d := range docs {
		cases = append(cases, casefile.FromModel(d))
	}

	clk := deadline.At(s.Now(), s.Location)
	due := deadline.Due(deadline.Board(clk, cases), deadline.DigestWindow)
	if len(due) == 0 {
		return nil, nil
	}

	if s.Hub != nil {
		s.Hub.Broadcast(DigestEvent, due)
	}
	s.mail(ctx, clk, due)
	return due, nil
}

func (s *Scheduler) mail(ctx context.Context, clk deadline.Clock, due []deadline.CaseAlert) {
	if s.Mailer == nil {
		zap.S().Debug("no mailer configured, skipping digest email")
		return
	}
	admins, err := s.UDB.Find(ctx, bson.M{"user.role": models.RoleSuperAdmin, "user.active": true})
	if err != nil {
		zap.S().Errorw("failed to load digest recipients", "error", err)
		return
	}

	rows := make([]templates.DigestRow, 0, len(due))
	for _, a := range due {
		alert := a.Alert
		rows = append(rows, templates.DigestRow{
			CaseNo:        a.CaseNo,
			Year:          a.Year,
			PoliceStation: a.PoliceStation,
			DeadlineDate:  dates.FormatDate(a.DeadlineDate),
			Remaining:     report.Remaining(&alert),
			Overdue:       a.IsOverdue,
		})
	}
	subject := fmt.Sprintf("Chargesheet deadlines for %s", dates.FormatDateIn(clk.Now, clk.Location))
	htmlContent := templates.RenderDeadlineDigestEmail(subject, rows, s.BaseURL)
	plainText := templates.RenderDeadlineDigestText(rows)

	for _, u := range admins {
		to := Recipient{Name: u.Details.Name, Email: u.Details.Email}
		if err := s.Mailer.Send(to, subject, plainText, htmlContent); err != nil {
			zap.S().Errorw("failed to send deadline digest", "email", to.Email, "error", err)
		}
	}
}
