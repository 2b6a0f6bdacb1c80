// Package notify tells the agency inbox about new enquiries.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/phbpx/prits"
	"github.com/phbpx/prits/metrics"
	"go.uber.org/zap"
)

// Notice describes one accepted submission.
type Notice struct {
	Kind        string
	ID          string
	Name        string
	Email       string
	Phone       string
	Company     string
	Message     string
	Plan        *prits.Plan
	SubmittedAt time.Time
}

func EnquiryNotice(e prits.Enquiry) Notice {
	return Notice{
		Kind:        metrics.KindEnquiry,
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Message:     e.Message,
		SubmittedAt: e.SubmittedAt,
	}
}

func ServiceEnquiryNotice(e prits.ServiceEnquiry) Notice {
	plan := e.Plan
	return Notice{
		Kind:        metrics.KindServiceEnquiry,
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Company:     e.Company,
		Message:     e.Message,
		Plan:        &plan,
		SubmittedAt: e.SubmittedAt,
	}
}

func (n Notice) Subject() string {
	if n.Plan != nil {
		return fmt.Sprintf("New %s enquiry (%s) from %s", n.Plan.Type, n.Plan.Name, n.Name)
	}
	return fmt.Sprintf("New contact enquiry from %s", n.Name)
}

func (n Notice) Body() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", n.Name)
	fmt.Fprintf(&b, "Email: %s\n", n.Email)
	fmt.Fprintf(&b, "Phone: %s\n", n.Phone)
	if n.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", n.Company)
	}
	if n.Plan != nil {
		fmt.Fprintf(&b, "Plan: %s, %s (%s)\n", n.Plan.Name, n.Plan.Price, n.Plan.Type)
	}
	fmt.Fprintf(&b, "Submitted: %s\n", n.SubmittedAt.Format("January 2, 2006 at 3:04 PM MST"))
	fmt.Fprintf(&b, "\nMessage:\n%s\n\nEnquiry ID: %s\n", n.Message, n.ID)

	return b.String()
}

type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Log only writes notices to the log. It is used when email is disabled.
type Log struct {
	log *zap.SugaredLogger
}

func NewLog(log *zap.SugaredLogger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(_ context.Context, n Notice) error {
	l.log.Infow("notify", "kind", n.Kind, "id", n.ID, "name", n.Name, "email", n.Email)
	return nil
}

// Dispatcher delivers notices in the background. A failed delivery is logged
// and never reaches the submitter.
type Dispatcher struct {
	notifier Notifier
	log      *zap.SugaredLogger
	timeout  time.Duration
	inflight sync.WaitGroup
}

func NewDispatcher(notifier Notifier, log *zap.SugaredLogger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		log:      log,
		timeout:  timeout,
	}
}

// Dispatch starts delivery of n and returns immediately. The returned channel
// is closed once delivery finished.
func (d *Dispatcher) Dispatch(n Notice) <-chan struct{} {
	done := make(chan struct{})

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, n); err != nil {
			metrics.RecordNotification(false)
			d.log.Errorw("notify", "kind", n.Kind, "id", n.ID, "error", err.Error())
			return
		}
		metrics.RecordNotification(true)
	}()

	return done
}

// Wait blocks until every dispatched notice finished, or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
