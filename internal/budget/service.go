package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/notify"
)

// DefaultDebounce is how long a category stays quiet after an alert.
const DefaultDebounce = 24 * time.Hour

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	ListBudgets(ctx context.Context) ([]*Budget, error)
	// ListActive returns active budgets whose period contains asOf.
	ListActive(ctx context.Context, asOf time.Time) ([]*Budget, error)
	ListCategories(ctx context.Context, budgetID uuid.UUID) ([]*Category, error)

	// SpentInPeriod sums completed expenses of a ledger category dated
	// within [from, to].
	SpentInPeriod(ctx context.Context, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	// SaveCategory persists spent_amount.
	SaveCategory(ctx context.Context, c *Category) error
	// MarkAlerted records a delivered alert on the budget category row.
	MarkAlerted(ctx context.Context, budgetID, categoryID uuid.UUID, t AlertType, at time.Time) error
}

type Service struct {
	repo     Repository
	debounce time.Duration
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDebounce sets the quiet window after an alert. Non-positive values
// keep DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, debounce: DefaultDebounce, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx)
}

func (s *Service) Categories(ctx context.Context, budgetID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, budgetID)
}

// Active lists the budgets Evaluate would consider right now.
func (s *Service) Active(ctx context.Context) ([]*Budget, error) {
	return s.repo.ListActive(ctx, s.now())
}

// Evaluate recomputes spend for every category of b and returns the alerts
// that fire. Categories alerted within the debounce window stay silent unless
// the alert escalates to a higher tier. Alert times are recorded by
// MarkDelivered once the alerts reach someone. A failing category is skipped
// and its error joined into the result.
func (s *Service) Evaluate(ctx context.Context, b *Budget) ([]Alert, error) {
	return s.evaluate(ctx, b, false)
}

// Preview is Evaluate without persisting spend or alert times.
func (s *Service) Preview(ctx context.Context, b *Budget) ([]Alert, error) {
	return s.evaluate(ctx, b, true)
}

func (s *Service) evaluate(ctx context.Context, b *Budget, dryRun bool) ([]Alert, error) {
	now := s.now()
	if !b.Evaluable(now) {
		return nil, fmt.Errorf("%s: %w", b.Name, ErrInactive)
	}

	categories, err := s.repo.ListCategories(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	var alerts []Alert

	var errs []error

	for _, c := range categories {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		a, fired, err := s.evaluateCategory(ctx, b, c, now, dryRun)
		if err != nil {
			slog.ErrorContext(ctx, "budget category evaluation failed",
				"budget", b.Name,
				"category", c.CategoryName,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("category %s: %w", c.CategoryName, err))

			continue
		}

		if fired {
			alerts = append(alerts, a)
		}
	}

	return alerts, errors.Join(errs...)
}

func (s *Service) evaluateCategory(ctx context.Context, b *Budget, c *Category, now time.Time, dryRun bool) (Alert, bool, error) {
	spent, err := s.repo.SpentInPeriod(ctx, c.CategoryID, b.StartDate, b.EndDate)
	if err != nil {
		return Alert{}, false, fmt.Errorf("summing spend: %w", err)
	}

	next := *c
	next.SpentAmount = spent

	a, fired := Threshold(b, &next)
	if fired && s.debounced(&next, a.Type, now) {
		slog.DebugContext(ctx, "budget alert debounced", "budget", b.Name, "category", c.CategoryName, "type", a.Type)

		fired = false
	}

	if dryRun {
		return a, fired, nil
	}

	if err := s.repo.SaveCategory(ctx, &next); err != nil {
		return Alert{}, false, fmt.Errorf("saving category: %w", err)
	}

	*c = next

	return a, fired, nil
}

func (s *Service) debounced(c *Category, t AlertType, now time.Time) bool {
	if c.LastAlertSentAt == nil || now.Sub(*c.LastAlertSentAt) >= s.debounce {
		return false
	}

	return c.LastAlertType == nil || t.severity() <= c.LastAlertType.severity()
}

// MarkDelivered starts the debounce window for alerts that were delivered.
func (s *Service) MarkDelivered(ctx context.Context, alerts []Alert) error {
	now := s.now()

	var errs []error

	for _, a := range alerts {
		if err := s.repo.MarkAlerted(ctx, a.BudgetID, a.CategoryID, a.Type, now); err != nil {
			errs = append(errs, fmt.Errorf("marking %s / %s alerted: %w", a.BudgetName, a.CategoryName, err))
		}
	}

	return errors.Join(errs...)
}

// GroupBySeverity splits alerts into the exceeded and approaching tiers,
// preserving order within each.
func GroupBySeverity(alerts []Alert) map[AlertType][]Alert {
	out := make(map[AlertType][]Alert)
	for _, a := range alerts {
		out[a.Type] = append(out[a.Type], a)
	}

	return out
}

// Digest turns alerts into one notification per tier, exceeded first.
func Digest(alerts []Alert) []notify.Notification {
	groups := GroupBySeverity(alerts)

	var out []notify.Notification

	if exceeded := groups[AlertExceeded]; len(exceeded) > 0 {
		lines := make([]string, 0, len(exceeded))
		for _, a := range exceeded {
			lines = append(lines, fmt.Sprintf("- %s / %s: %s%% used, over by %s",
				a.BudgetName, a.CategoryName, a.Percentage.StringFixed(2), a.Overspent.StringFixed(2)))
		}

		out = append(out, notify.Notification{
			Kind:     "budget." + string(AlertExceeded),
			Title:    fmt.Sprintf("%d budget categories over their limit", len(exceeded)),
			Body:     strings.Join(lines, "\n"),
			Severity: notify.SeverityCritical,
			Data:     map[string]any{"alerts": exceeded},
		})
	}

	if approaching := groups[AlertApproaching]; len(approaching) > 0 {
		lines := make([]string, 0, len(approaching))
		for _, a := range approaching {
			lines = append(lines, fmt.Sprintf("- %s / %s: %s%% used, %s left",
				a.BudgetName, a.CategoryName, a.Percentage.StringFixed(2), a.Remaining.StringFixed(2)))
		}

		out = append(out, notify.Notification{
			Kind:     "budget." + string(AlertApproaching),
			Title:    fmt.Sprintf("%d budget categories approaching their limit", len(approaching)),
			Body:     strings.Join(lines, "\n"),
			Severity: notify.SeverityWarning,
			Data:     map[string]any{"alerts": approaching},
		})
	}

	return out
}
