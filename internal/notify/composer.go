package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/domain"
)

// UserLookup resolves recipient identity. Satisfied by repository.UserRepository;
// declared here so the composer depends only on what it uses.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Subject lines and template names for the five message classes.
const (
	subjectDirectorAssigned = "You have been assigned as Director - Service on "
	subjectMusicianAssigned = "You have been assigned as Musician - Service on "
	subjectRemoved          = "Your assignment has changed - Service on "
	subjectDirectorReminder = "Service reminder - review the song list"
	subjectMusicianReminder = "Practice reminder - prepare your instrument"

	TemplateDirectorAssignment = "director-assignment"
	TemplateMusicianAssignment = "musician-assignment"
	TemplateDirectorRemoval    = "director-removal"
	TemplateMusicianRemoval    = "musician-removal"
	TemplateReminder           = "reminder"
)

// datePlaceholder is rendered wherever a service or practice date is not
// set yet. Missing dates never fail composition.
const datePlaceholder = "date to be confirmed"

const dateLayout = "02/01/2006"

// FormatDate renders a calendar date as dd/mm/yyyy, locale-independent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return datePlaceholder
	}
	return t.Format(dateLayout)
}

// Composer turns assignment deltas into fully-populated notification
// events, resolving each recipient through the user lookup. Unknown
// recipient IDs are skipped and logged: a stale identifier must not block
// notifying everyone else.
type Composer struct {
	users  UserLookup
	logger *zap.Logger
}

func NewComposer(users UserLookup, logger *zap.Logger) *Composer {
	return &Composer{users: users, logger: logger}
}

// FromDiff emits one event per resolved recipient in deterministic order:
// additions before removals, directors before musicians, insertion order
// within each group.
func (c *Composer) FromDiff(ctx context.Context, svc *domain.Service, diff domain.AssignmentDiff) []domain.NotificationEvent {
	var events []domain.NotificationEvent

	for _, id := range diff.AddedDirectors {
		if ev, ok := c.compose(ctx, svc, id, domain.CategoryAssignment, domain.RoleDirector, ""); ok {
			events = append(events, ev)
		}
	}
	for _, ma := range diff.AddedMusicians {
		if ev, ok := c.compose(ctx, svc, ma.MusicianID, domain.CategoryAssignment, domain.RoleMusician, ma.Instrument); ok {
			events = append(events, ev)
		}
	}
	for _, id := range diff.RemovedDirectors {
		if ev, ok := c.compose(ctx, svc, id, domain.CategoryRemoval, domain.RoleDirector, ""); ok {
			events = append(events, ev)
		}
	}
	for _, ma := range diff.RemovedMusicians {
		if ev, ok := c.compose(ctx, svc, ma.MusicianID, domain.CategoryRemoval, domain.RoleMusician, ma.Instrument); ok {
			events = append(events, ev)
		}
	}

	return events
}

// Reminder composes a REMINDER event for one currently-assigned person.
// Used by the reminder scan; no diffing is involved.
func (c *Composer) Reminder(ctx context.Context, svc *domain.Service, recipientID string, role domain.Role, instrument string) (domain.NotificationEvent, bool) {
	return c.compose(ctx, svc, recipientID, domain.CategoryReminder, role, instrument)
}

func (c *Composer) compose(ctx context.Context, svc *domain.Service, recipientID string, category domain.Category, role domain.Role, instrument string) (domain.NotificationEvent, bool) {
	user, err := c.users.GetByID(ctx, recipientID)
	if err != nil {
		c.logger.Warn("skipping notification: recipient not resolved",
			zap.String("recipient_id", recipientID),
			zap.String("service_id", svc.ID),
			zap.Error(err),
		)
		return domain.NotificationEvent{}, false
	}

	return domain.NotificationEvent{
		ID:              uuid.New().String(),
		Category:        category,
		RecipientID:     user.ID,
		RecipientEmail:  user.Email,
		RecipientName:   user.Name,
		Role:            role,
		Instrument:      instrument,
		ServiceID:       svc.ID,
		ServiceDate:     FormatDate(svc.ServiceDate),
		ServiceLocation: svc.Location,
		PracticeDate:    FormatDate(svc.PracticeDate),
		Subject:         subjectFor(category, role, svc),
		Template:        templateFor(category, role),
	}, true
}

func subjectFor(category domain.Category, role domain.Role, svc *domain.Service) string {
	switch category {
	case domain.CategoryAssignment:
		if role == domain.RoleDirector {
			return subjectDirectorAssigned + FormatDate(svc.ServiceDate)
		}
		return subjectMusicianAssigned + FormatDate(svc.ServiceDate)
	case domain.CategoryRemoval:
		return subjectRemoved + FormatDate(svc.ServiceDate)
	default:
		if role == domain.RoleDirector {
			return subjectDirectorReminder
		}
		return subjectMusicianReminder
	}
}

func templateFor(category domain.Category, role domain.Role) string {
	switch category {
	case domain.CategoryAssignment:
		if role == domain.RoleDirector {
			return TemplateDirectorAssignment
		}
		return TemplateMusicianAssignment
	case domain.CategoryRemoval:
		if role == domain.RoleDirector {
			return TemplateDirectorRemoval
		}
		return TemplateMusicianRemoval
	default:
		return TemplateReminder
	}
}
