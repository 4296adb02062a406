package reminder

import (
	"FreshTrack/domain"
	"FreshTrack/entities"
	"FreshTrack/internal/metrics"
	"FreshTrack/internal/utils/mailing"
	"FreshTrack/pkg/freshness"
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// RecentlyExpiredDays bounds how far back expired items are still reported.
const RecentlyExpiredDays = 7

const subject = "FreshTrack: items that need your attention"

var digestTemplate = template.Must(template.New("digest").Parse(`<h2>Hi {{.Email}},</h2>
{{if .NearlyExpired}}<p>These items expire soon:</p>
<ul>{{range .NearlyExpired}}<li><b>{{.Title}}</b> ({{.Category}}, {{.Quantity}}) {{.Label}}</li>{{end}}</ul>{{end}}
{{if .Expired}}<p>These items have expired:</p>
<ul>{{range .Expired}}<li><b>{{.Title}}</b> ({{.Category}}, {{.Quantity}}) {{.Label}}</li>{{end}}</ul>{{end}}
<p><a href="{{.AppURL}}">Open your fridge</a></p>`))

type (
	ReminderService interface {
		SendExpiryReminder(ctx context.Context, userID string, email string) (domain.ReminderResponse, error)
	}

	// ItemSource is satisfied by food.FoodRepository.
	ItemSource interface {
		GetFoodItemsByExpiryRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.FoodItem, error)
	}

	reminderService struct {
		items  ItemSource
		mailer mailing.Mailer
		appURL string
		clock  freshness.Clock
	}

	digestLine struct {
		Title    string
		Category string
		Quantity string
		Label    string
	}

	digest struct {
		Email         string
		AppURL        string
		Expired       []digestLine
		NearlyExpired []digestLine
	}
)

func NewReminderService(items ItemSource, mailer mailing.Mailer, appURL string) ReminderService {
	return &reminderService{items: items, mailer: mailer, appURL: appURL, clock: freshness.SystemClock}
}

func (s *reminderService) SendExpiryReminder(ctx context.Context, userID string, email string) (domain.ReminderResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ReminderResponse{}, domain.ErrMissingRecipient
	}

	now := s.clock()
	today := freshness.StartOfDay(now)

	recent, err := s.items.GetFoodItemsByExpiryRange(ctx, userID,
		today.AddDate(0, 0, -RecentlyExpiredDays),
		today.AddDate(0, 0, freshness.NearlyExpiredDays+1))
	if err != nil {
		return domain.ReminderResponse{}, err
	}

	d := digest{Email: email, AppURL: s.appURL}
	for _, item := range recent {
		line := digestLine{
			Title:    item.Title,
			Category: item.Category,
			Quantity: item.Quantity,
			Label:    freshness.RelativeLabel(item.ExpiryDate, now),
		}
		switch freshness.Classify(item.ExpiryDate, now) {
		case freshness.Expired:
			d.Expired = append(d.Expired, line)
		case freshness.NearlyExpired:
			d.NearlyExpired = append(d.NearlyExpired, line)
		}
	}

	resp := domain.ReminderResponse{
		ExpiredItems:       len(d.Expired),
		NearlyExpiredItems: len(d.NearlyExpired),
	}
	if resp.ExpiredItems == 0 && resp.NearlyExpiredItems == 0 {
		return resp, nil
	}

	var body bytes.Buffer
	if err := digestTemplate.Execute(&body, d); err != nil {
		return domain.ReminderResponse{}, err
	}

	if err := s.mailer.SendMail(email, subject, body.String()); err != nil {
		log.Errorf("failed to send expiry reminder to %s: %v", email, err)
		return domain.ReminderResponse{}, err
	}

	metrics.RemindersSent.Inc()
	resp.Sent = true
	return resp, nil
}
