package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Djatila/studionailart-sub001/internal/config"
	"github.com/Djatila/studionailart-sub001/internal/models"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers booking messages to clients. Delivery failures are the
// sender's problem to log; bookings never fail because a message did not go
// out.
type Notifier interface {
	AppointmentCreated(ctx context.Context, apt *models.Appointment)
	AppointmentReminder(ctx context.Context, apt *models.Appointment)
}

// Sender pushes WhatsApp messages through Twilio and mirrors each event to
// the automation webhook (n8n) when one is configured.
type Sender struct {
	cfg    config.Notify
	client *twilio.RestClient
	http   *http.Client
	log    *slog.Logger
}

func NewSender(cfg config.Notify, log *slog.Logger) *Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &Sender{
		cfg:    cfg,
		client: client,
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (s *Sender) AppointmentCreated(ctx context.Context, apt *models.Appointment) {
	msg := fmt.Sprintf(
		"Studio Nail Art: Olá %s! Seu agendamento de %s foi recebido para %s às %s. Aguarde a confirmação da designer. 💅",
		apt.ClientName, apt.Service, formatDate(apt.Date), apt.Time,
	)

	s.sendWhatsApp(apt.ClientPhone, msg)
	s.postWebhook(ctx, "appointment_created", apt)
}

func (s *Sender) AppointmentReminder(ctx context.Context, apt *models.Appointment) {
	msg := fmt.Sprintf(
		"Studio Nail Art: Olá %s! Lembrete do seu horário de %s amanhã, %s às %s. Até lá! 💅",
		apt.ClientName, apt.Service, formatDate(apt.Date), apt.Time,
	)

	s.sendWhatsApp(apt.ClientPhone, msg)
	s.postWebhook(ctx, "appointment_reminder", apt)
}

func (s *Sender) sendWhatsApp(phone, body string) {
	const op = "notify.Sender.sendWhatsApp"

	if s.cfg.TwilioAccountSID == "" || phone == "" {
		return
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsAppAddr(phone))
	params.SetFrom(whatsAppAddr(s.cfg.TwilioFrom))
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		s.log.Error("WhatsApp send failed",
			slog.String("op", op),
			slog.String("to", phone),
			sl.Err(err),
		)
	}
}

type webhookEvent struct {
	Type        string  `json:"type"`
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	Service     string  `json:"service"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Price       float64 `json:"price"`
	DesignerID  string  `json:"designer_id"`
}

func (s *Sender) postWebhook(ctx context.Context, eventType string, apt *models.Appointment) {
	const op = "notify.Sender.postWebhook"

	if s.cfg.WebhookURL == "" {
		return
	}

	payload, err := json.Marshal(webhookEvent{
		Type:        eventType,
		ClientName:  apt.ClientName,
		ClientPhone: apt.ClientPhone,
		Service:     apt.Service,
		Date:        apt.Date,
		Time:        apt.Time,
		Price:       apt.Price,
		DesignerID:  apt.DesignerID,
	})
	if err != nil {
		s.log.Error("Webhook payload marshal failed", slog.String("op", op), sl.Err(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		s.log.Error("Webhook request build failed", slog.String("op", op), sl.Err(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		s.log.Warn("Webhook delivery failed", slog.String("op", op), sl.Err(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.log.Warn("Webhook rejected event",
			slog.String("op", op),
			slog.String("type", eventType),
			slog.Int("status", resp.StatusCode),
		)
	}
}

func whatsAppAddr(phone string) string {
	if strings.HasPrefix(phone, "whatsapp:") {
		return phone
	}

	return "whatsapp:" + phone
}

func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}

	return t.Format("02/01/2006")
}
