package services

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/ReturnKart/backhaul-backend/internal/logger"
)

// Notifier delivers a short message to a driver. Fire-and-forget: callers
// log failures but never fail the surrounding operation on one.
type Notifier interface {
	Notify(recipient, title, message string) error
}

// NoopNotifier is used when no Twilio credentials are configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(recipient, title, message string) error { return nil }

// TwilioNotifier sends WhatsApp messages via Twilio.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	log    logger.Logger
}

// NewTwilioNotifier creates a notifier from explicit credentials.
func NewTwilioNotifier(accountSID, authToken, whatsappFrom string, log logger.Logger) (*TwilioNotifier, error) {
	if accountSID == "" || authToken == "" || whatsappFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioNotifier{client: client, from: whatsappFrom, log: log}, nil
}

// Notify sends a WhatsApp message to the recipient's phone number.
func (t *TwilioNotifier) Notify(recipient, title, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", recipient))
	params.SetBody(fmt.Sprintf("*%s*\n%s", title, message))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		t.log.Error("failed to send WhatsApp message", logger.Error(err))
		return err
	}

	t.log.Info("WhatsApp message sent", logger.String("sid", deref(resp.Sid)))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
