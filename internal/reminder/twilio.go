package reminder

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	FromNumber     string
	WhatsAppNumber string
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && (c.FromNumber != "" || c.WhatsAppNumber != "")
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender texts through WhatsApp when the number is in E.164 form and a
// WhatsApp sender is configured, and through SMS otherwise.
type TwilioSender struct {
	api      messageCreator
	from     string
	whatsapp string
}

func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{api: client.Api, from: cfg.FromNumber, whatsapp: cfg.WhatsAppNumber}
}

func (t *TwilioSender) route(phone string) (to string, from string) {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") && t.whatsapp != "" {
		return "whatsapp:" + phone, "whatsapp:" + t.whatsapp
	}
	return phone, t.from
}

func (t *TwilioSender) Send(ctx context.Context, phone string, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to, from := t.route(phone)
	if from == "" {
		return errors.New("no twilio sender number for " + to)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("[reminder] message sent sid=%s", *resp.Sid)
	}
	return nil
}
