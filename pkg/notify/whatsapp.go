package notify

import (
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppDispatcher sends WhatsApp messages through the Twilio messaging API.
// Destination is the citizen's no_wa in E.164 form; Twilio requires the
// "whatsapp:" prefix on both sides.
type WhatsAppDispatcher struct {
	client *twilio.RestClient
	from   string // sender number, without the whatsapp: prefix
}

// NewWhatsAppDispatcher builds a dispatcher using Twilio credentials from the
// environment (TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN, read by the SDK).
func NewWhatsAppDispatcher(from string) *WhatsAppDispatcher {
	return &WhatsAppDispatcher{client: twilio.NewRestClient(), from: from}
}

func (w *WhatsAppDispatcher) Send(destination string, update StatusUpdate) Result {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + destination)
	params.SetFrom("whatsapp:" + w.from)
	params.SetBody(RenderMessage(update))
	res := Result{Channel: "WHATSAPP", Provider: "twilio"}
	msg, err := w.client.Api.CreateMessage(params)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	if msg.Sid != nil {
		res.Detail = *msg.Sid
	}
	return res
}
