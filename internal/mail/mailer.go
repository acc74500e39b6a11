package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/nuitdor/booking-backend/internal/booking"
)

// Mailer sends booking confirmations through Resend. When no API key is
// configured every send is a logged no-op, so email stays optional.
type Mailer struct {
	client      *resend.Client
	from        string
	notifyEmail string
	packLabels  map[string]string
	logger      *zap.Logger
}

// Option keys shown to guests in the confirmation email. Unknown keys fall
// back to the raw key.
var defaultPackLabels = map[string]string{
	"petales":   "Pétales de roses",
	"bouquet":   "Bouquet de fleurs",
	"champagne": "Champagne",
	"formule80": "Formule gourmande 80€",
	"arrivee15": "Arrivée anticipée 15h",
	"depart14":  "Départ tardif 14h",
	"romance":   "Pack Romance",
	"luxe":      "Pack Luxe",
	"evasion":   "Pack Évasion",
}

func NewMailer(apiKey, from, notifyEmail string, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Mailer{
		from:        from,
		notifyEmail: notifyEmail,
		packLabels:  defaultPackLabels,
		logger:      logger,
	}
	if apiKey != "" {
		m.client = resend.NewClient(apiKey)
	}
	return m
}

func (m *Mailer) Configured() bool {
	return m.client != nil
}

// SendConfirmation emails the guest their paid reservation summary and, when
// NOTIFY_EMAIL is set, copies the owner.
func (m *Mailer) SendConfirmation(ctx context.Context, b *booking.Booking) error {
	if m.client == nil {
		m.logger.Info("email disabled, skipping confirmation", zap.Int64("booking_id", b.ID))
		return nil
	}

	html, err := renderConfirmation(b, m.packLabels)
	if err != nil {
		return fmt.Errorf("render confirmation email failed: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{b.Email},
		Subject: "Confirmation de votre réservation - Nuit d'Or",
		Html:    html,
	}
	if m.notifyEmail != "" {
		params.Bcc = []string{m.notifyEmail}
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send confirmation email failed: %w", err)
	}

	m.logger.Info("confirmation email sent",
		zap.Int64("booking_id", b.ID),
		zap.String("email_id", sent.Id),
	)
	return nil
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Georgia, serif; color: #2b2118; max-width: 560px; margin: 0 auto;">
  <h1 style="color: #b8860b;">Nuit d'Or</h1>
  <p>Bonjour {{.Nom}},</p>
  <p>Votre réservation est confirmée. Nous avons hâte de vous accueillir !</p>
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 4px 8px;">Arrivée</td><td style="padding: 4px 8px;"><strong>{{.Arrivee}}</strong></td></tr>
    <tr><td style="padding: 4px 8px;">Départ</td><td style="padding: 4px 8px;"><strong>{{.Depart}}</strong></td></tr>
    {{if .Extras}}<tr><td style="padding: 4px 8px;">Options</td><td style="padding: 4px 8px;">{{.Extras}}</td></tr>{{end}}
    <tr><td style="padding: 4px 8px;">Montant réglé</td><td style="padding: 4px 8px;"><strong>{{.Amount}}</strong></td></tr>
  </table>
  <p>À très bientôt,<br>L'équipe Nuit d'Or</p>
</body>
</html>`))

func renderConfirmation(b *booking.Booking, labels map[string]string) (string, error) {
	data := struct {
		Nom     string
		Arrivee string
		Depart  string
		Extras  string
		Amount  string
	}{
		Nom:     b.Nom,
		Arrivee: b.DateArrivee.Format("02/01/2006"),
		Depart:  b.DateDepart.Format("02/01/2006"),
		Extras:  formatExtras(b.Pack, labels),
		Amount:  formatEuros(b.AmountCents),
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
