package pages

import (
	"context"

	"github.com/avtest-qa/booking-e2e/internal/manual"
)

// ActionPaymentCapture is the gate opened on reaching payment.
const ActionPaymentCapture = "payment_capture"

// PaymentPage is where automation stops: the operator captures the
// checkout request by hand.
type PaymentPage struct {
	page
}

func NewPaymentPage(d Deps) *PaymentPage {
	return &PaymentPage{page: newPage(d, "payment")}
}

// AwaitHandoff blocks on the payment capture gate.
func (p *PaymentPage) AwaitHandoff(ctx context.Context) error {
	p.log.Error().Msg("payment reached: capture the checkout/payment request now")
	return p.gate.Await(ctx, manual.Action{
		Name:         ActionPaymentCapture,
		Instructions: "Capture the checkout/payment request from the browser dev tools",
		Window:       p.cfg.Manual.PaymentCapture,
	})
}
