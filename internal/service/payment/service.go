package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/doctorsportal/portal-api/internal/model"
)

type Config struct {
	SecretKey string
	Currency  string
}

// Service creates payment intents with the upstream provider. Amounts are
// converted to the smallest currency unit before the call.
type Service struct {
	api      *client.API
	currency string
}

func NewService(cfg Config) *Service {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	return &Service{
		api:      api,
		currency: currency,
	}
}

func (s *Service) CreateIntent(ctx context.Context, req *model.CreatePaymentIntentRequest) (*model.PaymentIntentResponse, error) {
	amount := int64(req.Price * 100)

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &model.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}
