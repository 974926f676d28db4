package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"purchase-service/models"
	"purchase-service/pkg/awsx"
	"purchase-service/repository"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// CheckoutSessionResult is returned to the client after a session is created.
// Nothing is written to the ledger at this point; the session either gets
// reconciled later or is simply abandoned.
type CheckoutSessionResult struct {
	SessionID          string `json:"sessionId"`
	URL                string `json:"url"`
	AmountCents        int64  `json:"amount"`
	PlatformFeeCents   int64  `json:"platformFee"`
	ScholarAmountCents int64  `json:"scholarAmount"`
}

// PaymentIntentResult is returned for the embedded card form flow.
type PaymentIntentResult struct {
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amount"`
}

// PurchaseService is the purchase and reconciliation core: session creation,
// the two reconciliation entry points, and purchase lookups.
type PurchaseService interface {
	CreateCheckoutSession(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*CheckoutSessionResult, error)
	CreatePaymentIntent(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*PaymentIntentResult, error)
	ConfirmPurchase(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID, transactionID string, amountCents *int64) (*models.Purchase, error)
	CompleteCheckoutSession(ctx context.Context, sessionID string) (*models.Purchase, error)
	HasPurchased(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*models.Purchase, bool, error)
	ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error)
}

// Options carries the marketplace settings the purchase flow depends on.
// Amounts are integer minor units.
type Options struct {
	Currency                string
	PlatformFeePercent      int64
	DefaultBundlePriceCents int64
	FrontendURL             string
	PurchaseTopicARN        string
}

type purchaseServiceImpl struct {
	purchases      repository.PurchaseRepository
	catalog        repository.CatalogRepository
	scholars       repository.ScholarRepository
	payoutAccounts repository.PayoutAccountRepository
	stripe         StripeClient
	snsClient      awsx.SNSPublisher
	opts           Options
	logger         *zap.Logger
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	catalog repository.CatalogRepository,
	scholars repository.ScholarRepository,
	payoutAccounts repository.PayoutAccountRepository,
	stripeClient StripeClient,
	snsClient awsx.SNSPublisher,
	opts Options,
	logger *zap.Logger,
) PurchaseService {
	return &purchaseServiceImpl{
		purchases:      purchases,
		catalog:        catalog,
		scholars:       scholars,
		payoutAccounts: payoutAccounts,
		stripe:         stripeClient,
		snsClient:      snsClient,
		opts:           opts,
		logger:         logger,
	}
}

// CreateCheckoutSession builds a Stripe Checkout session for a subject
// bundle. When the scholar has completed Connect onboarding the session is a
// destination charge: Stripe retains the platform fee and transfers the rest
// to the scholar's connected account. Otherwise it is a plain charge and the
// payout is handled manually later.
func (s *purchaseServiceImpl) CreateCheckoutSession(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*CheckoutSessionResult, error) {
	if err := s.guardNotPurchased(ctx, buyerID, subjectID, scholarID); err != nil {
		return nil, err
	}

	scholar, err := s.scholars.Get(ctx, scholarID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScholarNotFound
		}
		return nil, fmt.Errorf("resolving scholar: %w", err)
	}

	subjectName, grossCents, err := s.resolveSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	platformFee, scholarAmount, err := SplitAmount(grossCents, s.opts.PlatformFeePercent)
	if err != nil {
		return nil, err
	}

	metadata := BuildCheckoutMetadata(CheckoutMetadata{
		BuyerID:            buyerID,
		SubjectID:          subjectID,
		ScholarID:          scholarID,
		GrossAmountCents:   grossCents,
		PlatformFeeCents:   platformFee,
		ScholarAmountCents: scholarAmount,
		Currency:           s.opts.Currency,
	})

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.opts.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(subjectName),
						Description: stripe.String(fmt.Sprintf("Full course access by %s - All videos included", scholar.DisplayName())),
					},
					UnitAmount: stripe.Int64(grossCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/course/%s/%s?payment=success&session_id={CHECKOUT_SESSION_ID}", s.opts.FrontendURL, subjectID, scholarID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/course/%s/%s?payment=cancelled", s.opts.FrontendURL, subjectID, scholarID)),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	if account := s.connectedAccount(ctx, scholarID); account != nil {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(platformFee),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(account.StripeAccountID),
			},
		}
	}

	sess, err := s.stripe.CreateCheckoutSession(params)
	if err != nil {
		return nil, fmt.Errorf("%w: creating checkout session: %v", ErrPaymentProvider, err)
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("buyer_id", buyerID.String()),
		zap.String("subject_id", subjectID.String()),
		zap.Int64("amount_cents", grossCents),
	)

	return &CheckoutSessionResult{
		SessionID:          sess.ID,
		URL:                sess.URL,
		AmountCents:        grossCents,
		PlatformFeeCents:   platformFee,
		ScholarAmountCents: scholarAmount,
	}, nil
}

// CreatePaymentIntent is the embedded-card-form variant of session creation.
// Same guards, same split, same metadata and destination-charge rules.
func (s *purchaseServiceImpl) CreatePaymentIntent(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*PaymentIntentResult, error) {
	if err := s.guardNotPurchased(ctx, buyerID, subjectID, scholarID); err != nil {
		return nil, err
	}

	if _, err := s.scholars.Get(ctx, scholarID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScholarNotFound
		}
		return nil, fmt.Errorf("resolving scholar: %w", err)
	}

	_, grossCents, err := s.resolveSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	platformFee, scholarAmount, err := SplitAmount(grossCents, s.opts.PlatformFeePercent)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(grossCents),
		Currency: stripe.String(s.opts.Currency),
	}
	metadata := BuildCheckoutMetadata(CheckoutMetadata{
		BuyerID:            buyerID,
		SubjectID:          subjectID,
		ScholarID:          scholarID,
		GrossAmountCents:   grossCents,
		PlatformFeeCents:   platformFee,
		ScholarAmountCents: scholarAmount,
		Currency:           s.opts.Currency,
	})
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	if account := s.connectedAccount(ctx, scholarID); account != nil {
		params.ApplicationFeeAmount = stripe.Int64(platformFee)
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(account.StripeAccountID),
		}
	}

	pi, err := s.stripe.CreatePaymentIntent(params)
	if err != nil {
		return nil, fmt.Errorf("%w: creating payment intent: %v", ErrPaymentProvider, err)
	}

	return &PaymentIntentResult{ClientSecret: pi.ClientSecret, AmountCents: grossCents}, nil
}

// ConfirmPurchase is reconciliation path A: the client reports a completed
// payment directly. When amountCents is nil the current catalog price (or
// the default) is recorded.
func (s *purchaseServiceImpl) ConfirmPurchase(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID, transactionID string, amountCents *int64) (*models.Purchase, error) {
	amount := int64(0)
	if amountCents != nil {
		amount = *amountCents
	} else {
		_, resolved, err := s.resolveSubject(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		amount = resolved
	}

	return s.reconcile(ctx, models.PaymentEvent{
		BuyerID:       buyerID,
		SubjectID:     subjectID,
		ScholarID:     scholarID,
		AmountCents:   amount,
		Currency:      s.opts.Currency,
		TransactionID: transactionID,
		Source:        models.PaymentSourceConfirm,
	})
}

// CompleteCheckoutSession is reconciliation path B: a session id arrives via
// the success callback or the Stripe webhook. The session status is fetched
// from Stripe rather than trusted from the caller, and the domain identifiers
// come from the session metadata.
func (s *purchaseServiceImpl) CompleteCheckoutSession(ctx context.Context, sessionID string) (*models.Purchase, error) {
	sess, err := s.stripe.RetrieveCheckoutSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving session %s: %v", ErrPaymentProvider, sessionID, err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrPaymentIncomplete
	}

	metadata, err := ParseCheckoutMetadata(sess.Metadata)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	transactionID := sess.ID
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		transactionID = sess.PaymentIntent.ID
	}

	return s.reconcile(ctx, models.PaymentEvent{
		BuyerID:       metadata.BuyerID,
		SubjectID:     metadata.SubjectID,
		ScholarID:     metadata.ScholarID,
		AmountCents:   metadata.GrossAmountCents,
		Currency:      metadata.Currency,
		TransactionID: transactionID,
		Source:        models.PaymentSourceCheckoutSession,
	})
}

func (s *purchaseServiceImpl) HasPurchased(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*models.Purchase, bool, error) {
	purchase, err := s.purchases.Find(ctx, buyerID, subjectID, scholarID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("checking purchase: %w", err)
	}
	return purchase, true, nil
}

func (s *purchaseServiceImpl) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error) {
	purchases, err := s.purchases.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	return purchases, nil
}

// reconcile is the single sink both entry points converge on. The read ahead
// of the insert is only a fast path; the unique index on the ledger is what
// actually guarantees at-most-once recording when both paths race.
func (s *purchaseServiceImpl) reconcile(ctx context.Context, event models.PaymentEvent) (*models.Purchase, error) {
	if _, err := s.purchases.Find(ctx, event.BuyerID, event.SubjectID, event.ScholarID); err == nil {
		return nil, ErrAlreadyPurchased
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking existing purchase: %w", err)
	}

	purchase := &models.Purchase{
		BuyerID:             event.BuyerID,
		SubjectID:           event.SubjectID,
		ScholarID:           event.ScholarID,
		AmountCents:         event.AmountCents,
		Currency:            event.Currency,
		StripeTransactionID: event.TransactionID,
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		if errors.Is(err, repository.ErrDuplicatePurchase) {
			return nil, ErrAlreadyPurchased
		}
		return nil, fmt.Errorf("recording purchase: %w", err)
	}

	s.logger.Info("Purchase recorded",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("buyer_id", event.BuyerID.String()),
		zap.String("subject_id", event.SubjectID.String()),
		zap.String("scholar_id", event.ScholarID.String()),
		zap.String("source", event.Source),
	)

	s.publishPurchaseEvent(ctx, purchase, event.Source)
	return purchase, nil
}

// guardNotPurchased rejects session creation for tuples that already have a
// ledger row, before any provider call is made.
func (s *purchaseServiceImpl) guardNotPurchased(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) error {
	_, err := s.purchases.Find(ctx, buyerID, subjectID, scholarID)
	if err == nil {
		return ErrAlreadyPurchased
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("checking existing purchase: %w", err)
	}
	return nil
}

// resolveSubject returns the display name and gross price for a subject,
// falling back to defaults when the catalog has no row or no price set.
func (s *purchaseServiceImpl) resolveSubject(ctx context.Context, subjectID uuid.UUID) (string, int64, error) {
	subject, err := s.catalog.GetSubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "Course Bundle", s.opts.DefaultBundlePriceCents, nil
		}
		return "", 0, fmt.Errorf("resolving subject: %w", err)
	}
	if subject.BundlePriceCents == nil {
		return subject.Name, s.opts.DefaultBundlePriceCents, nil
	}
	return subject.Name, *subject.BundlePriceCents, nil
}

// connectedAccount returns the scholar's payout account when it can receive
// a destination charge, nil otherwise. Registry errors degrade to a plain
// charge rather than failing the checkout.
func (s *purchaseServiceImpl) connectedAccount(ctx context.Context, scholarID uuid.UUID) *models.PayoutAccount {
	account, err := s.payoutAccounts.GetByScholarID(ctx, scholarID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Payout account lookup failed, falling back to plain charge",
				zap.String("scholar_id", scholarID.String()),
				zap.Error(err),
			)
		}
		return nil
	}
	if !account.OnboardingComplete || account.StripeAccountID == "" {
		return nil
	}
	return account
}

// publishPurchaseEvent publishes a purchase_recorded event to SNS.
// Best-effort: publish failures are logged and never fail the request.
func (s *purchaseServiceImpl) publishPurchaseEvent(ctx context.Context, purchase *models.Purchase, source string) {
	if s.snsClient == nil || s.opts.PurchaseTopicARN == "" {
		return
	}

	event := models.PurchaseEvent{
		Type:          "purchase_recorded",
		PurchaseID:    purchase.ID.String(),
		BuyerID:       purchase.BuyerID.String(),
		SubjectID:     purchase.SubjectID.String(),
		ScholarID:     purchase.ScholarID.String(),
		AmountCents:   purchase.AmountCents,
		Currency:      purchase.Currency,
		TransactionID: purchase.StripeTransactionID,
		Source:        source,
		Timestamp:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal purchase event", zap.Error(err))
		return
	}

	if err := s.snsClient.Publish(ctx, s.opts.PurchaseTopicARN, payload); err != nil {
		s.logger.Error("Failed to publish purchase event",
			zap.String("purchase_id", purchase.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Purchase event published",
		zap.String("purchase_id", purchase.ID.String()),
	)
}
