package repository_test

import (
	"context"
	"testing"

	"purchase-service/models"
	"purchase-service/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockPurchaseRepository is an in-memory implementation of
// PurchaseRepository enforcing the same (buyer, subject, scholar)
// uniqueness the Postgres index provides.
type mockPurchaseRepository struct {
	purchases map[string]*models.Purchase
}

func newMockPurchaseRepository() repository.PurchaseRepository {
	return &mockPurchaseRepository{purchases: make(map[string]*models.Purchase)}
}

func key(buyerID, subjectID, scholarID uuid.UUID) string {
	return buyerID.String() + "|" + subjectID.String() + "|" + scholarID.String()
}

func (m *mockPurchaseRepository) Create(_ context.Context, p *models.Purchase) error {
	k := key(p.BuyerID, p.SubjectID, p.ScholarID)
	if _, exists := m.purchases[k]; exists {
		return repository.ErrDuplicatePurchase
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.purchases[k] = p
	return nil
}

func (m *mockPurchaseRepository) Find(_ context.Context, buyerID, subjectID, scholarID uuid.UUID) (*models.Purchase, error) {
	p, ok := m.purchases[key(buyerID, subjectID, scholarID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockPurchaseRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]models.Purchase, error) {
	var result []models.Purchase
	for _, p := range m.purchases {
		if p.BuyerID == buyerID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func newPurchase(buyerID, subjectID, scholarID uuid.UUID) *models.Purchase {
	return &models.Purchase{
		BuyerID:             buyerID,
		SubjectID:           subjectID,
		ScholarID:           scholarID,
		AmountCents:         600,
		Currency:            "eur",
		StripeTransactionID: "pi_test",
	}
}

// --- Tests ---

func TestRepository_CreateAssignsID(t *testing.T) {
	repo := newMockPurchaseRepository()

	p := newPurchase(uuid.New(), uuid.New(), uuid.New())
	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestRepository_DuplicateTupleRejected(t *testing.T) {
	repo := newMockPurchaseRepository()
	buyerID, subjectID, scholarID := uuid.New(), uuid.New(), uuid.New()

	err := repo.Create(context.Background(), newPurchase(buyerID, subjectID, scholarID))
	assert.NoError(t, err)

	// Same tuple with a different transaction id still conflicts.
	dup := newPurchase(buyerID, subjectID, scholarID)
	dup.StripeTransactionID = "pi_other"
	err = repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, repository.ErrDuplicatePurchase)
}

func TestRepository_SameBuyerDifferentSubjectAllowed(t *testing.T) {
	repo := newMockPurchaseRepository()
	buyerID, scholarID := uuid.New(), uuid.New()

	assert.NoError(t, repo.Create(context.Background(), newPurchase(buyerID, uuid.New(), scholarID)))
	assert.NoError(t, repo.Create(context.Background(), newPurchase(buyerID, uuid.New(), scholarID)))

	purchases, err := repo.ListByBuyer(context.Background(), buyerID)
	assert.NoError(t, err)
	assert.Len(t, purchases, 2)
}

func TestRepository_FindMissing(t *testing.T) {
	repo := newMockPurchaseRepository()

	_, err := repo.Find(context.Background(), uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_FindReturnsRecord(t *testing.T) {
	repo := newMockPurchaseRepository()
	buyerID, subjectID, scholarID := uuid.New(), uuid.New(), uuid.New()

	created := newPurchase(buyerID, subjectID, scholarID)
	assert.NoError(t, repo.Create(context.Background(), created))

	found, err := repo.Find(context.Background(), buyerID, subjectID, scholarID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "pi_test", found.StripeTransactionID)
}
