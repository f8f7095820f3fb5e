package charge

import (
	"context"
	"testing"

	"chargeledger/internal/events"
	"chargeledger/internal/ledger"
	"chargeledger/internal/phone"
	"chargeledger/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockChargeRepo struct{ mock.Mock }
type MockPhoneRepo struct{ mock.Mock }
type MockUserRepo struct{ mock.Mock }
type MockPublisher struct{ mock.Mock }
type MockNotifier struct{ mock.Mock }

func (m *MockChargeRepo) CreateCreditRequest(ctx context.Context, userID int, amount int64) (*CreditRequest, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreditRequest), args.Error(1)
}

func (m *MockChargeRepo) ApproveCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error) {
	args := m.Called(ctx, requestID, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreditRequest), args.Error(1)
}

func (m *MockChargeRepo) RejectCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error) {
	args := m.Called(ctx, requestID, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreditRequest), args.Error(1)
}

func (m *MockChargeRepo) ListCreditRequests(ctx context.Context, userID, limit, offset int) ([]CreditRequest, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CreditRequest), args.Error(1)
}

func (m *MockChargeRepo) CreateChargeSale(ctx context.Context, userID, phoneNumberID int, amount int64) (*ChargeSale, error) {
	args := m.Called(ctx, userID, phoneNumberID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ChargeSale), args.Error(1)
}

func (m *MockChargeRepo) ListChargeSales(ctx context.Context, userID, limit, offset int) ([]ChargeSale, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ChargeSale), args.Error(1)
}

func (m *MockPhoneRepo) Create(ctx context.Context, number, title string) (*phone.PhoneNumber, error) {
	args := m.Called(ctx, number, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*phone.PhoneNumber), args.Error(1)
}

func (m *MockPhoneRepo) GetByID(ctx context.Context, id int) (*phone.PhoneNumber, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*phone.PhoneNumber), args.Error(1)
}

func (m *MockPhoneRepo) ListActive(ctx context.Context) ([]phone.PhoneNumber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]phone.PhoneNumber), args.Error(1)
}

func (m *MockPhoneRepo) SetActive(ctx context.Context, id int, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockPhoneRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockPublisher) Publish(topic string, event any) error {
	return m.Called(topic, event).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func (m *MockNotifier) CreditApproved(ctx context.Context, email, name string, amount int64) error {
	return m.Called(ctx, email, name, amount).Error(0)
}

func (m *MockNotifier) CreditRejected(ctx context.Context, email, name string, amount int64, notes string) error {
	return m.Called(ctx, email, name, amount, notes).Error(0)
}

func newTestService() (Service, *MockChargeRepo, *MockPhoneRepo, *MockUserRepo, *MockPublisher, *MockNotifier) {
	repo := new(MockChargeRepo)
	phoneRepo := new(MockPhoneRepo)
	userRepo := new(MockUserRepo)
	publisher := new(MockPublisher)
	notifier := new(MockNotifier)
	svc := NewService(repo, phoneRepo, userRepo, publisher, notifier)
	return svc, repo, phoneRepo, userRepo, publisher, notifier
}

func TestService_CreateCreditRequest_RejectsNonPositiveAmount(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()

	for _, amount := range []int64{0, -1, -100} {
		cr, err := svc.CreateCreditRequest(context.Background(), 1, amount)
		assert.ErrorIs(t, err, ErrAmountNotPositive)
		assert.Nil(t, cr)
	}

	repo.AssertNotCalled(t, "CreateCreditRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateCreditRequest_Success(t *testing.T) {
	svc, repo, _, _, _, _ := newTestService()

	expected := &CreditRequest{Transaction: Transaction{ID: 1, UserID: 1, Amount: 100, Status: StatusPending}}
	repo.On("CreateCreditRequest", mock.Anything, 1, int64(100)).Return(expected, nil)

	cr, err := svc.CreateCreditRequest(context.Background(), 1, 100)
	assert.NoError(t, err)
	assert.Equal(t, expected, cr)
	repo.AssertExpectations(t)
}

func TestService_ApproveCreditRequest_PublishesAndNotifies(t *testing.T) {
	svc, repo, _, userRepo, publisher, notifier := newTestService()

	approved := &CreditRequest{Transaction: Transaction{ID: 5, UserID: 10, Amount: 100, Status: StatusApproved, Processed: true}}
	repo.On("ApproveCreditRequest", mock.Anything, 5, "ok").Return(approved, nil)
	userRepo.On("FindByID", mock.Anything, 10).Return(&user.User{ID: 10, Email: "u@example.com", Name: "U"}, nil)
	publisher.On("Publish", events.TopicCreditApproved, mock.Anything).Return(nil)
	notifier.On("CreditApproved", mock.Anything, "u@example.com", "U", int64(100)).Return(nil)

	cr, err := svc.ApproveCreditRequest(context.Background(), 5, "ok")
	assert.NoError(t, err)
	assert.True(t, cr.Processed)

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_ApproveCreditRequest_AlreadyProcessedIsQuiet(t *testing.T) {
	svc, repo, _, _, publisher, notifier := newTestService()

	existing := &CreditRequest{Transaction: Transaction{ID: 5, UserID: 10, Amount: 100, Status: StatusApproved, Processed: true}}
	repo.On("ApproveCreditRequest", mock.Anything, 5, "").Return(existing, ErrAlreadyProcessed)

	cr, err := svc.ApproveCreditRequest(context.Background(), 5, "")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.NotNil(t, cr)

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "CreditApproved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateChargeSale_RejectsNonPositiveAmount(t *testing.T) {
	svc, repo, phoneRepo, _, _, _ := newTestService()

	sale, err := svc.CreateChargeSale(context.Background(), 1, 3, 0)
	assert.ErrorIs(t, err, ErrAmountNotPositive)
	assert.Nil(t, sale)

	phoneRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateChargeSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateChargeSale_RejectsInactivePhone(t *testing.T) {
	svc, repo, phoneRepo, _, _, _ := newTestService()

	phoneRepo.On("GetByID", mock.Anything, 3).Return(&phone.PhoneNumber{ID: 3, IsActive: false}, nil)

	sale, err := svc.CreateChargeSale(context.Background(), 1, 3, 50)
	assert.ErrorIs(t, err, ErrPhoneInactive)
	assert.Nil(t, sale)

	repo.AssertNotCalled(t, "CreateChargeSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateChargeSale_MissingPhone(t *testing.T) {
	svc, repo, phoneRepo, _, _, _ := newTestService()

	phoneRepo.On("GetByID", mock.Anything, 99).Return(nil, phone.ErrPhoneNotFound)

	sale, err := svc.CreateChargeSale(context.Background(), 1, 99, 50)
	assert.ErrorIs(t, err, phone.ErrPhoneNotFound)
	assert.Nil(t, sale)

	repo.AssertNotCalled(t, "CreateChargeSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateChargeSale_InsufficientCredit(t *testing.T) {
	svc, repo, phoneRepo, _, publisher, _ := newTestService()

	phoneRepo.On("GetByID", mock.Anything, 3).Return(&phone.PhoneNumber{ID: 3, IsActive: true}, nil)
	repo.On("CreateChargeSale", mock.Anything, 1, 3, int64(150)).Return(nil, ErrInsufficientCredit)

	sale, err := svc.CreateChargeSale(context.Background(), 1, 3, 150)
	assert.ErrorIs(t, err, ErrInsufficientCredit)
	assert.Nil(t, sale)

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_CreateChargeSale_PublishesEvent(t *testing.T) {
	svc, repo, phoneRepo, _, publisher, _ := newTestService()

	phoneRepo.On("GetByID", mock.Anything, 3).Return(&phone.PhoneNumber{ID: 3, IsActive: true}, nil)
	sale := &ChargeSale{
		Transaction:   Transaction{ID: 7, UserID: 1, Amount: 50, Status: StatusCompleted, Processed: true},
		PhoneNumberID: 3,
	}
	repo.On("CreateChargeSale", mock.Anything, 1, 3, int64(50)).Return(sale, nil)
	publisher.On("Publish", events.TopicChargeCompleted, mock.Anything).Return(nil)

	got, err := svc.CreateChargeSale(context.Background(), 1, 3, 50)
	assert.NoError(t, err)
	assert.Equal(t, sale, got)

	publisher.AssertExpectations(t)
}

func TestService_CreateChargeSale_BusyPassesThrough(t *testing.T) {
	svc, repo, phoneRepo, _, _, _ := newTestService()

	phoneRepo.On("GetByID", mock.Anything, 3).Return(&phone.PhoneNumber{ID: 3, IsActive: true}, nil)
	repo.On("CreateChargeSale", mock.Anything, 1, 3, int64(50)).Return(nil, ledger.ErrBusy)

	sale, err := svc.CreateChargeSale(context.Background(), 1, 3, 50)
	assert.ErrorIs(t, err, ledger.ErrBusy)
	assert.Nil(t, sale)
}
