package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	models "github.com/midasbot/midas/midas/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
	isgomock struct{}
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// ActiveElection mocks base method.
func (m *MockStore) ActiveElection(ctx context.Context, guildID, position string, asOf time.Time) (*models.Election, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ActiveElection", ctx, guildID, position, asOf)
	ret0, _ := ret[0].(*models.Election)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ActiveElection indicates an expected call of ActiveElection.
func (mr *MockStoreMockRecorder) ActiveElection(ctx, guildID, position, asOf any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ActiveElection", reflect.TypeOf((*MockStore)(nil).ActiveElection), ctx, guildID, position, asOf)
}

// AddFiscal mocks base method.
func (m *MockStore) AddFiscal(ctx context.Context, guildID string, taxDelta, budgetDelta int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddFiscal", ctx, guildID, taxDelta, budgetDelta)
	ret0, _ := ret[0].(error)
	return ret0
}

// AddFiscal indicates an expected call of AddFiscal.
func (mr *MockStoreMockRecorder) AddFiscal(ctx, guildID, taxDelta, budgetDelta any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddFiscal", reflect.TypeOf((*MockStore)(nil).AddFiscal), ctx, guildID, taxDelta, budgetDelta)
}

// CreateElection mocks base method.
func (m *MockStore) CreateElection(ctx context.Context, election *models.Election) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateElection", ctx, election)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateElection indicates an expected call of CreateElection.
func (mr *MockStoreMockRecorder) CreateElection(ctx, election any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateElection", reflect.TypeOf((*MockStore)(nil).CreateElection), ctx, election)
}

// CreateInvestment mocks base method.
func (m *MockStore) CreateInvestment(ctx context.Context, investment *models.Investment) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateInvestment", ctx, investment)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateInvestment indicates an expected call of CreateInvestment.
func (mr *MockStoreMockRecorder) CreateInvestment(ctx, investment any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateInvestment", reflect.TypeOf((*MockStore)(nil).CreateInvestment), ctx, investment)
}

// CreateLoan mocks base method.
func (m *MockStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateLoan", ctx, loan)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateLoan indicates an expected call of CreateLoan.
func (mr *MockStoreMockRecorder) CreateLoan(ctx, loan any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateLoan", reflect.TypeOf((*MockStore)(nil).CreateLoan), ctx, loan)
}

// Economy mocks base method.
func (m *MockStore) Economy(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Economy", ctx, template)
	ret0, _ := ret[0].(*models.GuildEconomy)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Economy indicates an expected call of Economy.
func (mr *MockStoreMockRecorder) Economy(ctx, template any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Economy", reflect.TypeOf((*MockStore)(nil).Economy), ctx, template)
}

// ExpiredElections mocks base method.
func (m *MockStore) ExpiredElections(ctx context.Context, asOf time.Time) ([]*models.Election, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ExpiredElections", ctx, asOf)
	ret0, _ := ret[0].([]*models.Election)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ExpiredElections indicates an expected call of ExpiredElections.
func (mr *MockStoreMockRecorder) ExpiredElections(ctx, asOf any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ExpiredElections", reflect.TypeOf((*MockStore)(nil).ExpiredElections), ctx, asOf)
}

// InvestmentsByUser mocks base method.
func (m *MockStore) InvestmentsByUser(ctx context.Context, guildID, userID string) ([]*models.Investment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InvestmentsByUser", ctx, guildID, userID)
	ret0, _ := ret[0].([]*models.Investment)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// InvestmentsByUser indicates an expected call of InvestmentsByUser.
func (mr *MockStoreMockRecorder) InvestmentsByUser(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InvestmentsByUser", reflect.TypeOf((*MockStore)(nil).InvestmentsByUser), ctx, guildID, userID)
}

// Officeholders mocks base method.
func (m *MockStore) Officeholders(ctx context.Context, guildID string, asOf time.Time) ([]*models.Election, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Officeholders", ctx, guildID, asOf)
	ret0, _ := ret[0].([]*models.Election)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Officeholders indicates an expected call of Officeholders.
func (mr *MockStoreMockRecorder) Officeholders(ctx, guildID, asOf any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Officeholders", reflect.TypeOf((*MockStore)(nil).Officeholders), ctx, guildID, asOf)
}

// OpenLoans mocks base method.
func (m *MockStore) OpenLoans(ctx context.Context, guildID, userID string) ([]*models.Loan, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenLoans", ctx, guildID, userID)
	ret0, _ := ret[0].([]*models.Loan)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenLoans indicates an expected call of OpenLoans.
func (mr *MockStoreMockRecorder) OpenLoans(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenLoans", reflect.TypeOf((*MockStore)(nil).OpenLoans), ctx, guildID, userID)
}

// Player mocks base method.
func (m *MockStore) Player(ctx context.Context, template *models.Player) (*models.Player, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Player", ctx, template)
	ret0, _ := ret[0].(*models.Player)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Player indicates an expected call of Player.
func (mr *MockStoreMockRecorder) Player(ctx, template any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Player", reflect.TypeOf((*MockStore)(nil).Player), ctx, template)
}

// PlayersByGuild mocks base method.
func (m *MockStore) PlayersByGuild(ctx context.Context, guildID string) ([]*models.Player, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PlayersByGuild", ctx, guildID)
	ret0, _ := ret[0].([]*models.Player)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PlayersByGuild indicates an expected call of PlayersByGuild.
func (mr *MockStoreMockRecorder) PlayersByGuild(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PlayersByGuild", reflect.TypeOf((*MockStore)(nil).PlayersByGuild), ctx, guildID)
}

// RecentSnapshots mocks base method.
func (m *MockStore) RecentSnapshots(ctx context.Context, guildID string, limit int) ([]*models.MarketSnapshot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecentSnapshots", ctx, guildID, limit)
	ret0, _ := ret[0].([]*models.MarketSnapshot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RecentSnapshots indicates an expected call of RecentSnapshots.
func (mr *MockStoreMockRecorder) RecentSnapshots(ctx, guildID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecentSnapshots", reflect.TypeOf((*MockStore)(nil).RecentSnapshots), ctx, guildID, limit)
}

// RecentTransactions mocks base method.
func (m *MockStore) RecentTransactions(ctx context.Context, guildID, userID string, limit int) ([]*models.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecentTransactions", ctx, guildID, userID, limit)
	ret0, _ := ret[0].([]*models.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RecentTransactions indicates an expected call of RecentTransactions.
func (mr *MockStoreMockRecorder) RecentTransactions(ctx, guildID, userID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecentTransactions", reflect.TypeOf((*MockStore)(nil).RecentTransactions), ctx, guildID, userID, limit)
}

// RecordCrime mocks base method.
func (m *MockStore) RecordCrime(ctx context.Context, record *models.CrimeRecord) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordCrime", ctx, record)
	ret0, _ := ret[0].(error)
	return ret0
}

// RecordCrime indicates an expected call of RecordCrime.
func (mr *MockStoreMockRecorder) RecordCrime(ctx, record any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordCrime", reflect.TypeOf((*MockStore)(nil).RecordCrime), ctx, record)
}

// RecordTransaction mocks base method.
func (m *MockStore) RecordTransaction(ctx context.Context, txn *models.Transaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordTransaction", ctx, txn)
	ret0, _ := ret[0].(error)
	return ret0
}

// RecordTransaction indicates an expected call of RecordTransaction.
func (mr *MockStoreMockRecorder) RecordTransaction(ctx, txn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordTransaction", reflect.TypeOf((*MockStore)(nil).RecordTransaction), ctx, txn)
}

// SaveEconomy mocks base method.
func (m *MockStore) SaveEconomy(ctx context.Context, economy *models.GuildEconomy) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveEconomy", ctx, economy)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveEconomy indicates an expected call of SaveEconomy.
func (mr *MockStoreMockRecorder) SaveEconomy(ctx, economy any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveEconomy", reflect.TypeOf((*MockStore)(nil).SaveEconomy), ctx, economy)
}

// SaveElection mocks base method.
func (m *MockStore) SaveElection(ctx context.Context, election *models.Election) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveElection", ctx, election)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveElection indicates an expected call of SaveElection.
func (mr *MockStoreMockRecorder) SaveElection(ctx, election any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveElection", reflect.TypeOf((*MockStore)(nil).SaveElection), ctx, election)
}

// SaveLoan mocks base method.
func (m *MockStore) SaveLoan(ctx context.Context, loan *models.Loan) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveLoan", ctx, loan)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveLoan indicates an expected call of SaveLoan.
func (mr *MockStoreMockRecorder) SaveLoan(ctx, loan any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveLoan", reflect.TypeOf((*MockStore)(nil).SaveLoan), ctx, loan)
}

// SellInvestments mocks base method.
func (m *MockStore) SellInvestments(ctx context.Context, guildID, userID, instrument string, liquidity float64) ([]*models.Investment, int64, int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SellInvestments", ctx, guildID, userID, instrument, liquidity)
	ret0, _ := ret[0].([]*models.Investment)
	ret1, _ := ret[1].(int64)
	ret2, _ := ret[2].(int64)
	ret3, _ := ret[3].(error)
	return ret0, ret1, ret2, ret3
}

// SellInvestments indicates an expected call of SellInvestments.
func (mr *MockStoreMockRecorder) SellInvestments(ctx, guildID, userID, instrument, liquidity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SellInvestments", reflect.TypeOf((*MockStore)(nil).SellInvestments), ctx, guildID, userID, instrument, liquidity)
}

// TopPlayersByWealth mocks base method.
func (m *MockStore) TopPlayersByWealth(ctx context.Context, guildID string, limit int) ([]*models.Player, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TopPlayersByWealth", ctx, guildID, limit)
	ret0, _ := ret[0].([]*models.Player)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TopPlayersByWealth indicates an expected call of TopPlayersByWealth.
func (mr *MockStoreMockRecorder) TopPlayersByWealth(ctx, guildID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TopPlayersByWealth", reflect.TypeOf((*MockStore)(nil).TopPlayersByWealth), ctx, guildID, limit)
}

// TotalDebt mocks base method.
func (m *MockStore) TotalDebt(ctx context.Context, guildID, userID string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TotalDebt", ctx, guildID, userID)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TotalDebt indicates an expected call of TotalDebt.
func (mr *MockStoreMockRecorder) TotalDebt(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TotalDebt", reflect.TypeOf((*MockStore)(nil).TotalDebt), ctx, guildID, userID)
}

// UpdatePlayer mocks base method.
func (m *MockStore) UpdatePlayer(ctx context.Context, guildID, userID string, apply func(*models.Player) error) (*models.Player, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdatePlayer", ctx, guildID, userID, apply)
	ret0, _ := ret[0].(*models.Player)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// UpdatePlayer indicates an expected call of UpdatePlayer.
func (mr *MockStoreMockRecorder) UpdatePlayer(ctx, guildID, userID, apply any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdatePlayer", reflect.TypeOf((*MockStore)(nil).UpdatePlayer), ctx, guildID, userID, apply)
}

// UpdatePlayers mocks base method.
func (m *MockStore) UpdatePlayers(ctx context.Context, guildID, firstID, secondID string, apply func(*models.Player, *models.Player) error) (*models.Player, *models.Player, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdatePlayers", ctx, guildID, firstID, secondID, apply)
	ret0, _ := ret[0].(*models.Player)
	ret1, _ := ret[1].(*models.Player)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// UpdatePlayers indicates an expected call of UpdatePlayers.
func (mr *MockStoreMockRecorder) UpdatePlayers(ctx, guildID, firstID, secondID, apply any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdatePlayers", reflect.TypeOf((*MockStore)(nil).UpdatePlayers), ctx, guildID, firstID, secondID, apply)
}
