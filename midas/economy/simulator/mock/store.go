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

// CreateSnapshot mocks base method.
func (m *MockStore) CreateSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateSnapshot", ctx, snapshot)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateSnapshot indicates an expected call of CreateSnapshot.
func (mr *MockStoreMockRecorder) CreateSnapshot(ctx, snapshot any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateSnapshot", reflect.TypeOf((*MockStore)(nil).CreateSnapshot), ctx, snapshot)
}

// DueLoans mocks base method.
func (m *MockStore) DueLoans(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DueLoans", ctx, asOf)
	ret0, _ := ret[0].([]*models.Loan)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DueLoans indicates an expected call of DueLoans.
func (mr *MockStoreMockRecorder) DueLoans(ctx, asOf any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DueLoans", reflect.TypeOf((*MockStore)(nil).DueLoans), ctx, asOf)
}

// GetOrCreateEconomy mocks base method.
func (m *MockStore) GetOrCreateEconomy(ctx context.Context, template *models.GuildEconomy) (*models.GuildEconomy, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrCreateEconomy", ctx, template)
	ret0, _ := ret[0].(*models.GuildEconomy)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetOrCreateEconomy indicates an expected call of GetOrCreateEconomy.
func (mr *MockStoreMockRecorder) GetOrCreateEconomy(ctx, template any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrCreateEconomy", reflect.TypeOf((*MockStore)(nil).GetOrCreateEconomy), ctx, template)
}

// ListGuildIDs mocks base method.
func (m *MockStore) ListGuildIDs(ctx context.Context) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListGuildIDs", ctx)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListGuildIDs indicates an expected call of ListGuildIDs.
func (mr *MockStoreMockRecorder) ListGuildIDs(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListGuildIDs", reflect.TypeOf((*MockStore)(nil).ListGuildIDs), ctx)
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

// SettleLoanDefault mocks base method.
func (m *MockStore) SettleLoanDefault(ctx context.Context, loan *models.Loan, reputationLoss int) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SettleLoanDefault", ctx, loan, reputationLoss)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SettleLoanDefault indicates an expected call of SettleLoanDefault.
func (mr *MockStoreMockRecorder) SettleLoanDefault(ctx, loan, reputationLoss any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SettleLoanDefault", reflect.TypeOf((*MockStore)(nil).SettleLoanDefault), ctx, loan, reputationLoss)
}

// StaleInvestments mocks base method.
func (m *MockStore) StaleInvestments(ctx context.Context, cutoff time.Time) ([]*models.Investment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "StaleInvestments", ctx, cutoff)
	ret0, _ := ret[0].([]*models.Investment)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// StaleInvestments indicates an expected call of StaleInvestments.
func (mr *MockStoreMockRecorder) StaleInvestments(ctx, cutoff any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "StaleInvestments", reflect.TypeOf((*MockStore)(nil).StaleInvestments), ctx, cutoff)
}

// TransactionVolumeSince mocks base method.
func (m *MockStore) TransactionVolumeSince(ctx context.Context, guildID string, since time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TransactionVolumeSince", ctx, guildID, since)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TransactionVolumeSince indicates an expected call of TransactionVolumeSince.
func (mr *MockStoreMockRecorder) TransactionVolumeSince(ctx, guildID, since any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TransactionVolumeSince", reflect.TypeOf((*MockStore)(nil).TransactionVolumeSince), ctx, guildID, since)
}

// UpdateEconomy mocks base method.
func (m *MockStore) UpdateEconomy(ctx context.Context, economy *models.GuildEconomy) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateEconomy", ctx, economy)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateEconomy indicates an expected call of UpdateEconomy.
func (mr *MockStoreMockRecorder) UpdateEconomy(ctx, economy any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateEconomy", reflect.TypeOf((*MockStore)(nil).UpdateEconomy), ctx, economy)
}

// UpdateInvestment mocks base method.
func (m *MockStore) UpdateInvestment(ctx context.Context, investment *models.Investment) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateInvestment", ctx, investment)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateInvestment indicates an expected call of UpdateInvestment.
func (mr *MockStoreMockRecorder) UpdateInvestment(ctx, investment any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateInvestment", reflect.TypeOf((*MockStore)(nil).UpdateInvestment), ctx, investment)
}
