package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SystemParty is the counterparty recorded when money enters or
// leaves the economy rather than moving between players.
const SystemParty = "0"

// Transaction kinds. GDP is measured as the rolling sum of recorded
// transaction volume, so every money movement lands here.
const (
	TxnWorkIncome         = "work_income"
	TxnDailyIncome        = "daily_income"
	TxnWeeklyIncome       = "weekly_income"
	TxnMonthlyIncome      = "monthly_income"
	TxnTransfer           = "transfer"
	TxnLoanDisbursement   = "loan_disbursement"
	TxnLoanRepayment      = "loan_repayment"
	TxnRobbery            = "robbery"
	TxnMarketPurchase     = "market_purchase"
	TxnMarketSale         = "market_sale"
	TxnWelfarePayment     = "welfare_payment"
	TxnInvestmentPurchase = "investment_purchase"
	TxnInvestmentSale     = "investment_sale"
)

type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GuildID string `bun:"guild_id,notnull"`
	FromID  string `bun:"from_id,notnull"`
	ToID    string `bun:"to_id,notnull"`
	Amount  int64  `bun:"amount,notnull"`
	Kind    string `bun:"kind,notnull"`
	Note    string `bun:"note"`

	Timestamp time.Time `bun:"timestamp,notnull"`
}
