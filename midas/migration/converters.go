package migration

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/midasbot/midas/midas/database/models"
)

// money narrows a legacy float amount to whole currency units.
func money(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

func count(v float64) int {
	return int(money(v))
}

// id renders a legacy numeric Discord id in the string form the new
// schema stores.
func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func ids(raw []int64) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, id(v))
	}
	return out
}

func timeOr(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}

func convertPlayer(lu legacyUser, now time.Time) *models.Player {
	if lu.UserID == 0 || lu.GuildID == 0 {
		return nil
	}

	balance := money(lu.Balance)
	if balance < 0 {
		balance = 0
	}
	bank := money(lu.Bank)
	if bank < 0 {
		bank = 0
	}
	job := lu.Job
	if job == "" {
		job = models.JobUnemployed
	}

	inventory := make(map[string]int, len(lu.Inventory))
	for item, held := range lu.Inventory {
		if n := count(held); n > 0 {
			inventory[item] = n
		}
	}

	return &models.Player{
		GuildID:        id(lu.GuildID),
		UserID:         id(lu.UserID),
		Balance:        balance,
		Bank:           bank,
		Job:            job,
		Skill:          count(lu.SkillLevel),
		Experience:     money(lu.Experience),
		Reputation:     count(lu.Reputation),
		PoliticalPower: count(lu.PoliticalPower),
		UnionMember:    lu.UnionMember,
		Inventory:      inventory,
		Stats: models.PlayerStats{
			TotalEarned:     money(lu.Statistics.TotalEarned),
			TotalSpent:      money(lu.Statistics.TotalSpent),
			TaxesPaid:       money(lu.Statistics.TaxesPaid),
			JobsWorked:      count(lu.Statistics.JobsWorked),
			CrimesCommitted: count(lu.Statistics.CrimesCommitted),
			CrimesSucceeded: count(lu.Statistics.CrimesSuccess),
			LoansTaken:      count(lu.Statistics.LoansTaken),
			InvestmentsMade: count(lu.Statistics.InvestmentsMade),
		},
		LastWork:    lu.LastWork,
		LastDaily:   lu.LastDaily,
		LastWeekly:  lu.LastWeekly,
		LastMonthly: lu.LastMonthly,
		JailedUntil: lu.JailUntil,
		CreatedAt:   timeOr(lu.CreatedAt, now),
		UpdatedAt:   now,
	}
}

func convertEconomy(ls legacyServer, now time.Time) *models.GuildEconomy {
	if ls.GuildID == 0 {
		return nil
	}

	settings := ls.Settings
	if settings.MinWage == 0 {
		// Servers written before the settings rollout carry none.
		settings = legacySettings{
			TaxRate:             0.20,
			InterestRate:        0.05,
			MinWage:             1500,
			UnemploymentBenefit: 600,
			WelfareAmount:       500,
		}
	}
	interest := ls.InterestRate
	if interest == 0 {
		interest = settings.InterestRate
	}
	phase := ls.CyclePhase
	if phase == "" {
		phase = "expansion"
	}

	prices := make(map[string]int64, len(ls.MarketPrices))
	for item, price := range ls.MarketPrices {
		prices[item] = money(price)
	}
	jobMarket := make(map[string]models.JobMarketEntry, len(ls.JobMarket))
	for job, slot := range ls.JobMarket {
		multiplier := slot.WageMultiplier
		if multiplier == 0 {
			multiplier = 1.0
		}
		jobMarket[job] = models.JobMarketEntry{
			Employed:       count(slot.Employed),
			WageMultiplier: multiplier,
		}
	}
	events := make([]models.ActiveEvent, 0, len(ls.ActiveEvents))
	for _, ev := range ls.ActiveEvents {
		events = append(events, models.ActiveEvent{
			Name:      ev.Name,
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
		})
	}

	return &models.GuildEconomy{
		GuildID:             id(ls.GuildID),
		GDP:                 ls.GDP,
		InflationRate:       ls.InflationRate,
		UnemploymentRate:    ls.UnemploymentRate,
		Gini:                ls.Gini,
		CyclePhase:          phase,
		CycleStart:          timeOr(ls.CycleStart, now),
		TaxRate:             settings.TaxRate,
		InterestRate:        interest,
		MinWage:             money(settings.MinWage),
		UnemploymentBenefit: money(settings.UnemploymentBenefit),
		WelfareAmount:       money(settings.WelfareAmount),
		PoliceStrength:      0.5,
		TaxRevenue:          money(ls.TaxRevenue),
		GovernmentBudget:    money(ls.GovernmentBudget),
		MarketPrices:        prices,
		JobMarket:           jobMarket,
		ActiveEvents:        events,
		LastTickAt:          ls.LastUpdate,
		CreatedAt:           timeOr(ls.CreatedAt, now),
		UpdatedAt:           now,
	}
}

func convertLoan(ll legacyLoan, now time.Time) *models.Loan {
	if ll.UserID == 0 || ll.GuildID == 0 {
		return nil
	}
	remaining := money(ll.Remaining)
	if remaining < 0 {
		remaining = 0
	}
	return &models.Loan{
		GuildID:      id(ll.GuildID),
		UserID:       id(ll.UserID),
		Principal:    money(ll.Principal),
		Remaining:    remaining,
		InterestRate: ll.InterestRate,
		DueDate:      ll.DueDate,
		Defaulted:    ll.Defaulted,
		CreatedAt:    timeOr(ll.CreatedAt, now),
		UpdatedAt:    now,
	}
}

func convertInvestment(li legacyInvestment, now time.Time) *models.Investment {
	if li.UserID == 0 || li.GuildID == 0 || li.Type == "" {
		return nil
	}
	created := timeOr(li.CreatedAt, now)
	return &models.Investment{
		GuildID:      id(li.GuildID),
		UserID:       id(li.UserID),
		Type:         li.Type,
		Principal:    money(li.Principal),
		CurrentValue: money(li.CurrentValue),
		LastValuedAt: timeOr(li.LastUpdate, created),
		CreatedAt:    created,
		UpdatedAt:    now,
	}
}

func convertTransaction(lt legacyTransaction, now time.Time) *models.Transaction {
	if lt.GuildID == 0 {
		return nil
	}
	kind := lt.Type
	if kind == "" {
		kind = models.TxnTransfer
	}
	note := ""
	if len(lt.Metadata) > 0 {
		if raw, err := json.Marshal(lt.Metadata); err == nil {
			note = string(raw)
		}
	}
	return &models.Transaction{
		GuildID:   id(lt.GuildID),
		FromID:    id(lt.FromUser),
		ToID:      id(lt.ToUser),
		Amount:    money(lt.Amount),
		Kind:      kind,
		Note:      note,
		Timestamp: timeOr(lt.Timestamp, now),
	}
}

func convertCrime(lc legacyCrime, now time.Time) *models.CrimeRecord {
	if lc.UserID == 0 || lc.GuildID == 0 {
		return nil
	}
	return &models.CrimeRecord{
		GuildID:   id(lc.GuildID),
		UserID:    id(lc.UserID),
		Crime:     lc.CrimeType,
		Success:   lc.Success,
		Amount:    money(lc.Amount),
		Timestamp: timeOr(lc.Timestamp, now),
	}
}

// convertElection imports the race itself. The old bot kept winners on
// the server document without term dates, so finished races come over
// closed and vacant.
func convertElection(le legacyElection, now time.Time) *models.Election {
	if le.GuildID == 0 || le.Position == "" {
		return nil
	}
	votes := make(map[string]int, len(le.Votes))
	for candidate, tally := range le.Votes {
		votes[candidate] = count(tally)
	}
	return &models.Election{
		GuildID:    id(le.GuildID),
		Position:   le.Position,
		Candidates: ids(le.Candidates),
		Voters:     ids(le.Voters),
		Votes:      votes,
		StartTime:  le.StartTime,
		EndTime:    le.EndTime,
		Closed:     !le.Active,
		CreatedAt:  timeOr(le.StartTime, now),
		UpdatedAt:  now,
	}
}

func convertSnapshot(lsn legacySnapshot, now time.Time) *models.MarketSnapshot {
	if lsn.GuildID == 0 {
		return nil
	}
	phase := lsn.Data.CyclePhase
	if phase == "" {
		phase = "expansion"
	}
	return &models.MarketSnapshot{
		GuildID:          id(lsn.GuildID),
		GDP:              lsn.Data.GDP,
		InflationRate:    lsn.Data.Inflation,
		UnemploymentRate: lsn.Data.Unemployment,
		Gini:             lsn.Data.Gini,
		CyclePhase:       phase,
		Timestamp:        timeOr(lsn.Timestamp, now),
	}
}
