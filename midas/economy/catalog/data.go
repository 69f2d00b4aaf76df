package catalog

import "time"

// Simulation constants shared across the engine.
const (
	CycleDurationDays    = 28
	InflationSensitivity = 0.05
	GiniAlertThreshold   = 0.45
	StrikeBaseRate       = 0.05
	UnionStrengthFactor  = 1.5
	WelfareThreshold     = 5000
	WelfarePayment       = 500
	MarketVolatilityBase = 0.10

	SkillCap          = 10
	PoliticalPowerCap = 100
)

// Action cooldowns.
const (
	CooldownDaily   = 24 * time.Hour
	CooldownWeekly  = 7 * 24 * time.Hour
	CooldownMonthly = 30 * 24 * time.Hour
	CooldownWork    = 8 * time.Hour
	CooldownCrime   = 6 * time.Hour
	CooldownRob     = 12 * time.Hour
)

func defaultTables() Tables {
	return Tables{
		Classes: []Class{
			{Tier: TierLower, MinWealth: 0, MaxWealth: 10_000, TaxRate: 0.05, WelfareEligible: true, LoanInterest: 0.12, MaxLoan: 5_000, PoliticalPower: 1},
			{Tier: TierMiddle, MinWealth: 10_001, MaxWealth: 50_000, TaxRate: 0.15, LoanInterest: 0.08, MaxLoan: 25_000, PoliticalPower: 3},
			{Tier: TierUpper, MinWealth: 50_001, MaxWealth: 200_000, TaxRate: 0.28, LoanInterest: 0.05, MaxLoan: 100_000, PoliticalPower: 7},
			{Tier: TierElite, MinWealth: 200_001, MaxWealth: 1_000_000, TaxRate: 0.37, LoanInterest: 0.03, MaxLoan: 500_000, PoliticalPower: 15},
			{Tier: TierOligarch, MinWealth: 1_000_001, MaxWealth: 0, TaxRate: 0.45, LoanInterest: 0.02, MaxLoan: 2_000_000, PoliticalPower: 30},
		},
		Jobs: []Job{
			{Name: "unemployed", BaseSalary: 0, SkillRequired: 0, DemandElasticity: 0, AutomationRisk: 0},
			{Name: "beggar", BaseSalary: 200, SkillRequired: 0, DemandElasticity: 0.1, AutomationRisk: 0.05},
			{Name: "street_cleaner", BaseSalary: 500, SkillRequired: 0, DemandElasticity: 0.2, AutomationRisk: 0.6},
			{Name: "dishwasher", BaseSalary: 600, SkillRequired: 0, DemandElasticity: 0.3, AutomationRisk: 0.7},
			{Name: "laborer", BaseSalary: 800, SkillRequired: 0, DemandElasticity: 0.2, AutomationRisk: 0.7},
			{Name: "garbage_collector", BaseSalary: 900, SkillRequired: 0, DemandElasticity: 0.2, AutomationRisk: 0.5},
			{Name: "janitor", BaseSalary: 1200, SkillRequired: 1, DemandElasticity: 0.3, AutomationRisk: 0.6},
			{Name: "delivery_driver", BaseSalary: 1400, SkillRequired: 1, DemandElasticity: 0.5, AutomationRisk: 0.8},
			{Name: "security_guard", BaseSalary: 1500, SkillRequired: 1, DemandElasticity: 0.3, AutomationRisk: 0.4},
			{Name: "cashier", BaseSalary: 1600, SkillRequired: 1, DemandElasticity: 0.4, AutomationRisk: 0.7},
			{Name: "waiter", BaseSalary: 1700, SkillRequired: 2, DemandElasticity: 0.5, AutomationRisk: 0.5},
			{Name: "warehouse_worker", BaseSalary: 2000, SkillRequired: 2, DemandElasticity: 0.5, AutomationRisk: 0.5},
			{Name: "factory_worker", BaseSalary: 2200, SkillRequired: 2, DemandElasticity: 0.4, AutomationRisk: 0.8},
			{Name: "barista", BaseSalary: 2300, SkillRequired: 2, DemandElasticity: 0.5, AutomationRisk: 0.6},
			{Name: "receptionist", BaseSalary: 2400, SkillRequired: 2, DemandElasticity: 0.4, AutomationRisk: 0.6},
			{Name: "sales_associate", BaseSalary: 2600, SkillRequired: 3, DemandElasticity: 0.6, AutomationRisk: 0.5},
			{Name: "cook", BaseSalary: 2800, SkillRequired: 3, DemandElasticity: 0.4, AutomationRisk: 0.4},
			{Name: "mechanic", BaseSalary: 3200, SkillRequired: 4, DemandElasticity: 0.5, AutomationRisk: 0.3},
			{Name: "plumber", BaseSalary: 3300, SkillRequired: 4, DemandElasticity: 0.5, AutomationRisk: 0.2},
			{Name: "electrician", BaseSalary: 3400, SkillRequired: 4, DemandElasticity: 0.5, AutomationRisk: 0.3},
			{Name: "technician", BaseSalary: 3500, SkillRequired: 4, DemandElasticity: 0.6, AutomationRisk: 0.3},
			{Name: "paramedic", BaseSalary: 3600, SkillRequired: 5, DemandElasticity: 0.3, AutomationRisk: 0.2},
			{Name: "teacher", BaseSalary: 3800, SkillRequired: 5, DemandElasticity: 0.3, AutomationRisk: 0.2},
			{Name: "police_officer", BaseSalary: 4000, SkillRequired: 5, DemandElasticity: 0.3, AutomationRisk: 0.2},
			{Name: "firefighter", BaseSalary: 4100, SkillRequired: 5, DemandElasticity: 0.3, AutomationRisk: 0.1},
			{Name: "nurse", BaseSalary: 4200, SkillRequired: 5, DemandElasticity: 0.4, AutomationRisk: 0.2},
			{Name: "accountant", BaseSalary: 4500, SkillRequired: 6, DemandElasticity: 0.6, AutomationRisk: 0.5},
			{Name: "data_analyst", BaseSalary: 4800, SkillRequired: 6, DemandElasticity: 0.7, AutomationRisk: 0.4},
			{Name: "software_developer", BaseSalary: 5000, SkillRequired: 6, DemandElasticity: 0.8, AutomationRisk: 0.3},
			{Name: "engineer", BaseSalary: 5500, SkillRequired: 7, DemandElasticity: 0.7, AutomationRisk: 0.4},
			{Name: "architect", BaseSalary: 5600, SkillRequired: 7, DemandElasticity: 0.6, AutomationRisk: 0.3},
			{Name: "manager", BaseSalary: 6000, SkillRequired: 6, DemandElasticity: 0.5, AutomationRisk: 0.3},
			{Name: "marketing_manager", BaseSalary: 6200, SkillRequired: 7, DemandElasticity: 0.6, AutomationRisk: 0.4},
			{Name: "pharmacist", BaseSalary: 6500, SkillRequired: 8, DemandElasticity: 0.4, AutomationRisk: 0.3},
			{Name: "dentist", BaseSalary: 7000, SkillRequired: 8, DemandElasticity: 0.4, AutomationRisk: 0.2},
			{Name: "lawyer", BaseSalary: 7500, SkillRequired: 8, DemandElasticity: 0.5, AutomationRisk: 0.3},
			{Name: "doctor", BaseSalary: 8000, SkillRequired: 9, DemandElasticity: 0.4, AutomationRisk: 0.1},
			{Name: "pilot", BaseSalary: 8500, SkillRequired: 9, DemandElasticity: 0.5, AutomationRisk: 0.4},
			{Name: "surgeon", BaseSalary: 9000, SkillRequired: 10, DemandElasticity: 0.3, AutomationRisk: 0.1},
			{Name: "investment_banker", BaseSalary: 10000, SkillRequired: 9, DemandElasticity: 0.7, AutomationRisk: 0.3},
			{Name: "executive", BaseSalary: 12000, SkillRequired: 9, DemandElasticity: 0.8, AutomationRisk: 0.2},
			{Name: "ceo", BaseSalary: 15000, SkillRequired: 10, DemandElasticity: 0.9, AutomationRisk: 0.1},
			{Name: "entrepreneur", BaseSalary: 18000, SkillRequired: 8, DemandElasticity: 0.9, AutomationRisk: 0.1},
		},
		Crimes: []Crime{
			{Name: "pickpocket", BaseSuccess: 0.4, MinReward: 100, MaxReward: 500, JailHours: 2, SkillRequired: 0},
			{Name: "robbery", BaseSuccess: 0.25, MinReward: 500, MaxReward: 3000, JailHours: 6, SkillRequired: 3},
			{Name: "heist", BaseSuccess: 0.15, MinReward: 5000, MaxReward: 20000, JailHours: 24, SkillRequired: 7},
			{Name: "embezzlement", BaseSuccess: 0.20, MinReward: 10000, MaxReward: 50000, JailHours: 48, SkillRequired: 8},
			{Name: "tax_evasion", BaseSuccess: 0.35, MinReward: 5000, MaxReward: 30000, JailHours: 72, SkillRequired: 6},
		},
		Investments: []Investment{
			{Name: "savings_account", MinAmount: 100, AnnualReturn: 0.02, RiskFactor: 0.01, Liquidity: 1.0},
			{Name: "bonds", MinAmount: 1000, AnnualReturn: 0.04, RiskFactor: 0.05, Liquidity: 0.8},
			{Name: "stocks", MinAmount: 500, AnnualReturn: 0.08, RiskFactor: 0.20, Liquidity: 0.9},
			{Name: "real_estate", MinAmount: 50000, AnnualReturn: 0.06, RiskFactor: 0.10, Liquidity: 0.3},
			{Name: "venture_capital", MinAmount: 100000, AnnualReturn: 0.15, RiskFactor: 0.40, Liquidity: 0.2},
			{Name: "cryptocurrency", MinAmount: 100, AnnualReturn: 0.20, RiskFactor: 0.60, Liquidity: 0.95},
		},
		Items: []Item{
			{Name: "bread", BasePrice: 5, Elasticity: 0.3, Necessity: 0.9},
			{Name: "water", BasePrice: 3, Elasticity: 0.2, Necessity: 1.0},
			{Name: "medicine", BasePrice: 50, Elasticity: 0.1, Necessity: 0.8},
			{Name: "phone", BasePrice: 500, Elasticity: 0.7, Necessity: 0.4},
			{Name: "laptop", BasePrice: 1200, Elasticity: 0.8, Necessity: 0.3},
			{Name: "car", BasePrice: 25000, Elasticity: 0.9, Necessity: 0.5},
			{Name: "house", BasePrice: 200000, Elasticity: 1.2, Necessity: 0.9},
			{Name: "luxury_watch", BasePrice: 5000, Elasticity: 1.5, Necessity: 0.0},
			{Name: "yacht", BasePrice: 1000000, Elasticity: 2.0, Necessity: 0.0},
		},
		Events: []Event{
			{Name: "stock_market_crash", Probability: 0.02, GDPImpact: -0.15, UnemploymentImpact: 0.25, DurationDays: 7},
			{Name: "tech_boom", Probability: 0.03, GDPImpact: 0.20, UnemploymentImpact: -0.10, DurationDays: 14},
			{Name: "natural_disaster", Probability: 0.01, GDPImpact: -0.10, UnemploymentImpact: 0.15, DurationDays: 5},
			{Name: "trade_war", Probability: 0.02, GDPImpact: -0.08, UnemploymentImpact: 0.12, DurationDays: 21},
			{Name: "innovation_breakthrough", Probability: 0.02, GDPImpact: 0.15, UnemploymentImpact: -0.05, DurationDays: 30},
			{Name: "pandemic", Probability: 0.005, GDPImpact: -0.25, UnemploymentImpact: 0.40, DurationDays: 60},
			{Name: "oil_crisis", Probability: 0.015, GDPImpact: -0.12, UnemploymentImpact: 0.08, DurationDays: 14},
			{Name: "housing_bubble", Probability: 0.01, GDPImpact: -0.20, UnemploymentImpact: 0.30, DurationDays: 10},
		},
		Positions: []Position{
			{Name: "mayor", MinPower: 10, TermDays: 14},
			{Name: "treasurer", MinPower: 8, TermDays: 14},
			{Name: "police_chief", MinPower: 7, TermDays: 14},
			{Name: "labor_secretary", MinPower: 5, TermDays: 14},
			{Name: "central_banker", MinPower: 12, TermDays: 14},
		},
		Phases: map[Phase]PhaseModifiers{
			PhaseExpansion: {GDPGrowth: 1.15, Unemployment: 0.85, Inflation: 1.10},
			PhasePeak:      {GDPGrowth: 1.05, Unemployment: 0.90, Inflation: 1.15},
			PhaseRecession: {GDPGrowth: 0.85, Unemployment: 1.30, Inflation: 0.95},
			PhaseTrough:    {GDPGrowth: 0.80, Unemployment: 1.50, Inflation: 0.90},
			PhaseRecovery:  {GDPGrowth: 1.10, Unemployment: 1.10, Inflation: 1.02},
		},
		Defaults: TenantDefaults{
			TaxRate:             0.20,
			InflationRate:       0.02,
			InterestRate:        0.05,
			MinWage:             1500,
			UnemploymentBenefit: 600,
			WelfareAmount:       500,
			StartingBalance:     1000,
		},
	}
}
