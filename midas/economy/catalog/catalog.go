// Package catalog holds the read-only game-balance tables: wealth
// classes, jobs, crimes, investment instruments, market items, macro
// events and business-cycle modifiers. A Catalog is immutable after
// construction; lookups return copies.
package catalog

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Tier is a discrete wealth class bucket derived from total wealth.
type Tier string

const (
	TierLower    Tier = "Lower Class"
	TierMiddle   Tier = "Middle Class"
	TierUpper    Tier = "Upper Class"
	TierElite    Tier = "Elite"
	TierOligarch Tier = "Oligarch"
)

// Phase is one stage of the recurring business cycle.
type Phase string

const (
	PhaseExpansion Phase = "expansion"
	PhasePeak      Phase = "peak"
	PhaseRecession Phase = "recession"
	PhaseTrough    Phase = "trough"
	PhaseRecovery  Phase = "recovery"
)

// PhaseRing returns the cycle phases in rotation order.
func PhaseRing() []Phase {
	return []Phase{PhaseExpansion, PhasePeak, PhaseRecession, PhaseTrough, PhaseRecovery}
}

// Class binds a wealth band to its tax rate and tier benefits.
// MaxWealth is inclusive; the top tier uses MaxWealth < MinWealth to
// mark an unbounded band.
type Class struct {
	Tier            Tier
	MinWealth       int64
	MaxWealth       int64
	TaxRate         float64
	WelfareEligible bool
	LoanInterest    float64
	MaxLoan         int64
	PoliticalPower  int
}

// Unbounded reports whether the class has no upper wealth limit.
func (c Class) Unbounded() bool {
	return c.MaxWealth < c.MinWealth
}

type Job struct {
	Name             string
	BaseSalary       int64
	SkillRequired    int
	DemandElasticity float64
	AutomationRisk   float64
}

type Crime struct {
	Name          string
	BaseSuccess   float64
	MinReward     int64
	MaxReward     int64
	JailHours     int
	SkillRequired int
}

type Investment struct {
	Name         string
	MinAmount    int64
	AnnualReturn float64
	RiskFactor   float64
	Liquidity    float64
}

type Item struct {
	Name       string
	BasePrice  int64
	Elasticity float64
	Necessity  float64
}

type Event struct {
	Name               string
	Probability        float64
	GDPImpact          float64
	UnemploymentImpact float64
	DurationDays       int
}

// Position is an elected office with its candidacy power threshold and
// term length.
type Position struct {
	Name     string
	MinPower int
	TermDays int
}

// PhaseModifiers scale macro indicators during one cycle phase.
type PhaseModifiers struct {
	GDPGrowth    float64
	Unemployment float64
	Inflation    float64
}

// TenantDefaults seed a freshly created tenant economy.
type TenantDefaults struct {
	TaxRate             float64
	InflationRate       float64
	InterestRate        float64
	MinWage             int64
	UnemploymentBenefit int64
	WelfareAmount       int64
	StartingBalance     int64
}

// Tables is the raw input for building a Catalog. Tests use it to
// construct reduced or synthetic economies.
type Tables struct {
	Classes     []Class
	Jobs        []Job
	Crimes      []Crime
	Investments []Investment
	Items       []Item
	Events      []Event
	Positions   []Position
	Phases      map[Phase]PhaseModifiers
	Defaults    TenantDefaults
}

type Catalog struct {
	classes     []Class
	jobs        []Job
	crimes      []Crime
	investments []Investment
	items       []Item
	events      []Event
	positions   []Position
	phases      map[Phase]PhaseModifiers
	defaults    TenantDefaults

	jobIndex      map[string]int
	crimeIndex    map[string]int
	investIndex   map[string]int
	itemIndex     map[string]int
	eventIndex    map[string]int
	positionIndex map[string]int

	jobNames    nameIndex
	crimeNames  nameIndex
	investNames nameIndex
	itemNames   nameIndex
}

// New builds an immutable Catalog from the given tables. Class bands
// must start at 0, be contiguous, and end with one unbounded band.
func New(t Tables) (*Catalog, error) {
	if len(t.Classes) == 0 {
		return nil, fmt.Errorf("catalog: at least one wealth class required")
	}
	if t.Classes[0].MinWealth != 0 {
		return nil, fmt.Errorf("catalog: lowest class must start at wealth 0, got %d", t.Classes[0].MinWealth)
	}
	for i := 1; i < len(t.Classes); i++ {
		prev, cur := t.Classes[i-1], t.Classes[i]
		if prev.Unbounded() {
			return nil, fmt.Errorf("catalog: class %q follows an unbounded band", cur.Tier)
		}
		if cur.MinWealth != prev.MaxWealth+1 {
			return nil, fmt.Errorf("catalog: class %q band not contiguous with %q", cur.Tier, prev.Tier)
		}
	}
	if !t.Classes[len(t.Classes)-1].Unbounded() {
		return nil, fmt.Errorf("catalog: highest class must be unbounded above")
	}

	c := &Catalog{
		classes:       append([]Class(nil), t.Classes...),
		jobs:          append([]Job(nil), t.Jobs...),
		crimes:        append([]Crime(nil), t.Crimes...),
		investments:   append([]Investment(nil), t.Investments...),
		items:         append([]Item(nil), t.Items...),
		events:        append([]Event(nil), t.Events...),
		positions:     append([]Position(nil), t.Positions...),
		phases:        make(map[Phase]PhaseModifiers, len(t.Phases)),
		defaults:      t.Defaults,
		jobIndex:      make(map[string]int, len(t.Jobs)),
		crimeIndex:    make(map[string]int, len(t.Crimes)),
		investIndex:   make(map[string]int, len(t.Investments)),
		itemIndex:     make(map[string]int, len(t.Items)),
		eventIndex:    make(map[string]int, len(t.Events)),
		positionIndex: make(map[string]int, len(t.Positions)),
	}
	for p, m := range t.Phases {
		c.phases[p] = m
	}

	for i, j := range c.jobs {
		if _, dup := c.jobIndex[j.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate job %q", j.Name)
		}
		c.jobIndex[j.Name] = i
		c.jobNames = append(c.jobNames, j.Name)
	}
	for i, cr := range c.crimes {
		if _, dup := c.crimeIndex[cr.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate crime %q", cr.Name)
		}
		c.crimeIndex[cr.Name] = i
		c.crimeNames = append(c.crimeNames, cr.Name)
	}
	for i, inv := range c.investments {
		if _, dup := c.investIndex[inv.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate investment %q", inv.Name)
		}
		c.investIndex[inv.Name] = i
		c.investNames = append(c.investNames, inv.Name)
	}
	for i, it := range c.items {
		if _, dup := c.itemIndex[it.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", it.Name)
		}
		c.itemIndex[it.Name] = i
		c.itemNames = append(c.itemNames, it.Name)
	}
	for i, ev := range c.events {
		if _, dup := c.eventIndex[ev.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate event %q", ev.Name)
		}
		c.eventIndex[ev.Name] = i
	}
	for i, p := range c.positions {
		if _, dup := c.positionIndex[p.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate position %q", p.Name)
		}
		c.positionIndex[p.Name] = i
	}

	return c, nil
}

// NewDefault builds the standard catalog. It panics only on a defect
// in the built-in tables.
func NewDefault() *Catalog {
	c, err := New(defaultTables())
	if err != nil {
		panic("catalog: invalid built-in tables: " + err.Error())
	}
	return c
}

// ClassFor maps total wealth to its wealth class. Negative wealth
// clamps into the lowest band.
func (c *Catalog) ClassFor(wealth int64) Class {
	if wealth < 0 {
		return c.classes[0]
	}
	for _, cl := range c.classes {
		if cl.Unbounded() || wealth <= cl.MaxWealth {
			return cl
		}
	}
	return c.classes[len(c.classes)-1]
}

// ClassByTier returns the class for a tier name.
func (c *Catalog) ClassByTier(t Tier) (Class, bool) {
	for _, cl := range c.classes {
		if cl.Tier == t {
			return cl, true
		}
	}
	return Class{}, false
}

// TierIndex returns the position of a tier in the class ladder, poorest
// first. Unknown tiers map to the bottom rung.
func (c *Catalog) TierIndex(t Tier) int {
	for i, cl := range c.classes {
		if cl.Tier == t {
			return i
		}
	}
	return 0
}

func (c *Catalog) Classes() []Class {
	return append([]Class(nil), c.classes...)
}

func (c *Catalog) Job(name string) (Job, bool) {
	i, ok := c.jobIndex[name]
	if !ok {
		return Job{}, false
	}
	return c.jobs[i], true
}

func (c *Catalog) Jobs() []Job {
	return append([]Job(nil), c.jobs...)
}

func (c *Catalog) Crime(name string) (Crime, bool) {
	i, ok := c.crimeIndex[name]
	if !ok {
		return Crime{}, false
	}
	return c.crimes[i], true
}

func (c *Catalog) Crimes() []Crime {
	return append([]Crime(nil), c.crimes...)
}

func (c *Catalog) Investment(name string) (Investment, bool) {
	i, ok := c.investIndex[name]
	if !ok {
		return Investment{}, false
	}
	return c.investments[i], true
}

func (c *Catalog) Investments() []Investment {
	return append([]Investment(nil), c.investments...)
}

func (c *Catalog) Item(name string) (Item, bool) {
	i, ok := c.itemIndex[name]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c *Catalog) Event(name string) (Event, bool) {
	i, ok := c.eventIndex[name]
	if !ok {
		return Event{}, false
	}
	return c.events[i], true
}

// Events returns macro events in declaration order. Trigger rolls
// walk this order, so it is part of the simulation contract.
func (c *Catalog) Events() []Event {
	return append([]Event(nil), c.events...)
}

// Position looks up an elected office by name. Lookup is exact after
// normalization; office names are not fuzzy-matched.
func (c *Catalog) Position(name string) (Position, bool) {
	if i, ok := c.positionIndex[normalizeQuery(name)]; ok {
		return c.positions[i], true
	}
	return Position{}, false
}

// Positions returns all elected offices.
func (c *Catalog) Positions() []Position {
	return append([]Position(nil), c.positions...)
}

// Modifiers returns the macro modifiers for a phase. Unknown phases
// get neutral modifiers.
func (c *Catalog) Modifiers(p Phase) PhaseModifiers {
	if m, ok := c.phases[p]; ok {
		return m
	}
	return PhaseModifiers{GDPGrowth: 1.0, Unemployment: 1.0, Inflation: 1.0}
}

func (c *Catalog) Defaults() TenantDefaults {
	return c.defaults
}

// nameIndex implements fuzzy.Source over catalog entry names.
type nameIndex []string

func (n nameIndex) Len() int            { return len(n) }
func (n nameIndex) String(i int) string { return n[i] }

func normalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	return strings.ReplaceAll(q, " ", "_")
}

func resolve(query string, names nameIndex, index map[string]int) (int, bool) {
	q := normalizeQuery(query)
	if i, ok := index[q]; ok {
		return i, true
	}
	matches := fuzzy.FindFrom(q, names)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Index, true
}

// ResolveJob finds a job by exact or fuzzy name match.
func (c *Catalog) ResolveJob(query string) (Job, bool) {
	i, ok := resolve(query, c.jobNames, c.jobIndex)
	if !ok {
		return Job{}, false
	}
	return c.jobs[i], true
}

// ResolveCrime finds a crime by exact or fuzzy name match.
func (c *Catalog) ResolveCrime(query string) (Crime, bool) {
	i, ok := resolve(query, c.crimeNames, c.crimeIndex)
	if !ok {
		return Crime{}, false
	}
	return c.crimes[i], true
}

// ResolveInvestment finds an investment instrument by exact or fuzzy
// name match.
func (c *Catalog) ResolveInvestment(query string) (Investment, bool) {
	i, ok := resolve(query, c.investNames, c.investIndex)
	if !ok {
		return Investment{}, false
	}
	return c.investments[i], true
}

// ResolveItem finds a market item by exact or fuzzy name match.
func (c *Catalog) ResolveItem(query string) (Item, bool) {
	i, ok := resolve(query, c.itemNames, c.itemIndex)
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}
