// Package store holds the per-user state: profiles, the latest risk
// assessment, and the daily meal and exercise logs. Everything lives in
// memory behind mutexes; the optional postgres archive is additive and
// never read back.
package store

import (
	"sync"
	"time"

	"github.com/glucoguide/glucoguide/internal/risk"
)

// DateLayout is the day format used by every log endpoint.
const DateLayout = "2006-01-02"

const timestampLayout = "2006-01-02 15:04:05"

// Profile is a user's dietary and medical profile.
type Profile struct {
	Age               int      `json:"age,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	Weight            float64  `json:"weight,omitempty"`
	Height            float64  `json:"height,omitempty"`
	ActivityLevel     string   `json:"activityLevel,omitempty"`
	DietType          string   `json:"dietType"`
	Allergies         []string `json:"allergies,omitempty"`
	Preferences       []string `json:"preferences,omitempty"`
	Avoidances        []string `json:"avoidances,omitempty"`
	DiabetesType      string   `json:"diabetesType,omitempty"`
	BloodSugarLevels  string   `json:"bloodSugarLevels,omitempty"`
	MedicationDetails string   `json:"medicationDetails,omitempty"`
	LastUpdated       string   `json:"lastUpdated,omitempty"`
}

// Profiles is the in-memory profile store.
type Profiles struct {
	mu  sync.RWMutex
	m   map[string]Profile
	now func() time.Time
}

// NewProfiles builds an empty profile store.
func NewProfiles() *Profiles {
	return NewProfilesWithClock(time.Now)
}

// NewProfilesWithClock is for tests that fix the LastUpdated stamp.
func NewProfilesWithClock(now func() time.Time) *Profiles {
	return &Profiles{m: make(map[string]Profile), now: now}
}

// Get returns the stored profile for the user.
func (p *Profiles) Get(userID string) (Profile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	prof, ok := p.m[userID]
	return prof, ok
}

// Put stores the profile, stamping LastUpdated, and returns the stored copy.
func (p *Profiles) Put(userID string, prof Profile) Profile {
	prof.LastUpdated = p.now().Format(timestampLayout)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[userID] = prof
	return prof
}

// Assessment pairs the clinical input with the risk result it produced.
type Assessment struct {
	Record risk.ClinicalRecord `json:"input"`
	Result risk.Result         `json:"result"`
	At     string              `json:"at"`
}

// Assessments keeps the most recent assessment per user. No history; each
// prediction overwrites the last.
type Assessments struct {
	mu  sync.RWMutex
	m   map[string]Assessment
	now func() time.Time
}

// NewAssessments builds an empty assessment store.
func NewAssessments() *Assessments {
	return NewAssessmentsWithClock(time.Now)
}

// NewAssessmentsWithClock is for tests that fix the timestamp.
func NewAssessmentsWithClock(now func() time.Time) *Assessments {
	return &Assessments{m: make(map[string]Assessment), now: now}
}

// Put records the user's latest assessment.
func (a *Assessments) Put(userID string, rec risk.ClinicalRecord, res risk.Result) Assessment {
	entry := Assessment{Record: rec, Result: res, At: a.now().Format(timestampLayout)}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m[userID] = entry
	return entry
}

// Last returns the user's most recent assessment.
func (a *Assessments) Last(userID string) (Assessment, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.m[userID]
	return entry, ok
}
