package services

import (
	"math"
	"sync"
	"time"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/store"
	"github.com/awashimakentaro/diet/utils"
)

// DailySummary is the computed aggregation of a day's meals versus the goal.
// Nothing here is cached: every invalidation makes subscribers re-pull.
type DailySummary struct {
	Date      string       `json:"date"`
	MealCount int          `json:"mealCount"`
	Totals    models.Macro `json:"totals"`
	Goal      models.Macro `json:"goal"`
	HasGoal   bool         `json:"hasGoal"`
	Diff      models.Macro `json:"diff"`  // positive = over budget
	Ratio     models.Macro `json:"ratio"` // clamped to [0, 2], 0 when goal is 0
}

// BuildDailySummary is pure: filter meals to the date, sum their totals, diff
// against the goal, and compute bounded ratios.
func BuildDailySummary(meals []models.Meal, goal *models.Goal, dateKey string, loc *time.Location) DailySummary {
	sum := DailySummary{Date: dateKey}

	var totals models.Macro
	for _, m := range meals {
		if utils.DateKey(m.RecordedAt, loc) != dateKey {
			continue
		}
		totals = totals.Add(m.Totals)
		sum.MealCount++
	}
	sum.Totals = totals.Sanitized()

	if goal != nil {
		sum.HasGoal = true
		sum.Goal = goal.Macro()
	}
	sum.Diff = models.Macro{
		Kcal:    roundDiff(sum.Totals.Kcal - sum.Goal.Kcal),
		Protein: roundDiff(sum.Totals.Protein - sum.Goal.Protein),
		Fat:     roundDiff(sum.Totals.Fat - sum.Goal.Fat),
		Carbs:   roundDiff(sum.Totals.Carbs - sum.Goal.Carbs),
	}
	sum.Ratio = models.Macro{
		Kcal:    boundedRatio(sum.Totals.Kcal, sum.Goal.Kcal),
		Protein: boundedRatio(sum.Totals.Protein, sum.Goal.Protein),
		Fat:     boundedRatio(sum.Totals.Fat, sum.Goal.Fat),
		Carbs:   boundedRatio(sum.Totals.Carbs, sum.Goal.Carbs),
	}
	return sum
}

// roundDiff keeps one decimal but, unlike SanitizeMacroValue, preserves sign.
func roundDiff(x float64) float64 {
	return math.Round(x*10) / 10
}

// boundedRatio avoids division by zero (goal 0 means ratio 0) and caps the
// result at 2 so an over-budget day cannot blow up progress bars.
func boundedRatio(consumed, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	r := consumed / goal
	if r < 0 {
		return 0
	}
	if r > 2 {
		return 2
	}
	return r
}

type SummaryListener func(dateKey string)

// SummaryService owns the invalidation fan-out: any meal or goal mutation
// calls Invalidate, which re-triggers every subscriber and pushes a websocket
// event. Recomputation is pull-based; no summary object is stored or diffed.
type SummaryService struct {
	mu        sync.Mutex
	listeners map[uint]map[int]SummaryListener
	order     map[uint][]int
	nextID    int
	hub       *RealtimeHub
}

func NewSummaryService(hub *RealtimeHub) *SummaryService {
	return &SummaryService{
		listeners: make(map[uint]map[int]SummaryListener),
		order:     make(map[uint][]int),
		hub:       hub,
	}
}

func (s *SummaryService) Subscribe(userID uint, l SummaryListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.listeners[userID] == nil {
		s.listeners[userID] = make(map[int]SummaryListener)
	}
	s.listeners[userID][id] = l
	s.order[userID] = append(s.order[userID], id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners[userID], id)
		for i, v := range s.order[userID] {
			if v == id {
				s.order[userID] = append(s.order[userID][:i], s.order[userID][i+1:]...)
				break
			}
		}
	}
}

func (s *SummaryService) Invalidate(userID uint, dateKey string) {
	s.mu.Lock()
	ls := make([]SummaryListener, 0, len(s.order[userID]))
	for _, id := range s.order[userID] {
		ls = append(ls, s.listeners[userID][id])
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(dateKey)
	}
	if s.hub != nil {
		s.hub.BroadcastSummaryInvalidated(userID, dateKey)
	}
}

// GetDailySummary recomputes the summary for dateKey from the user's current
// in-memory state.
func (s *SummaryService) GetDailySummary(st *store.Store, dateKey string, loc *time.Location) DailySummary {
	state := st.Get()
	return BuildDailySummary(state.Meals, state.Goal, dateKey, loc)
}
