package progress

import (
	"sort"

	"github.com/shabelski89/pushups/internal/models"
)

// Status classifies one daily total against the goal.
type Status struct {
	Achieved  bool
	Remaining int
}

// Classify applies the goal threshold: reaching the goal exactly counts as
// achieved. Remaining is positive only for underachievers.
func Classify(total, goal int) Status {
	if total >= goal {
		return Status{Achieved: true}
	}
	return Status{Remaining: goal - total}
}

// Under is an underachiever row: the user's total plus how much is left.
type Under struct {
	models.UserTotal
	Remaining int
}

// Evaluation splits a day's totals into achievers and underachievers,
// both in the order the totals came in (registration order).
type Evaluation struct {
	Achievers []models.UserTotal
	Under     []Under
}

func Evaluate(totals []models.UserTotal, goal int) Evaluation {
	var ev Evaluation
	for _, t := range totals {
		st := Classify(t.Total, goal)
		if st.Achieved {
			ev.Achievers = append(ev.Achievers, t)
			continue
		}
		ev.Under = append(ev.Under, Under{UserTotal: t, Remaining: st.Remaining})
	}
	return ev
}

// SortByClosest reorders underachievers closest-to-goal first, the order
// reminders go out in. Stable, so equal totals keep registration order.
func SortByClosest(under []Under) {
	sort.SliceStable(under, func(i, j int) bool {
		return under[i].Total > under[j].Total
	})
}
