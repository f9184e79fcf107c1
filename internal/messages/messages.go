// Package messages renders evaluation results into outbound chat text.
// Everything here is a pure transform; nothing touches the store.
package messages

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shabelski89/pushups/internal/exercise"
	"github.com/shabelski89/pushups/internal/progress"
)

// MissingGroupWarning is prepended when the daily report has to fall back to
// the admin because no group chat is configured.
const MissingGroupWarning = "⚠️ No group chat configured — sending the report here instead.\n\n"

// Greeting is the /start reply. The chat id is included so admins can
// discover the ids to put into GROUP_CHAT_ID / ADMIN_CHAT_ID.
func Greeting(firstName string, chatID int64, goals map[exercise.Kind]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This chat has id `%d`.\n", chatID)
	if firstName == "" {
		firstName = "there"
	}
	fmt.Fprintf(&b, "Hi, %s! 👋 I keep track of your daily workouts.\n", firstName)
	b.WriteString("Daily goals: ")
	for i, k := range exercise.Kinds() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s — %s", exercise.Title(k), exercise.Format(k, goals[k]))
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Just send a number like «%s», or «plank %s» for plank.",
		exercise.Hint(exercise.Pushups), exercise.Hint(exercise.Plank))
	return b.String()
}

// Progress is the reply to one logged entry: added amount, running total and
// goal, plus what is left — or the achievement variant once the goal is met.
func Progress(kind exercise.Kind, added, total, goal int) string {
	title := exercise.Title(kind)
	st := progress.Classify(total, goal)
	if st.Achieved {
		return fmt.Sprintf("🔥 Goal reached! Added %s — %s today: %s/%s. Well done!",
			exercise.Format(kind, added), title,
			exercise.Format(kind, total), exercise.Format(kind, goal))
	}
	return fmt.Sprintf("✅ Added %s. %s today: %s/%s. %s to go!",
		exercise.Format(kind, added), capitalize(title),
		exercise.Format(kind, total), exercise.Format(kind, goal),
		exercise.Format(kind, st.Remaining))
}

// Reminder nags one underachiever about one exercise. mention is prepended
// for the group variant so the recipient is identifiable; pass "" for
// direct messages.
func Reminder(kind exercise.Kind, total, goal int, mention string) string {
	body := fmt.Sprintf("%s today: %s/%s — %s to go. You can do it!",
		capitalize(exercise.Title(kind)),
		exercise.Format(kind, total), exercise.Format(kind, goal),
		exercise.Format(kind, goal-total))
	if mention != "" {
		return fmt.Sprintf("⏰ %s, reminder! %s", mention, body)
	}
	return "⏰ Reminder! " + body
}

// Section is one exercise block of the daily report.
type Section struct {
	Kind exercise.Kind
	Goal int
	Eval progress.Evaluation
}

// DailyReport renders the consolidated end-of-day report: one block per
// exercise, achievers then underachievers, both in registration order.
func DailyReport(day string, sections []Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Daily report for %s", day)
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n\n%s — goal %s",
			capitalize(exercise.Title(sec.Kind)), exercise.Format(sec.Kind, sec.Goal))
		if len(sec.Eval.Achievers) == 0 && len(sec.Eval.Under) == 0 {
			b.WriteString("\nno one is registered yet")
			continue
		}
		if len(sec.Eval.Achievers) > 0 {
			b.WriteString("\n🏆 Done:")
			for _, a := range sec.Eval.Achievers {
				fmt.Fprintf(&b, "\n  • %s — %s", a.User.DisplayName(), exercise.Format(sec.Kind, a.Total))
			}
		}
		if len(sec.Eval.Under) > 0 {
			b.WriteString("\n⏳ Still to go:")
			for _, u := range sec.Eval.Under {
				fmt.Fprintf(&b, "\n  • %s — %s (%s to go)",
					u.User.DisplayName(), exercise.Format(sec.Kind, u.Total),
					exercise.Format(sec.Kind, u.Remaining))
			}
		}
	}
	return b.String()
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
