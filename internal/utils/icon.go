package utils

import "strings"

// taskIcons is checked in order; the first keyword contained in the
// action name wins, so "workout" matches before "work".
var taskIcons = []struct {
	keywords []string
	icon     string
}{
	{[]string{"read", "study", "book"}, "📚"},
	{[]string{"workout", "exercise", "gym"}, "🏃"},
	{[]string{"code", "program", "develop"}, "💻"},
	{[]string{"sleep", "wake", "bed"}, "😴"},
	{[]string{"eat", "meal", "food"}, "🍽️"},
	{[]string{"work", "meeting", "project"}, "💼"},
	{[]string{"meditate", "yoga", "mindful"}, "🧘"},
}

const defaultTaskIcon = "📝"

// TaskIcon picks a category icon for an action name.
func TaskIcon(action string) string {
	lower := strings.ToLower(action)
	for _, group := range taskIcons {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.icon
			}
		}
	}
	return defaultTaskIcon
}
