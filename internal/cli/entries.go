package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timetable/internal/models"
	"github.com/julianstephens/timetable/internal/utils"
)

var (
	ErrNotToday      = errors.New("only today's status can be changed")
	ErrAlreadyMarked = errors.New("today's status is already set")
)

type AddCmd struct {
	Name string `arg:"" help:"Action to track this week."`
}

func (c *AddCmd) Run(ctx *Context) error {
	st, _, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	entry, err := st.AddAction(ctx.Context(), c.Name)
	if err != nil {
		return err
	}
	ctx.printf("✓ Added %s %s (%s)\n", utils.TaskIcon(entry.Action), entry.Action, shortID(entry.ID))
	return nil
}

type MarkCmd struct {
	ID    string `arg:"" help:"Entry id or unique id prefix."`
	Value string `arg:"" help:"yes or no."`
	Day   string `help:"Day to mark. Must be today." placeholder:"DAY"`
}

func (c *MarkCmd) Run(ctx *Context) error {
	value, err := models.ParseDayStatus(c.Value)
	if err != nil {
		return err
	}
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	today := now.Weekday()
	day := today
	if c.Day != "" {
		if day, err = utils.ParseDay(c.Day); err != nil {
			return err
		}
	}
	if day != today {
		return fmt.Errorf("%w (today is %s)", ErrNotToday, today)
	}

	st, _, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	entry, err := resolveEntry(st.Entries(), c.ID)
	if err != nil {
		return err
	}
	if !entry.Status.Get(day).CanTransition(value) {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyMarked, entry.Action, entry.Status.Get(day))
	}
	if err := st.SetStatus(ctx.Context(), entry.ID, day, value, today); err != nil {
		return err
	}
	ctx.printf("%s %s marked %s for %s\n", statusCell(value), entry.Action, value, day)
	return nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Entry id or unique id prefix."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	st, _, err := ctx.OpenStore()
	if err != nil {
		return err
	}
	entry, err := resolveEntry(st.Entries(), c.ID)
	if err != nil {
		return err
	}

	if ctx.Interactive && !c.Yes {
		confirm := false
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", entry.Action)).
			Description("This removes the whole week for this action.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirm)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirm {
			ctx.printf("Cancelled\n")
			return nil
		}
	}

	if err := st.DeleteAction(ctx.Context(), entry.ID); err != nil {
		return err
	}
	ctx.printf("✓ Deleted %s\n", entry.Action)
	return nil
}
