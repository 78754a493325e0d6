package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"segmeter/host/board"
	"segmeter/host/sim"
	"segmeter/host/tasks"
)

// session executes commands against one board connection
type session struct {
	board     *board.Board
	sim       *sim.Sim
	fs        afero.Fs
	tasksFile string
	out       io.Writer
}

// exec runs one command line and reports whether the user asked to quit
func (s *session) exec(ctx context.Context, args []string) (bool, error) {
	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		s.printHelp()

	case "percent", "p":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: percent N")
		}
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid percentage %q: %w", args[0], err)
		}
		return false, s.sendPercent(ctx, p)

	case "sound", "s":
		if err := s.board.PlaySound(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "Sound triggered")

	case "tasks":
		l, err := tasks.Load(s.fs, s.file(args))
		if err != nil {
			return false, err
		}
		s.printTasks(l)
		return false, s.sendPercent(ctx, l.Stats().CompletionRate)

	case "toggle":
		if len(args) < 1 {
			return false, fmt.Errorf("usage: toggle ID [FILE]")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid task id %q: %w", args[0], err)
		}
		return false, s.updateTasks(ctx, s.file(args[1:]), func(l *tasks.List) error {
			t, err := l.Toggle(id)
			if err == nil {
				log.Info().Int("id", t.ID).Bool("completed", t.Completed).Msg("task toggled")
			}
			return err
		})

	case "add":
		if len(args) < 1 {
			return false, fmt.Errorf("usage: add TITLE")
		}
		title := strings.Join(args, " ")
		return false, s.updateTasks(ctx, s.tasksFile, func(l *tasks.List) error {
			t, err := l.Add(title, 0)
			if err == nil {
				log.Info().Int("id", t.ID).Str("title", t.Title).Msg("task added")
			}
			return err
		})

	case "delete":
		if len(args) < 1 {
			return false, fmt.Errorf("usage: delete ID [FILE]")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid task id %q: %w", args[0], err)
		}
		return false, s.updateTasks(ctx, s.file(args[1:]), func(l *tasks.List) error {
			return l.Delete(id)
		})

	case "rename":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: rename ID TITLE")
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		title := strings.Join(args[1:], " ")
		return false, s.updateTasks(ctx, s.tasksFile, func(l *tasks.List) error {
			return l.Rename(id, title)
		})

	case "duration":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: duration ID MINUTES")
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		minutes, err := strconv.Atoi(args[1])
		if err != nil || minutes < 0 {
			return false, fmt.Errorf("invalid duration %q", args[1])
		}
		return false, s.updateTasks(ctx, s.tasksFile, func(l *tasks.List) error {
			return l.SetDuration(id, minutes)
		})

	case "timing":
		if len(args) < 2 || len(args) > 3 {
			return false, fmt.Errorf("usage: timing ID on|off [REMAINING]")
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		var timing bool
		switch args[1] {
		case "on":
			timing = true
		case "off":
		default:
			return false, fmt.Errorf("timing must be on or off, got %q", args[1])
		}
		remaining := -1
		if len(args) == 3 {
			remaining, err = strconv.Atoi(args[2])
			if err != nil || remaining < 0 {
				return false, fmt.Errorf("invalid remaining time %q", args[2])
			}
		}
		return false, s.updateTasks(ctx, s.tasksFile, func(l *tasks.List) error {
			return l.SetTiming(id, timing, remaining)
		})

	case "display":
		if s.sim == nil {
			return false, fmt.Errorf("display is only available with -sim")
		}
		fmt.Fprintf(s.out, "[%s]\n", s.sim.Text())

	case "ports":
		return false, listPorts(s.out)

	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}

	return false, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: %w", arg, err)
	}
	return id, nil
}

func (s *session) file(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return s.tasksFile
}

func (s *session) sendPercent(ctx context.Context, p int) error {
	if err := s.board.SetPercent(ctx, p); err != nil {
		return err
	}
	log.Info().Int("percent", p).Msg("completion sent to board")
	fmt.Fprintf(s.out, "Display set to %d%%\n", p)
	return nil
}

// updateTasks applies fn to the list in path, saves it and sends the new rate
func (s *session) updateTasks(ctx context.Context, path string, fn func(*tasks.List) error) error {
	l, err := tasks.Load(s.fs, path)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	if err := l.Save(); err != nil {
		return err
	}
	s.printTasks(l)
	return s.sendPercent(ctx, l.Stats().CompletionRate)
}

func (s *session) printTasks(l *tasks.List) {
	for _, t := range l.Tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(s.out, "  [%s] %d %s\n", mark, t.ID, t.Title)
	}
	st := l.Stats()
	fmt.Fprintf(s.out, "%d/%d done, %d pending, %d%% complete\n",
		st.Completed, st.Total, st.Pending, st.CompletionRate)
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "\nAvailable commands:")
	fmt.Fprintln(s.out, "  percent N         - Show N% on the display (0-100)")
	fmt.Fprintln(s.out, "  sound             - Play the completion melody")
	fmt.Fprintln(s.out, "  tasks [FILE]      - Show tasks and send the completion rate")
	fmt.Fprintln(s.out, "  toggle ID [FILE]  - Toggle a task and send the completion rate")
	fmt.Fprintln(s.out, "  add TITLE         - Add a task (at most 8)")
	fmt.Fprintln(s.out, "  delete ID [FILE]  - Delete a task")
	fmt.Fprintln(s.out, "  rename ID TITLE   - Rename a task")
	fmt.Fprintln(s.out, "  duration ID N     - Set a task's planned minutes")
	fmt.Fprintln(s.out, "  timing ID on|off [REMAINING] - Start or stop a task's countdown")
	fmt.Fprintln(s.out, "  display           - Print the simulated display (-sim only)")
	fmt.Fprintln(s.out, "  ports             - List serial ports")
	fmt.Fprintln(s.out, "  quit/exit/q       - Exit the program")
	fmt.Fprintln(s.out)
}
