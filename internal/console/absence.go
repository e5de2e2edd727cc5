package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	"github.com/noah-isme/sma-substitution-console/internal/service"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

const absenceHelp = `Commands:
  show                 redraw the roster and the selected panel
  search <text>        filter by name, teacher id or email (empty clears)
  toggle <id>          check or uncheck a teacher
  all on|off           check or uncheck every visible teacher
  remove <id>          uncheck a teacher from the selected panel
  date <YYYY-MM-DD>    set the date and derive the rotation day
  day <1-5>            override the rotation day
  submit               mark the selected teachers absent
  cancel               leave for the dashboard
  back                 return to the main prompt
`

type absenceWorkflow interface {
	LoadPage(ctx context.Context) (*models.AbsencePage, error)
	Submit(ctx context.Context, in service.SubmissionInput, page service.Page) (*models.SubmissionResult, error)
	Cancel(ctx context.Context, page service.Page) string
}

// AbsenceSession is one visit to the absence page.
type AbsenceSession struct {
	absence   absenceWorkflow
	term      *Terminal
	page      service.Page
	logger    *zap.Logger
	now       func() time.Time
	selection *service.SelectionService
	form      models.AbsenceForm
	action    string
	csrf      string
}

// NewAbsenceSession constructs a session bound to the terminal page.
func NewAbsenceSession(absence absenceWorkflow, term *Terminal, page service.Page, logger *zap.Logger) *AbsenceSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceSession{absence: absence, term: term, page: page, logger: logger, now: time.Now}
}

// Load fetches the page and resets the selection to what the portal rendered.
func (s *AbsenceSession) Load(ctx context.Context) error {
	page, err := s.absence.LoadPage(ctx)
	if err != nil {
		return err
	}
	s.selection = service.NewSelectionService(page.Roster)
	s.form = page.Form
	s.action = page.Action
	s.csrf = page.CSRFToken
	return nil
}

// Run loads the page and reads commands until the page is left.
func (s *AbsenceSession) Run(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.show()
	for {
		line, err := s.term.ReadLine("absence> ")
		if err != nil {
			return err
		}
		done, err := s.Exec(ctx, line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Exec runs one command. done reports that the page was left.
func (s *AbsenceSession) Exec(ctx context.Context, line string) (done bool, err error) {
	cmd, arg := splitCommand(line)
	switch cmd {
	case "":
		return false, nil
	case "help", "?":
		s.term.Printf("%s", absenceHelp)
	case "show", "ls":
		s.show()
	case "search", "/":
		s.selection.Filter(arg)
		s.show()
	case "toggle", "x":
		s.toggle(arg)
	case "all":
		switch strings.ToLower(arg) {
		case "on":
			s.panel(s.selection.SelectAll(true))
		case "off":
			s.panel(s.selection.SelectAll(false))
		default:
			s.term.Printf("usage: all on|off\n")
		}
	case "remove", "rm":
		panel, err := s.selection.Remove(arg)
		if err != nil {
			s.term.Printf("%s\n", appErrors.FromError(err).Message)
			return false, nil
		}
		s.panel(panel)
	case "date":
		s.setDate(arg)
	case "day":
		s.setDay(arg)
	case "submit":
		return s.submit(ctx)
	case "cancel":
		s.absence.Cancel(ctx, s.page)
		return true, nil
	case "back", "quit", "exit":
		return true, nil
	default:
		s.term.Printf("unknown command %q, type help\n", cmd)
	}
	return false, nil
}

func (s *AbsenceSession) show() {
	s.term.Printf("\nMark Teachers Absent\n")
	s.term.Printf("Date: %s   Day: %s\n", s.dateText(), s.form.Day)
	if q := s.selection.Query(); q != "" {
		s.term.Printf("Search: %s\n", q)
	}
	var b strings.Builder
	RenderRoster(&b, s.selection.Visible())
	b.WriteString("\n")
	RenderPanel(&b, s.selection.Panel())
	s.term.Printf("%s", b.String())
}

func (s *AbsenceSession) panel(panel models.SelectionPanel) {
	var b strings.Builder
	RenderPanel(&b, panel)
	s.term.Printf("%s", b.String())
}

func (s *AbsenceSession) toggle(id string) {
	for _, row := range s.selection.Rows() {
		if row.ID == id {
			panel, _ := s.selection.Toggle(id, !row.Selected)
			s.panel(panel)
			return
		}
	}
	s.term.Printf("teacher %s is not on the roster\n", id)
}

// setDate mirrors the date control: an unparsable or empty value leaves the day as it was.
func (s *AbsenceSession) setDate(raw string) {
	day, date, ok := service.DayForInput(raw)
	if !ok {
		s.term.Printf("date not recognised, day left at %s\n", s.form.Day)
		return
	}
	s.form.Date = date
	s.form.Day = day
	s.term.Printf("Date: %s   Day: %s\n", s.dateText(), s.form.Day)
}

func (s *AbsenceSession) setDay(raw string) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Day"))
	if len(raw) != 1 || raw[0] < '1' || raw[0] > '5' {
		s.term.Printf("day must be 1 to 5\n")
		return
	}
	s.form.Day = "Day " + raw
	s.term.Printf("Day: %s\n", s.form.Day)
}

func (s *AbsenceSession) submit(ctx context.Context) (bool, error) {
	in := service.SubmissionInput{
		Date:      s.form.Date,
		Day:       s.form.Day,
		Selection: s.selection.Selection(),
		Action:    s.action,
		CSRFToken: s.csrf,
	}
	if in.Date.IsZero() {
		in.Date = s.now()
		if in.Day == "" {
			in.Day = service.DeriveDay(in.Date)
		}
	}

	result, err := s.absence.Submit(ctx, in, s.page)
	switch {
	case errors.Is(err, appErrors.ErrPortalUnauthorized):
		return false, err
	case err != nil:
		// Already shown through the dialog; the page stays for another attempt.
		s.logger.Debug("absence submission did not complete", zap.Error(err))
		return false, nil
	case result.State == models.SubmissionCancelled:
		s.term.Printf("submission cancelled\n")
		return false, nil
	default:
		return result.NavigateTo != "", nil
	}
}

func (s *AbsenceSession) dateText() string {
	if s.form.Date.IsZero() {
		return "(not set)"
	}
	return s.form.Date.Format(models.DateLayout)
}

// State exposes the current form and selection.
func (s *AbsenceSession) State() (models.AbsenceForm, models.SelectionSet) {
	return s.form, s.selection.Selection()
}

func splitCommand(line string) (cmd, arg string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	parts := strings.SplitN(line, " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

func formatErr(err error) string {
	return fmt.Sprintf("error: %s", appErrors.FromError(err).Message)
}
