package console

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	"github.com/noah-isme/sma-substitution-console/internal/service"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
)

const shellHelp = `Commands:
  absence                                   open the absence page
  plan [YYYY-MM-DD]                         show the substitution plan
  candidates <id>                           teachers available for a substitution
  edit <id> <teacher-id> <reason>           reassign a substitution
  approve <id> | reject <id>                decide a transfer request
  transfer <id> <teacher-id> [--all] <reason>
                                            request a transfer of your substitution
  schedule | substitutions                  show your teacher pages
  export <substitution-plan|schedule|substitutions> [pdf|csv] [YYYY-MM-DD]
  theme [toggle|light|dark]                 show or change the theme
  quit
`

type substitutionWorkflow interface {
	Plan(ctx context.Context, date string) (*models.SubstitutionPlan, error)
	Candidates(ctx context.Context, id string) ([]models.SubstitutionCandidate, error)
	Save(ctx context.Context, id string, edit models.SubstitutionEdit, page service.Page) (*models.ActionResult, error)
}

type transferWorkflow interface {
	Decide(ctx context.Context, id string, action models.TransferAction, page service.Page) (*models.ActionResult, error)
	Request(ctx context.Context, req models.TransferRequest, page service.Page) (*models.ActionResult, error)
}

type themePreference interface {
	Current(ctx context.Context) (models.ThemeState, error)
	Toggle(ctx context.Context) (models.ThemeState, error)
	Set(ctx context.Context, theme models.Theme) (models.ThemeState, error)
}

type exportGenerator interface {
	Generate(ctx context.Context, req service.ExportRequest) (*models.ExportResult, error)
}

type teacherPages interface {
	WeeklySchedule(ctx context.Context) (*models.TeacherTable, error)
	Substitutions(ctx context.Context) (*models.TeacherTable, error)
}

// Deps are the workflows the shell drives.
type Deps struct {
	Absence       absenceWorkflow
	Substitutions substitutionWorkflow
	Transfers     transferWorkflow
	Theme         themePreference
	Exports       exportGenerator
	Teacher       teacherPages
}

// Shell is the top-level prompt of the terminal client.
type Shell struct {
	deps   Deps
	term   *Terminal
	page   service.Page
	logger *zap.Logger
}

// NewShell constructs a shell whose page is backed by term.
func NewShell(deps Deps, term *Terminal, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		deps:   deps,
		term:   term,
		page:   service.Page{Dialog: term, Native: NewNative(term), Navigator: term},
		logger: logger,
	}
}

// Run reads commands until quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	if state, err := s.deps.Theme.Current(ctx); err == nil {
		s.term.SetTheme(state.Theme)
	}
	s.term.Printf("Teacher Substitution Console. Type help for commands.\n")
	for {
		line, err := s.term.ReadLine("subctl> ")
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs one command line.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg := splitCommand(line)
	switch cmd {
	case "":
	case "help", "?":
		s.term.Printf("%s", shellHelp)
	case "quit", "exit":
		return true, nil
	case "absence":
		session := NewAbsenceSession(s.deps.Absence, s.term, s.page, s.logger)
		if err := session.Run(ctx); err != nil && !errors.Is(err, ErrInputClosed) {
			s.term.Printf("%s\n", formatErr(err))
		}
	case "plan":
		s.plan(ctx, arg)
	case "candidates":
		s.candidates(ctx, arg)
	case "edit":
		s.edit(ctx, arg)
	case "approve":
		s.decide(ctx, arg, models.TransferApprove)
	case "reject":
		s.decide(ctx, arg, models.TransferReject)
	case "transfer":
		s.transfer(ctx, arg)
	case "schedule":
		s.teacherTable(ctx, s.deps.Teacher.WeeklySchedule)
	case "substitutions":
		s.teacherTable(ctx, s.deps.Teacher.Substitutions)
	case "export":
		s.export(ctx, arg)
	case "theme":
		s.theme(ctx, arg)
	default:
		s.term.Printf("unknown command %q, type help\n", cmd)
	}
	return false, nil
}

func (s *Shell) plan(ctx context.Context, date string) {
	plan, err := s.deps.Substitutions.Plan(ctx, date)
	if err != nil {
		s.term.Printf("%s\n", formatErr(err))
		return
	}
	var b strings.Builder
	RenderPlan(&b, plan)
	s.term.Printf("%s", b.String())
}

func (s *Shell) candidates(ctx context.Context, id string) {
	if id == "" {
		s.term.Printf("usage: candidates <id>\n")
		return
	}
	candidates, err := s.deps.Substitutions.Candidates(ctx, id)
	if err != nil {
		s.term.Printf("%s\n", formatErr(err))
		return
	}
	if len(candidates) == 0 {
		s.term.Printf("no teachers available\n")
		return
	}
	for _, c := range candidates {
		s.term.Printf("  %d  %s\n", c.ID, c.Label())
	}
}

func (s *Shell) edit(ctx context.Context, arg string) {
	fields := strings.Fields(arg)
	if len(fields) < 1 {
		s.term.Printf("usage: edit <id> <teacher-id> <reason>\n")
		return
	}
	edit := models.SubstitutionEdit{}
	if len(fields) > 1 {
		edit.NewTeacherID = fields[1]
	}
	if len(fields) > 2 {
		edit.Reason = strings.Join(fields[2:], " ")
	}
	s.report(s.deps.Substitutions.Save(ctx, fields[0], edit, s.page))
}

func (s *Shell) decide(ctx context.Context, id string, action models.TransferAction) {
	if id == "" {
		s.term.Printf("usage: %s <id>\n", action)
		return
	}
	s.report(s.deps.Transfers.Decide(ctx, id, action, s.page))
}

func (s *Shell) transfer(ctx context.Context, arg string) {
	fields := strings.Fields(arg)
	if len(fields) < 1 {
		s.term.Printf("usage: transfer <id> <teacher-id> [--all] <reason>\n")
		return
	}
	req := models.TransferRequest{SubstitutionID: fields[0]}
	rest := fields[1:]
	if len(rest) > 0 {
		req.NewTeacherID = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == "--all" {
		req.TransferAll = true
		rest = rest[1:]
	}
	req.Reason = strings.Join(rest, " ")
	s.report(s.deps.Transfers.Request(ctx, req, s.page))
}

func (s *Shell) teacherTable(ctx context.Context, load func(context.Context) (*models.TeacherTable, error)) {
	page, err := load(ctx)
	if err != nil {
		s.term.Printf("%s\n", formatErr(err))
		return
	}
	s.term.Printf("%s\n", page.TeacherName)
	if page.DateText != "" {
		s.term.Printf("%s\n", page.DateText)
	}
	if page.Table == nil {
		s.term.Printf("No substitution data available.\n")
		return
	}
	var b strings.Builder
	RenderTable(&b, page.Table.WithoutColumn(models.ActionColumn))
	s.term.Printf("%s", b.String())
}

func (s *Shell) export(ctx context.Context, arg string) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		s.term.Printf("usage: export <substitution-plan|schedule|substitutions> [pdf|csv] [YYYY-MM-DD]\n")
		return
	}
	req := service.ExportRequest{Kind: models.ExportKind(fields[0]), Format: models.ExportFormatPDF}
	for _, f := range fields[1:] {
		switch strings.ToLower(f) {
		case "pdf", "csv":
			req.Format = models.ExportFormat(strings.ToLower(f))
		default:
			req.Date = f
		}
	}
	result, err := s.deps.Exports.Generate(ctx, req)
	if err != nil {
		s.term.Printf("%s\n", formatErr(err))
		return
	}
	s.term.Printf("saved %s (%d bytes) to %s\n", result.FileName, result.Size, result.Path)
}

func (s *Shell) theme(ctx context.Context, arg string) {
	var (
		state models.ThemeState
		err   error
	)
	switch strings.ToLower(arg) {
	case "":
		state, err = s.deps.Theme.Current(ctx)
	case "toggle":
		state, err = s.deps.Theme.Toggle(ctx)
	default:
		state, err = s.deps.Theme.Set(ctx, models.Theme(strings.ToLower(arg)))
	}
	if err != nil {
		s.term.Printf("%s\n", formatErr(err))
		return
	}
	s.term.SetTheme(state.Theme)
	s.term.Printf("theme: %s (toggle: %s)\n", state.Theme, state.ToggleLabel)
}

// report prints workflow errors the dialogs did not already cover.
func (s *Shell) report(_ *models.ActionResult, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, appErrors.ErrPortalUnauthorized) {
		s.term.Printf("%s\n", formatErr(err))
		return
	}
	s.logger.Debug("workflow finished with error", zap.Error(err))
}
