package service

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/internal/models"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
	"github.com/noah-isme/sma-substitution-console/pkg/export"
	"github.com/noah-isme/sma-substitution-console/pkg/storage"
)

const (
	planSystemLine         = "School Teacher Substitution System"
	msgNoPeriodSubstitutes = "No substitutions needed for this period."
	msgNoneAssigned        = "No substitutions assigned."
	msgNoSubstitutionData  = "No substitution data available."
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	slashOrSpaceRun = regexp.MustCompile(`[/\s]`)
	unsafeNameChar  = regexp.MustCompile(`[/\\:*?"<>|\x00-\x1f]`)
)

type planSource interface {
	Plan(ctx context.Context, date string) (*models.SubstitutionPlan, error)
}

type teacherPages interface {
	WeeklySchedule(ctx context.Context) (*models.TeacherTable, error)
	Substitutions(ctx context.Context) (*models.TeacherTable, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportRequest selects the page to print and the output format.
type ExportRequest struct {
	Kind   models.ExportKind   `json:"kind" validate:"required,oneof=substitution-plan schedule substitutions"`
	Format models.ExportFormat `json:"format" validate:"omitempty,oneof=pdf csv"`
	// Date applies to the substitution plan only.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ExportService prints the portal's rendered tables to PDF or CSV files in local storage.
type ExportService struct {
	plans   planSource
	teacher teacherPages
	storage fileStorage
	signer  *storage.SignedURLSigner
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. signer may be nil when no download links
// are handed out.
func NewExportService(plans planSource, teacher teacherPages, files fileStorage, signer *storage.SignedURLSigner, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		plans:   plans,
		teacher: teacher,
		storage: files,
		signer:  signer,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		now:     time.Now,
	}
}

// Generate renders the requested page and stores the file.
func (s *ExportService) Generate(ctx context.Context, req ExportRequest) (*models.ExportResult, error) {
	if req.Format == "" {
		req.Format = models.ExportFormatPDF
	}
	doc, baseName, err := s.buildDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch req.Format {
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(doc)
	case models.ExportFormatCSV:
		data := export.Flatten(doc)
		if len(data.Headers) == 0 {
			return nil, appErrors.ErrExportUnavailable
		}
		payload, err = s.csv.Render(data)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	fileName := fmt.Sprintf("%s.%s", baseName, req.Format)
	relPath, err := s.storage.Save(id+"/"+fileName, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	result := &models.ExportResult{
		ID:       id,
		Kind:     req.Kind,
		Format:   req.Format,
		FileName: fileName,
		Path:     relPath,
		Size:     len(payload),
	}
	if s.signer != nil {
		token, expiresAt, err := s.signer.Generate(id, relPath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
		}
		result.Token = token
		result.ExpiresAt = &expiresAt
	}
	s.logger.Info("export generated",
		zap.String("export_id", id),
		zap.String("kind", string(req.Kind)),
		zap.String("file", fileName),
		zap.Int("bytes", len(payload)),
	)
	return result, nil
}

// Resolve validates a download token.
func (s *ExportService) Resolve(token string) (storage.Grant, error) {
	if s.signer == nil {
		return storage.Grant{}, appErrors.Clone(appErrors.ErrNotFound, "downloads are disabled")
	}
	grant, err := s.signer.Parse(token)
	if err != nil {
		return storage.Grant{}, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export link is invalid or expired")
	}
	return grant, nil
}

// Open returns a handle to a stored export.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	return file, nil
}

// Cleanup removes exports older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildDocument(ctx context.Context, req ExportRequest) (export.Document, string, error) {
	switch req.Kind {
	case models.ExportSubstitutionPlan:
		return s.planDocument(ctx, req.Date)
	case models.ExportTeacherSchedule:
		return s.scheduleDocument(ctx)
	case models.ExportTeacherSubstitutions:
		return s.substitutionsDocument(ctx)
	default:
		return export.Document{}, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export kind %s", req.Kind))
	}
}

func (s *ExportService) planDocument(ctx context.Context, date string) (export.Document, string, error) {
	if date != "" {
		if _, _, ok := DayForInput(date); !ok {
			return export.Document{}, "", appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
		}
	}
	plan, err := s.plans.Plan(ctx, date)
	if err != nil {
		return export.Document{}, "", wrapPortal(err, "failed to load substitution plan")
	}
	dateStr := plan.Date
	if dateStr == "" {
		dateStr = s.now().Format(models.DateLayout)
	}

	doc := export.Document{
		Title:       "Substitution Plan",
		Subtitles:   []string{"Date: " + dateStr, planSystemLine},
		Orientation: export.OrientationPortrait,
		PageNumbers: true,
	}
	for _, period := range plan.Periods {
		section := export.Section{Title: period.Title, EmptyText: msgNoPeriodSubstitutes}
		if period.Table != nil {
			section.Data = dataset(period.Table.WithoutColumn(models.ActionColumn))
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc, "substitution_plan_" + dateStr, nil
}

func (s *ExportService) scheduleDocument(ctx context.Context) (export.Document, string, error) {
	page, err := s.teacher.WeeklySchedule(ctx)
	if err != nil {
		return export.Document{}, "", wrapPortal(err, "failed to load schedule")
	}
	doc := export.Document{
		Title:       "Weekly Schedule",
		Subtitles:   []string{"Teacher: " + page.TeacherName, "Generated on: " + s.now().Format(models.DateLayout)},
		Orientation: export.OrientationLandscape,
		PageNumbers: true,
		FontSize:    9,
	}
	if page.Table != nil {
		doc.Sections = []export.Section{{Data: dataset(*page.Table)}}
	}
	return doc, "schedule_" + fileNamePart(page.TeacherName), nil
}

func (s *ExportService) substitutionsDocument(ctx context.Context) (export.Document, string, error) {
	page, err := s.teacher.Substitutions(ctx)
	if err != nil {
		return export.Document{}, "", wrapPortal(err, "failed to load substitutions")
	}
	dateText := page.DateText
	if dateText == "" {
		dateText = s.now().Format(models.DateLayout)
	}
	doc := export.Document{
		Title:       "Substitution Details",
		Subtitles:   []string{"Teacher: " + page.TeacherName, "Date: " + dateText},
		Orientation: export.OrientationPortrait,
	}
	if page.Table == nil {
		doc.Sections = []export.Section{{EmptyText: msgNoSubstitutionData}}
	} else {
		doc.Sections = []export.Section{{
			Data:      dataset(page.Table.WithoutColumn(models.ActionColumn)),
			EmptyText: msgNoneAssigned,
		}}
	}
	name := fmt.Sprintf("substitutions_%s_%s",
		fileNamePart(page.TeacherName),
		slashOrSpaceRun.ReplaceAllString(dateText, "-"),
	)
	return doc, name, nil
}

// fileNamePart turns scraped text into a single path segment.
func fileNamePart(raw string) string {
	return unsafeNameChar.ReplaceAllString(whitespaceRun.ReplaceAllString(strings.TrimSpace(raw), "_"), "-")
}

func dataset(table models.TableSnapshot) export.Dataset {
	return export.Dataset{Headers: table.Headers, Rows: table.Records()}
}

// SanitizeFileName keeps a download name header-safe.
func SanitizeFileName(raw string) string {
	replacer := strings.NewReplacer("\"", "", "\\", "-", "\n", "", "\r", "")
	return replacer.Replace(raw)
}
