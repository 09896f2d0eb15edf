package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

// FilterProfiles applies the recruiter listing filter. A zero filter returns
// profiles unchanged. Otherwise profiles are matched on domain equality,
// case-insensitive name/email substring and any selected skill, then sorted
// by matching score (skills selected) or by score, both descending.
func FilterProfiles(profiles []domain.CandidateProfile, filter domain.ListFilter) []domain.CandidateProfile {
	if filter.IsZero() {
		return profiles
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		if filter.Domain != "" && string(p.Domain) != filter.Domain {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}
		if len(filter.Skills) > 0 {
			matches := countMatches(p.Skills, filter.Skills)
			if matches == 0 {
				continue
			}
			score := int(math.Round(float64(matches) / float64(len(filter.Skills)) * 100))
			p.MatchingScore = &score
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(filter.Skills) > 0 {
			return *out[i].MatchingScore > *out[j].MatchingScore
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// countMatches counts selected skills present in have.
func countMatches(have, selected []string) int {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	n := 0
	for _, s := range selected {
		if _, ok := set[s]; ok {
			n++
		}
	}
	return n
}

var exportColumns = []string{
	"Nom", "Email", "Téléphone", "Date de naissance", "Région", "Domaine",
	"Compétences", "Score", "Vues", "LinkedIn", "GitHub", "CV", "Créé le",
}

func exportRow(p domain.CandidateProfile) []string {
	return []string{
		p.Name,
		p.Email,
		p.Phone,
		p.DateOfBirth,
		p.Region,
		string(p.Domain),
		strings.Join(p.Skills, ", "),
		strconv.FormatFloat(p.Score, 'f', -1, 64),
		strconv.FormatInt(p.CVViews, 10),
		deref(p.LinkedIn),
		deref(p.GitHub),
		deref(p.CVURL),
		p.CreatedAt.Format("2006-01-02"),
	}
}

// Export renders the filtered listing as xlsx (default) or csv and returns the
// payload with a suggested file name.
func (u *candidateUsecase) Export(ctx context.Context, req domain.ExportRequest) ([]byte, string, error) {
	profiles, err := u.List(ctx, req.Filter)
	if err != nil {
		return nil, "", err
	}

	stamp := u.now().Format("20060102_150405")
	var (
		data     []byte
		filename string
	)
	format := strings.ToLower(req.Format)
	if format == "" {
		format = "xlsx"
	}
	switch format {
	case "csv":
		data, err = exportCSV(profiles)
		filename = fmt.Sprintf("candidats_%s.csv", stamp)
	case "xlsx":
		data, err = exportExcel(profiles)
		filename = fmt.Sprintf("candidats_%s.xlsx", stamp)
	default:
		return nil, "", apperror.BadRequest("Format d'export non supporté: " + req.Format)
	}
	if err != nil {
		return nil, "", err
	}

	if caller, ok := domain.IdentityFromContext(ctx); ok {
		u.audit.LogDataExport(ctx, caller.ID, format, len(profiles))
	}
	return data, filename, nil
}

func exportExcel(profiles []domain.CandidateProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Candidats"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, p := range profiles {
		for colIdx, value := range exportRow(p) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
		// Keep score and views numeric for sorting in spreadsheets.
		scoreCell, _ := excelize.CoordinatesToCellName(8, rowIdx+2)
		f.SetCellValue(sheetName, scoreCell, p.Score)
		viewsCell, _ := excelize.CoordinatesToCellName(9, rowIdx+2)
		f.SetCellValue(sheetName, viewsCell, p.CVViews)
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(profiles []domain.CandidateProfile) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if err := w.Write(exportRow(p)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
