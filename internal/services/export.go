package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fivealab/planner/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportTasksCSV writes every task a user has in [from, to] as CSV,
// oldest first, and returns the bytes.
func ExportTasksCSV(db *gorm.DB, userID uint64, from, to time.Time) ([]byte, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	var tasks []models.DailyTask
	err := db.Where("user_id = ? AND date >= ? AND date <= ?",
		userID, dateOnly(from), dateOnly(to)).
		Order("date, subject, id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "subject", "content", "achievement"}); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		record := []string{
			dateOnly(t.Date).Format("2006-01-02"),
			t.Subject,
			t.Content,
			strconv.Itoa(t.Achievement),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SheetSpec describes one worksheet: a title, a header row and data rows.
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// BuildWorkbook assembles an XLSX file from sheet specs with a bold
// header row, an auto-filter and heuristic column widths per sheet.
func BuildWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}

		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		for c := 1; c <= len(s.Header); c++ {
			width := len(s.Header[c-1])
			limit := len(s.Rows)
			if limit > 50 {
				limit = 50
			}
			for r := 0; r < limit; r++ {
				if c-1 < len(s.Rows[r]) {
					if l := len(s.Rows[r][c-1]); l > width {
						width = l
					}
				}
			}
			w := float64(width) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return f, nil
}

// ExportStudentXLSX builds a two-sheet workbook for one student over
// [from, to]: a Tasks sheet and a Journal sheet. It returns the file
// bytes and a filename derived from the student's name and the window.
func ExportStudentXLSX(db *gorm.DB, userID uint64, from, to time.Time) ([]byte, string, error) {
	if to.Before(from) {
		return nil, "", ErrInvalidRange
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	var tasks []models.DailyTask
	err := db.Where("user_id = ? AND date >= ? AND date <= ?",
		userID, dateOnly(from), dateOnly(to)).
		Order("date, subject, id").
		Find(&tasks).Error
	if err != nil {
		return nil, "", err
	}

	var logs []models.DailyLog
	err = db.Where("user_id = ? AND date >= ? AND date <= ?",
		userID, dateOnly(from), dateOnly(to)).
		Order("date").
		Find(&logs).Error
	if err != nil {
		return nil, "", err
	}

	taskRows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		taskRows = append(taskRows, []string{
			dateOnly(t.Date).Format("2006-01-02"),
			t.Subject,
			t.Content,
			strconv.Itoa(t.Achievement),
		})
	}
	logRows := make([][]string, 0, len(logs))
	for _, l := range logs {
		logRows = append(logRows, []string{
			dateOnly(l.Date).Format("2006-01-02"),
			l.Resolution,
			l.Review,
		})
	}

	f, err := BuildWorkbook([]SheetSpec{
		{Title: "Tasks", Header: []string{"Date", "Subject", "Content", "Achievement"}, Rows: taskRows},
		{Title: "Journal", Header: []string{"Date", "Resolution", "Review"}, Rows: logRows},
	})
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("report_%s_%s_%s.xlsx",
		sanitizeFileName(user.RealName),
		dateOnly(from).Format("2006-01-02"),
		dateOnly(to).Format("2006-01-02"))
	return buf.Bytes(), name, nil
}

func colName(n int) string {
	// 1 -> A; 27 -> AA
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = invalidFileRe.ReplaceAllString(s, "_")
	if s == "" {
		return "student"
	}
	return s
}
