package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"budgetwize-api/internal/clients"
	"budgetwize-api/internal/payoff"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	exportSetKey = "export_ids"
	exportTTL    = 20 * time.Minute
)

type ExportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	UserID   string    `json:"user_id"`
	Strategy string    `json:"strategy"`
	Progress float64   `json:"progress"`
	FileURL  *string   `json:"file_url"`
	Created  time.Time `json:"created_at"`
}

// PlanBuilder is implemented by DebtService.
type PlanBuilder interface {
	Plan(ctx context.Context, userID, strategyName string) (payoff.Plan, error)
}

type ExportService struct {
	plans   PlanBuilder
	redis   *clients.RedisClient
	storage *clients.StorageClient
	s3      *clients.S3Client
	ws      *clients.WebSocketClient
}

func NewExportService(
	plans PlanBuilder,
	redis *clients.RedisClient,
	storage *clients.StorageClient,
	s3 *clients.S3Client,
	ws *clients.WebSocketClient,
) *ExportService {
	return &ExportService{
		plans:   plans,
		redis:   redis,
		storage: storage,
		s3:      s3,
		ws:      ws,
	}
}

func (s *ExportService) saveStatus(ctx context.Context, st *ExportStatus) error {
	if s.redis == nil {
		return nil
	}

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, st.Key, string(data), exportTTL); err != nil {
		return err
	}
	return s.redis.SAdd(ctx, exportSetKey, st.Key)
}

// StartPlanExport queues a payoff-plan spreadsheet for the user and
// returns the export ID immediately; generation runs in the background
// with progress published to Redis and the user's websocket sessions.
func (s *ExportService) StartPlanExport(ctx context.Context, userID, strategyName string) (string, error) {
	strategy, err := payoff.ParseStrategy(strategyName)
	if err != nil {
		return "", err
	}

	exportID := uuid.NewString()
	status := &ExportStatus{
		Key:      "exports:" + exportID,
		Type:     "payoff_plan",
		UserID:   userID,
		Strategy: string(strategy),
		Progress: 0,
		Created:  time.Now(),
	}
	_ = s.saveStatus(ctx, status)

	go s.runPlanExport(context.Background(), status)

	return exportID, nil
}

func (s *ExportService) runPlanExport(ctx context.Context, status *ExportStatus) {
	fail := func(msg string, err error) {
		log.Printf("plan export %s failed: %s: %v", status.Key, msg, err)
		if s.ws != nil {
			_ = s.ws.NotifyExportFailed(ctx, status.UserID, status.Key, msg)
		}
	}

	plan, err := s.plans.Plan(ctx, status.UserID, status.Strategy)
	if err != nil {
		fail("failed to build payment plan", err)
		return
	}

	f := excelize.NewFile()
	sheet := "Payoff Plan"
	f.SetSheetName(f.GetSheetName(0), sheet)
	_ = f.SetDocProps(&excelize.DocProperties{Creator: fmt.Sprintf("user_%s", status.UserID)})

	headers := []string{"Debt", "Balance", "Monthly Payment", "Months To Payoff", "Total Interest", "Paid Off", "Remaining After Cap"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	total := len(plan.Debts)
	for i, dp := range plan.Debts {
		row := i + 2
		values := []any{dp.DebtName, dp.Balance, dp.MonthlyPayment, dp.MonthsToPayoff, dp.TotalInterest, dp.PaidOff, dp.Remaining}
		if !dp.Amortizes {
			values[3] = "payment below monthly interest"
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if total > 0 {
			progress := math.Round(float64(i+1) / float64(total) * 100.0)
			// 100% is reserved for when the file URL is ready
			if progress >= 100 {
				progress = 95
			}
			status.Progress = progress
			_ = s.saveStatus(ctx, status)
			if s.ws != nil {
				_ = s.ws.NotifyExportProgress(ctx, status.UserID, status.Key, progress, "generating")
			}
		}
	}

	summaryRow := total + 3
	for col, v := range []any{"Totals", plan.TotalBalance, plan.TotalMinimumPayment + plan.TotalExtraPayment} {
		cell, _ := excelize.CoordinatesToCellName(col+1, summaryRow)
		_ = f.SetCellValue(sheet, cell, v)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		fail("failed to generate spreadsheet", err)
		return
	}
	data := buf.Bytes()

	fileName := fmt.Sprintf("payoff_plan_%s_%s.xlsx", status.Strategy, time.Now().Format("20060102_150405"))

	status.Progress = 95
	_ = s.saveStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, status.UserID, status.Key, 95, "uploading")
	}

	var url string
	if s.s3 != nil {
		key, err := s.s3.UploadXLSX(ctx, fileName, data)
		if err != nil {
			fail("failed to upload spreadsheet", err)
			return
		}
		url, err = s.s3.GetTemporaryURL(ctx, key, 48*time.Hour)
		if err != nil {
			fail("failed to presign spreadsheet url", err)
			return
		}
	} else if s.storage != nil {
		saved, err := s.storage.Save(ctx, fileName, data)
		if err != nil {
			fail("failed to store spreadsheet", err)
			return
		}
		url = s.storage.GetURL(saved)
	} else {
		fail("no storage configured", errors.New("both object and local storage are nil"))
		return
	}

	status.FileURL = &url
	status.Progress = 100
	_ = s.saveStatus(ctx, status)

	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, status.UserID, status.Key, 100, "ready")
		_ = s.ws.NotifyExportComplete(ctx, status.UserID, status.Key, url, fileName)
	}
}

// exportToMap is the client-facing shape; the key is the bare export ID,
// without the Redis namespace prefix, so it round-trips through
// GET /export/{export_id}.
func exportToMap(st ExportStatus) map[string]interface{} {
	return map[string]interface{}{
		"key":        strings.TrimPrefix(st.Key, "exports:"),
		"type":       st.Type,
		"user_id":    st.UserID,
		"strategy":   st.Strategy,
		"progress":   st.Progress,
		"file_url":   st.FileURL,
		"created_at": st.Created.Format("2006-01-02 15:04:05"),
	}
}

func (s *ExportService) GetExports(ctx context.Context, userID string) ([]interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	keys, err := s.redis.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get export keys: %w", err)
	}

	var statuses []ExportStatus
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key)
		if err != nil {
			continue
		}
		var st ExportStatus
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			continue
		}
		if st.UserID == userID {
			statuses = append(statuses, st)
		}
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	var exports []interface{}
	for _, st := range statuses {
		exports = append(exports, exportToMap(st))
	}
	return exports, nil
}

func (s *ExportService) GetExport(ctx context.Context, exportID, userID string) (interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	data, err := s.redis.Get(ctx, exportID)
	if err != nil {
		return nil, errors.New("export not found")
	}

	var st ExportStatus
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("failed to parse export status: %w", err)
	}
	if st.UserID != userID {
		return nil, errors.New("export not found")
	}

	return exportToMap(st), nil
}
