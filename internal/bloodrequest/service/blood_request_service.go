package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	activityDomain "github.com/ridloal/blood-portal/internal/activity/domain"
	activityService "github.com/ridloal/blood-portal/internal/activity/service"
	allocationDomain "github.com/ridloal/blood-portal/internal/allocation/domain"
	allocationService "github.com/ridloal/blood-portal/internal/allocation/service"
	"github.com/ridloal/blood-portal/internal/bloodrequest/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidBloodType = errors.New("blood type must be one of A, B, AB, O")
	ErrInvalidRhesus    = errors.New("rhesus must be + or -")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidUrgency   = errors.New("urgency must be normal, urgent or emergency")
	ErrReasonRequired   = errors.New("a reason is required")
)

const resourceType = "blood_request"

// SummaryProvider is the per-request availability source used to classify rows.
type SummaryProvider interface {
	GetSummary(ctx context.Context, institutionID, requestID string) (*allocationDomain.AllocationSummary, error)
}

type BloodRequestService interface {
	List(ctx context.Context, sess *session.Session, filter domain.ListFilter) (*domain.ListResult, error)
	Get(ctx context.Context, sess *session.Session, id string) (*domain.BloodRequest, error)
	Create(ctx context.Context, sess *session.Session, req domain.CreateBloodRequest) (*domain.BloodRequest, *apiclient.MutationResult, error)
	Approve(ctx context.Context, sess *session.Session, id string) (*apiclient.MutationResult, error)
	Reject(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error)
	Cancel(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error)
	Export(ctx context.Context, sess *session.Session, filter domain.ListFilter) (*excelize.File, string, error)
}

type bloodRequestServiceImpl struct {
	client    BloodRequestClient
	summaries SummaryProvider
	activity  activityService.Recorder
}

func NewBloodRequestService(bc BloodRequestClient, sp SummaryProvider, ar activityService.Recorder) BloodRequestService {
	return &bloodRequestServiceImpl{
		client:    bc,
		summaries: sp,
		activity:  ar,
	}
}

func (s *bloodRequestServiceImpl) List(ctx context.Context, sess *session.Session, filter domain.ListFilter) (*domain.ListResult, error) {
	rows, err := s.client.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	page, pagination := Paginate(Filter(rows, filter), filter.Page, filter.Limit)
	if sess.InstitutionType == session.TypePMI {
		s.classify(ctx, sess.InstitutionID, page)
	}
	return &domain.ListResult{Items: page, Pagination: pagination}, nil
}

// classify fills Classification for open rows, one summary request per row.
func (s *bloodRequestServiceImpl) classify(ctx context.Context, institutionID string, rows []domain.BloodRequest) {
	// Fan-out: satu request summary per baris secara concurrent
	var wg sync.WaitGroup
	type result struct {
		index          int
		classification allocationDomain.Classification
	}
	resultsChan := make(chan result, len(rows))

	for i, r := range rows {
		if r.Status.IsClosed() {
			continue
		}
		wg.Add(1)
		go func(idx int, requestID string, quantity int) {
			defer wg.Done()
			summary, err := s.summaries.GetSummary(ctx, institutionID, requestID)
			if err != nil {
				// Baris tetap tampil, tombolnya jatuh ke campaign
				logger.Error("ListBloodRequests: failed to get allocation summary for "+requestID, err, nil)
				resultsChan <- result{index: idx, classification: allocationDomain.ClassCampaignNeeded}
				return
			}
			resultsChan <- result{index: idx, classification: allocationService.Classify(quantity, summary)}
		}(i, r.ID, r.Quantity)
	}

	wg.Wait()
	close(resultsChan)

	// Fan-in
	for res := range resultsChan {
		rows[res.index].Classification = res.classification
	}
}

func (s *bloodRequestServiceImpl) Get(ctx context.Context, sess *session.Session, id string) (*domain.BloodRequest, error) {
	r, err := s.client.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.InstitutionType == session.TypePMI && !r.Status.IsClosed() {
		rows := []domain.BloodRequest{*r}
		s.classify(ctx, sess.InstitutionID, rows)
		r = &rows[0]
	}
	return r, nil
}

func (s *bloodRequestServiceImpl) Create(ctx context.Context, sess *session.Session, req domain.CreateBloodRequest) (*domain.BloodRequest, *apiclient.MutationResult, error) {
	if err := validateCreate(&req); err != nil {
		return nil, nil, err
	}
	req.HospitalID = sess.InstitutionID

	created, result, err := s.client.Create(ctx, req)
	resourceID := ""
	if created != nil {
		resourceID = created.ID
	}
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionRequestCreated, resourceType, resourceID, result, err)
	if err != nil {
		return nil, result, err
	}
	logger.Info("BloodRequestService: request %s created by %s", created.ID, sess.InstitutionID)
	return created, result, nil
}

func validateCreate(req *domain.CreateBloodRequest) error {
	req.BloodType = strings.ToUpper(strings.TrimSpace(req.BloodType))
	valid := false
	for _, bt := range domain.BloodTypes {
		if bt == req.BloodType {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidBloodType
	}

	req.Rhesus = strings.TrimSpace(req.Rhesus)
	if req.Rhesus != "+" && req.Rhesus != "-" {
		return ErrInvalidRhesus
	}
	if req.Quantity < 1 {
		return ErrInvalidQuantity
	}

	switch req.Urgency {
	case "":
		req.Urgency = domain.UrgencyNormal
	case domain.UrgencyNormal, domain.UrgencyUrgent, domain.UrgencyEmergency:
	default:
		return ErrInvalidUrgency
	}
	req.PatientName = strings.TrimSpace(req.PatientName)
	req.Notes = strings.TrimSpace(req.Notes)
	return nil
}

func (s *bloodRequestServiceImpl) Approve(ctx context.Context, sess *session.Session, id string) (*apiclient.MutationResult, error) {
	result, err := s.client.Approve(ctx, id)
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionRequestApproved, resourceType, id, result, err)
	return result, err
}

func (s *bloodRequestServiceImpl) Reject(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	result, err := s.client.Reject(ctx, id, reason)
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionRequestRejected, resourceType, id, result, err)
	return result, err
}

func (s *bloodRequestServiceImpl) Cancel(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	result, err := s.client.Cancel(ctx, id, reason)
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionRequestCancelled, resourceType, id, result, err)
	return result, err
}

var exportHeaders = []string{
	"No", "Created", "Hospital", "Patient", "Blood Type", "Quantity",
	"Urgency", "Status", "Classification", "Notes",
}

// Export writes every row matching filter (no pagination) to a single sheet.
func (s *bloodRequestServiceImpl) Export(ctx context.Context, sess *session.Session, filter domain.ListFilter) (*excelize.File, string, error) {
	rows, err := s.client.List(ctx, sess)
	if err != nil {
		return nil, "", err
	}
	rows = Filter(rows, filter)
	if sess.InstitutionType == session.TypePMI {
		s.classify(ctx, sess.InstitutionID, rows)
	}

	f := excelize.NewFile()
	sheet := "Blood Requests"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	// Header: bold
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F4CCCC"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	totalUnits := 0
	for idx, r := range rows {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), idx+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.HospitalName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.PatientName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.BloodType+r.Rhesus)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), string(r.Urgency))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), string(r.Status))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), string(r.Classification))
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), r.Notes)
		totalUnits += r.Quantity
	}

	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("%d requests", len(rows)))
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), totalUnits)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("J%d", summaryRow), summaryStyle)

	colWidths := []float64{6, 18, 28, 24, 10, 10, 12, 16, 16, 36}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("blood_requests_%s_%s.xlsx", sess.InstitutionID, time.Now().Format("20060102"))
	return f, filename, nil
}
