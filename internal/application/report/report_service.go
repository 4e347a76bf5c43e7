package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
)

// ReportService provides read-only views over invoices: a per-month VAT
// summary and the client/project archive tree.
type ReportService struct {
	invoiceRepo invoicing.InvoiceRepository
	clientRepo  invoicing.ClientRepository
	projectRepo invoicing.ProjectRepository
	profileRepo invoicing.CompanyProfileRepository
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	invoiceRepo invoicing.InvoiceRepository,
	clientRepo invoicing.ClientRepository,
	projectRepo invoicing.ProjectRepository,
	profileRepo invoicing.CompanyProfileRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// VATSummary aggregates issued invoices of a year into calendar months.
// Draft and cancelled invoices do not contribute.
func (s *ReportService) VATSummary(ctx context.Context, tenantID uuid.UUID, year int) (*VATSummaryResponse, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rates := profile.MileageRates()

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	invoices, err := s.invoiceRepo.FindAll(ctx, tenantID, invoicing.InvoiceFilter{
		FromDate: &from,
		ToDate:   &to,
	})
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[string]*VATPeriodLine)
	resp := &VATSummaryResponse{
		Year:       year,
		NetTotal:   decimal.Zero,
		VATAmount:  decimal.Zero,
		GrossTotal: decimal.Zero,
	}
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == invoicing.InvoiceStatusDraft || inv.Status == invoicing.InvoiceStatusCancelled {
			continue
		}

		period := fmt.Sprintf("%04d-%02d", inv.Date.Year(), int(inv.Date.Month()))
		line, ok := byPeriod[period]
		if !ok {
			line = &VATPeriodLine{
				Period:     period,
				NetTotal:   decimal.Zero,
				VATAmount:  decimal.Zero,
				GrossTotal: decimal.Zero,
			}
			byPeriod[period] = line
		}

		net := inv.NetTotal(rates)
		vat := inv.VATAmount(rates)
		line.Invoices++
		line.NetTotal = line.NetTotal.Add(net)
		line.VATAmount = line.VATAmount.Add(vat)
		line.GrossTotal = line.GrossTotal.Add(net).Add(vat)

		resp.NetTotal = resp.NetTotal.Add(net)
		resp.VATAmount = resp.VATAmount.Add(vat)
		resp.GrossTotal = resp.GrossTotal.Add(net).Add(vat)
	}

	resp.Lines = make([]VATPeriodLine, 0, len(byPeriod))
	for _, line := range byPeriod {
		resp.Lines = append(resp.Lines, *line)
	}
	sort.Slice(resp.Lines, func(i, j int) bool {
		return resp.Lines[i].Period < resp.Lines[j].Period
	})

	return resp, nil
}

// Archive builds the client -> project -> invoices tree. Only numbered
// invoices appear; drafts without a project have no place in the tree.
func (s *ReportService) Archive(ctx context.Context, tenantID uuid.UUID) (*ArchiveResponse, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rates := profile.MileageRates()

	clients, err := s.clientRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := &ArchiveResponse{Clients: make([]ArchiveClient, 0, len(clients))}
	for i := range clients {
		client := &clients[i]

		projects, err := s.projectRepo.FindByClient(ctx, tenantID, client.ID)
		if err != nil {
			return nil, err
		}

		archiveClient := ArchiveClient{
			ID:       client.ID,
			Name:     client.Name,
			Projects: make([]ArchiveProject, 0, len(projects)),
		}
		for j := range projects {
			project := &projects[j]

			invoices, err := s.invoiceRepo.FindByProject(ctx, tenantID, project.ID)
			if err != nil {
				return nil, err
			}

			archiveProject := ArchiveProject{
				ID:       project.ID,
				Name:     project.Name,
				Invoices: make([]ArchiveInvoice, 0, len(invoices)),
			}
			for k := range invoices {
				inv := &invoices[k]
				if !inv.HasNumber() {
					continue
				}
				archiveProject.Invoices = append(archiveProject.Invoices, ArchiveInvoice{
					ID:         inv.ID,
					Number:     inv.Number,
					Date:       inv.Date,
					Status:     string(inv.Status),
					GrossTotal: inv.GrossTotal(rates),
				})
			}
			archiveClient.Projects = append(archiveClient.Projects, archiveProject)
		}
		resp.Clients = append(resp.Clients, archiveClient)
	}

	return resp, nil
}
