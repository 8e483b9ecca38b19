package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agrocoop/quotation-service/internal/apperrors"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

func validQuotationRequest() QuotationRequest {
	return QuotationRequest{
		BranchName:        "Guaxupé",
		Mesoregion:        "3105",
		MemberCode:        "1001",
		MemberName:        "José da Silva",
		CommercialAnalyst: "Ana",
		Salesperson:       "Carlos",
	}
}

func TestQuotationRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*QuotationRequest)
		wantErr string
	}{
		{"valid", func(r *QuotationRequest) {}, ""},
		{"missing branch", func(r *QuotationRequest) { r.BranchName = "" }, "nome_filial"},
		{"soja waives branch", func(r *QuotationRequest) { r.BranchName = ""; r.Crop = "Soja" }, ""},
		{"milho waives branch", func(r *QuotationRequest) { r.BranchName = ""; r.Crop = "Milho" }, ""},
		{"cafe does not waive branch", func(r *QuotationRequest) { r.BranchName = ""; r.Crop = "Café" }, "nome_filial"},
		{"missing member code", func(r *QuotationRequest) { r.MemberCode = " " }, "matricula_cooperado"},
		{"placeholder member name", func(r *QuotationRequest) { r.MemberName = "Cooperado não encontrado" }, "nome_cooperado"},
		{"undefined member name", func(r *QuotationRequest) { r.MemberName = "undefined" }, "nome_cooperado"},
		{"empty member name", func(r *QuotationRequest) { r.MemberName = "" }, "nome_cooperado"},
		{"missing analyst", func(r *QuotationRequest) { r.CommercialAnalyst = "" }, "analista_comercial"},
		{"missing salesperson", func(r *QuotationRequest) { r.Salesperson = "" }, "nome_vendedor"},
		{"unknown status", func(r *QuotationRequest) { r.Status = "Em Aberto" }, "status"},
		{"valid status", func(r *QuotationRequest) { r.Status = workflow.StatusLostQuotation }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validQuotationRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.wantErr, ve.Field)
		})
	}
}

func TestQuotationRequestToModel(t *testing.T) {
	req := validQuotationRequest()
	req.DeliveryDeadline = "2026-05-01"
	req.Products = []ProductRequest{
		{
			Name:             "Adubo",
			Volume:           "100",
			Unit:             "Kg/l",
			UnitPrice:        "R$ 1.234,56",
			TotalWithFreight: "R$ 2.000,00",
			SupplierDeadline: "2026-04-20",
		},
		{Name: "Calcário", Volume: "", UnitPrice: "abc"},
	}

	q := req.toModel()
	require.Equal(t, workflow.StatusCommercialAnalysis, q.Status, "status defaults to commercial analysis")
	require.NotNil(t, q.DeliveryDeadline)
	require.Len(t, q.Products, 2)

	p := q.Products[0]
	require.Equal(t, 100.0, p.Volume)
	require.NotNil(t, p.UnitPrice)
	require.Equal(t, 1234.56, *p.UnitPrice)
	require.Equal(t, 2000.0, *p.TotalWithFreight)
	require.NotNil(t, p.SupplierDeadline)

	p = q.Products[1]
	require.Zero(t, p.Volume)
	require.Nil(t, p.UnitPrice, "garbage money input becomes nil, never an error")
}

func TestQuotationRequestMesoregionFallback(t *testing.T) {
	req := validQuotationRequest()
	req.Mesoregion = ""
	req.MesoregionAlt = "3106"
	require.Equal(t, "3106", req.toModel().MesoregionCode)

	req.Mesoregion = "3105"
	require.Equal(t, "3105", req.toModel().MesoregionCode, "numero_mesorregiao wins over the alternate key")
}

func validResearchRequest() ResearchRequest {
	return ResearchRequest{
		BranchName:      "Alfenas",
		Mesoregion:      "3105",
		MemberCode:      "1002",
		MemberName:      "Maria",
		ProductName:     "Ureia",
		QuotedQuantity:  "10",
		PaymentTerms:    "30 dias",
		CompetitorName:  "Concorrente A",
		CompetitorPrice: "R$ 99,90",
		Status:          workflow.StatusCommercialAnalysis,
	}
}

func TestResearchRequestValidate(t *testing.T) {
	req := validResearchRequest()
	require.NoError(t, req.Validate())

	req.CompetitorPrice = ""
	var ve *apperrors.ValidationError
	require.ErrorAs(t, req.Validate(), &ve)
	require.Equal(t, "valor_concorrente", ve.Field)

	req = validResearchRequest()
	req.Status = workflow.StatusSupplyAnalysis
	require.ErrorAs(t, req.Validate(), &ve)
	require.Equal(t, "status", ve.Field, "supply analysis is not a research status")

	req = validResearchRequest()
	req.QuotedQuantity = "null"
	require.ErrorAs(t, req.Validate(), &ve)
	require.Equal(t, "quantidade_cotada", ve.Field)
}

func TestResearchRequestToModel(t *testing.T) {
	req := validResearchRequest()
	req.CooperativePrice = "R$ 89,90"
	req.Crop = "undefined"

	r := req.toModel()
	require.Equal(t, 99.9, r.CompetitorPrice)
	require.NotNil(t, r.CooperativePrice)
	require.Equal(t, 89.9, *r.CooperativePrice)
	require.Nil(t, r.Crop, "undefined placeholder collapses to nil")
}

func TestOptStr(t *testing.T) {
	require.Nil(t, optStr(""))
	require.Nil(t, optStr("  "))
	require.Nil(t, optStr("undefined"))
	require.Nil(t, optStr("null"))
	require.Equal(t, "x", *optStr(" x "))
}
