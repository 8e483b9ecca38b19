package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agrocoop/quotation-service/internal/apperrors"
	"github.com/agrocoop/quotation-service/internal/database"
	"github.com/agrocoop/quotation-service/internal/parse"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

// invalidMemberNames are placeholder values the lookup widget leaves behind
// when the member search fails; they must never be stored as a member name.
var invalidMemberNames = map[string]bool{
	"Cooperado não encontrado": true,
	"Erro na busca":            true,
	"undefined":                true,
	"null":                     true,
	"":                         true,
}

// cropWaivesBranch reports whether the crop relaxes the branch requirement
func cropWaivesBranch(crop string) bool {
	return crop == "Soja" || crop == "Milho"
}

// ProductRequest is one quotation line item as submitted by the client. Money
// and date fields arrive as locale-formatted strings and are parsed leniently.
type ProductRequest struct {
	SKU              string `json:"sku_produto"`
	Name             string `json:"nome_produto"`
	Volume           string `json:"volume"`
	Unit             string `json:"unidade_medida"`
	UnitPrice        string `json:"preco_unitario"`
	Total            string `json:"valor_total"`
	Supplier         string `json:"fornecedor"`
	CostPrice        string `json:"preco_custo"`
	Freight          string `json:"valor_frete"`
	SupplierDeadline string `json:"prazo_entrega_fornecedor"`
	TotalWithFreight string `json:"valor_total_com_frete"`
}

func (p *ProductRequest) toModel() database.Product {
	return database.Product{
		SKU:              optStr(p.SKU),
		Name:             strings.TrimSpace(p.Name),
		Volume:           parse.Float(p.Volume),
		Unit:             strings.TrimSpace(p.Unit),
		UnitPrice:        parse.MoneyPtr(p.UnitPrice),
		Total:            parse.MoneyPtr(p.Total),
		Supplier:         optStr(p.Supplier),
		CostPrice:        parse.MoneyPtr(p.CostPrice),
		Freight:          parse.MoneyPtr(p.Freight),
		SupplierDeadline: parse.Date(p.SupplierDeadline),
		TotalWithFreight: parse.MoneyPtr(p.TotalWithFreight),
	}
}

// QuotationRequest is the typed create/update payload. The field set is
// closed; the client submits it as the "payload" part of a multipart form
// (attachments alongside) or as a plain JSON body.
type QuotationRequest struct {
	BranchName        string           `json:"nome_filial"`
	Mesoregion        string           `json:"numero_mesorregiao"`
	MesoregionAlt     string           `json:"mesoregiao"`
	MemberCode        string           `json:"matricula_cooperado"`
	MemberName        string           `json:"nome_cooperado"`
	Status            string           `json:"status"`
	CommercialAnalyst string           `json:"analista_comercial"`
	Buyer             string           `json:"comprador"`
	Notes             string           `json:"observacoes"`
	PaymentTerms      string           `json:"forma_pagamento"`
	DeliveryDeadline  string           `json:"prazo_entrega"`
	Crop              string           `json:"cultura"`
	LostSaleReason    string           `json:"motivo_venda_perdida"`
	Salesperson       string           `json:"nome_vendedor"`
	Products          []ProductRequest `json:"produtos"`
}

// Validate checks the required fields. The branch requirement is waived for
// the Soja and Milho crops, whose sales are not tied to a branch.
func (r *QuotationRequest) Validate() error {
	if !cropWaivesBranch(strings.TrimSpace(r.Crop)) && strings.TrimSpace(r.BranchName) == "" {
		return apperrors.NewValidation("nome_filial",
			"A filial é obrigatória para culturas que não sejam Soja ou Milho")
	}
	if strings.TrimSpace(r.MemberCode) == "" {
		return apperrors.NewValidation("matricula_cooperado", "A matrícula do cooperado é obrigatória")
	}
	if invalidMemberNames[strings.TrimSpace(r.MemberName)] {
		return apperrors.NewValidation("nome_cooperado",
			"O nome do cooperado não pode estar vazio ou conter valores inválidos")
	}
	if strings.TrimSpace(r.CommercialAnalyst) == "" {
		return apperrors.NewValidation("analista_comercial", "O analista comercial é obrigatório")
	}
	if strings.TrimSpace(r.Salesperson) == "" {
		return apperrors.NewValidation("nome_vendedor", "O nome do vendedor é obrigatório")
	}
	if r.Status != "" && !workflow.ValidQuotationStatus(r.Status) {
		return apperrors.NewValidation("status", "Status inválido para cotação")
	}
	return nil
}

func (r *QuotationRequest) toModel() *database.Quotation {
	status := r.Status
	if status == "" {
		status = workflow.StatusCommercialAnalysis
	}
	meso := strings.TrimSpace(r.Mesoregion)
	if meso == "" {
		meso = strings.TrimSpace(r.MesoregionAlt)
	}

	q := &database.Quotation{
		BranchName:        strings.TrimSpace(r.BranchName),
		MesoregionCode:    meso,
		MemberCode:        strings.TrimSpace(r.MemberCode),
		MemberName:        strings.TrimSpace(r.MemberName),
		Status:            status,
		CommercialAnalyst: optStr(r.CommercialAnalyst),
		Buyer:             optStr(r.Buyer),
		Notes:             optStr(r.Notes),
		PaymentTerms:      optStr(r.PaymentTerms),
		DeliveryDeadline:  parse.Date(r.DeliveryDeadline),
		Crop:              optStr(r.Crop),
		LostSaleReason:    optStr(r.LostSaleReason),
		Salesperson:       strings.TrimSpace(r.Salesperson),
	}
	for i := range r.Products {
		q.Products = append(q.Products, r.Products[i].toModel())
	}
	return q
}

// ResearchRequest is the typed market research payload. An id selects update;
// a missing or zero id creates a new record.
type ResearchRequest struct {
	ID                int64  `json:"id"`
	BranchName        string `json:"nome_filial"`
	Mesoregion        string `json:"numero_mesorregiao"`
	MemberCode        string `json:"matricula_cooperado"`
	MemberName        string `json:"nome_cooperado"`
	ProductCode       string `json:"codigo_produto"`
	ProductName       string `json:"nome_produto"`
	QuotedQuantity    string `json:"quantidade_cotada"`
	PaymentTerms      string `json:"forma_pagamento"`
	CompetitorName    string `json:"nome_concorrente"`
	CompetitorPrice   string `json:"valor_concorrente"`
	CooperativePrice  string `json:"valor_cooperativa"`
	CommercialAnalyst string `json:"analista_comercial"`
	Notes             string `json:"observacoes"`
	Status            string `json:"status"`
	Crop              string `json:"cultura"`
	Salesperson       string `json:"nome_vendedor"`
	Buyer             string `json:"comprador"`
	DeliveryDeadline  string `json:"prazo_entrega"`
}

// Validate checks the research required fields
func (r *ResearchRequest) Validate() error {
	required := []struct {
		field, value string
	}{
		{"nome_filial", r.BranchName},
		{"numero_mesorregiao", r.Mesoregion},
		{"matricula_cooperado", r.MemberCode},
		{"nome_cooperado", r.MemberName},
		{"nome_produto", r.ProductName},
		{"forma_pagamento", r.PaymentTerms},
		{"nome_concorrente", r.CompetitorName},
		{"status", r.Status},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.NewValidation(f.field, "Preencha todos os campos obrigatórios.")
		}
	}
	if parse.MoneyPtr(r.QuotedQuantity) == nil {
		return apperrors.NewValidation("quantidade_cotada", "Preencha todos os campos obrigatórios.")
	}
	if parse.MoneyPtr(r.CompetitorPrice) == nil {
		return apperrors.NewValidation("valor_concorrente", "Preencha todos os campos obrigatórios.")
	}
	if !workflow.ValidResearchStatus(r.Status) {
		return apperrors.NewValidation("status", "Status inválido para pesquisa")
	}
	return nil
}

func (r *ResearchRequest) toModel() *database.MarketResearch {
	m := &database.MarketResearch{
		ID:                r.ID,
		BranchName:        strings.TrimSpace(r.BranchName),
		MesoregionCode:    strings.TrimSpace(r.Mesoregion),
		MemberCode:        strings.TrimSpace(r.MemberCode),
		MemberName:        strings.TrimSpace(r.MemberName),
		ProductCode:       optStr(r.ProductCode),
		ProductName:       strings.TrimSpace(r.ProductName),
		PaymentTerms:      strings.TrimSpace(r.PaymentTerms),
		CompetitorName:    strings.TrimSpace(r.CompetitorName),
		CooperativePrice:  parse.MoneyPtr(r.CooperativePrice),
		CommercialAnalyst: optStr(r.CommercialAnalyst),
		Notes:             optStr(r.Notes),
		Status:            r.Status,
		Crop:              optStr(r.Crop),
		Salesperson:       optStr(r.Salesperson),
		Buyer:             optStr(r.Buyer),
		DeliveryDeadline:  parse.Date(r.DeliveryDeadline),
	}
	if v := parse.MoneyPtr(r.QuotedQuantity); v != nil {
		m.QuotedQuantity = *v
	}
	if v := parse.MoneyPtr(r.CompetitorPrice); v != nil {
		m.CompetitorPrice = *v
	}
	return m
}

// bindPayload decodes the request either from the "payload" multipart field
// (attachments travel alongside in "anexos") or from a JSON body. Unknown
// fields are rejected at the boundary.
func bindPayload(c *gin.Context, dst any) ([]*multipart.FileHeader, error) {
	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.NewValidation("", "Formulário inválido")
		}
		payload := c.PostForm("payload")
		if payload == "" {
			return nil, apperrors.NewValidation("payload", "Payload ausente")
		}
		if err := decodeStrict(payload, dst); err != nil {
			return nil, apperrors.NewValidation("payload", "Payload inválido: "+err.Error())
		}
		return form.File["anexos"], nil
	}

	body, err := c.GetRawData()
	if err != nil {
		return nil, apperrors.NewValidation("", "Corpo da requisição inválido")
	}
	if err := decodeStrict(string(body), dst); err != nil {
		return nil, apperrors.NewValidation("", "JSON inválido: "+err.Error())
	}
	return nil, nil
}

func decodeStrict(payload string, dst any) error {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == "undefined" || s == "null" {
		return nil
	}
	return &s
}
