package database

import (
	"time"
)

// MaxAttachments is the attachment cap per quotation or research record.
// Uploads past the cap are silently dropped, never rejected with an error.
const MaxAttachments = 5

// Display formats used by the web client
const (
	dateDisplayFormat     = "02/01/2006"
	dateTimeDisplayFormat = "02/01/2006 15:04"
	isoDateFormat         = "2006-01-02"
	isoDateTimeFormat     = "2006-01-02 15:04:05"
)

// Quotation is a price-quote record for a cooperative member. Fields tagged
// json:"-" are the raw timestamps; their client-facing renderings and the
// aggregate fields are filled by ComputeDerived, never stored.
type Quotation struct {
	ID                int64     `json:"id"`
	Date              time.Time `json:"-"`
	DateDisplay       string    `json:"data"`
	BranchName        string    `json:"nome_filial"`
	MesoregionCode    string    `json:"numero_mesorregiao"`
	MemberCode        string    `json:"matricula_cooperado"`
	MemberName        string    `json:"nome_cooperado"`
	Status            string    `json:"status"`
	StatusEnteredAt   time.Time `json:"-"`
	DaysInStatus      int       `json:"dias_no_status"`
	CommercialAnalyst *string   `json:"analista_comercial"`
	Buyer             *string   `json:"comprador"`
	LastModifiedAt    time.Time `json:"-"`
	LastModified      string    `json:"data_ultima_modificacao"`
	Notes             *string   `json:"observacoes"`
	PaymentTerms      *string   `json:"forma_pagamento"`
	DeliveryDeadline  *time.Time `json:"-"`
	DeliveryDate      *string   `json:"prazo_entrega"`
	Crop              *string   `json:"cultura"`
	LostSaleReason    *string   `json:"motivo_venda_perdida"`
	Salesperson       string    `json:"nome_vendedor"`

	Products    []Product    `json:"produtos"`
	TotalValue  float64      `json:"valor_total"`
	Supplier    string       `json:"fornecedor"`
	Attachments []Attachment `json:"anexos"`
}

// ComputeDerived fills the display and aggregate fields from the stored ones.
// Days in status, total value and the headline supplier are recomputed on
// every read.
func (q *Quotation) ComputeDerived(now time.Time) {
	q.DateDisplay = q.Date.Format(dateDisplayFormat)
	q.LastModified = q.LastModifiedAt.Format(dateDisplayFormat)
	q.DaysInStatus = int(now.Sub(q.StatusEnteredAt).Hours() / 24)
	q.DeliveryDate = isoDatePtr(q.DeliveryDeadline)

	var total float64
	for i := range q.Products {
		if v := q.Products[i].TotalWithFreight; v != nil {
			total += *v
		}
	}
	q.TotalValue = total

	q.Supplier = "-"
	if len(q.Products) > 0 && q.Products[0].Supplier != nil && *q.Products[0].Supplier != "" {
		q.Supplier = *q.Products[0].Supplier
	}

	for i := range q.Products {
		q.Products[i].computeDerived()
	}
	for i := range q.Attachments {
		q.Attachments[i].computeDerived()
	}
	if q.Products == nil {
		q.Products = []Product{}
	}
	if q.Attachments == nil {
		q.Attachments = []Attachment{}
	}
}

// Product is a quotation line item
type Product struct {
	ID               int64      `json:"id"`
	QuotationID      int64      `json:"-"`
	SKU              *string    `json:"sku_produto"`
	Name             string     `json:"nome_produto"`
	Volume           float64    `json:"volume"`
	Unit             string     `json:"unidade_medida"`
	UnitPrice        *float64   `json:"preco_unitario"`
	Total            *float64   `json:"valor_total"`
	Supplier         *string    `json:"fornecedor"`
	CostPrice        *float64   `json:"preco_custo"`
	Freight          *float64   `json:"valor_frete"`
	SupplierDeadline *time.Time `json:"-"`
	SupplierDate     *string    `json:"prazo_entrega_fornecedor"`
	TotalWithFreight *float64   `json:"valor_total_com_frete"`
}

func (p *Product) computeDerived() {
	p.SupplierDate = isoDatePtr(p.SupplierDeadline)
}

// MarketResearch records a competitor's offered price against the
// cooperative's own price for a product.
type MarketResearch struct {
	ID                 int64     `json:"id"`
	Date               time.Time `json:"-"`
	DateDisplay        string    `json:"data"`
	BranchName         string    `json:"nome_filial"`
	MesoregionCode     string    `json:"numero_mesorregiao"`
	MemberCode         string    `json:"matricula_cooperado"`
	MemberName         string    `json:"nome_cooperado"`
	ProductCode        *string   `json:"codigo_produto"`
	ProductName        string    `json:"nome_produto"`
	QuotedQuantity     float64   `json:"quantidade_cotada"`
	PaymentTerms       string    `json:"forma_pagamento"`
	CompetitorName     string    `json:"nome_concorrente"`
	CompetitorPrice    float64   `json:"valor_concorrente"`
	CooperativePrice   *float64  `json:"valor_cooperativa"`
	CommercialAnalyst  *string   `json:"analista_comercial"`
	Notes              *string   `json:"observacoes"`
	Status             string    `json:"status"`
	StatusEnteredAt    time.Time `json:"-"`
	StatusEnteredShown string    `json:"data_entrada_status"`
	LastModifiedAt     time.Time `json:"-"`
	LastModified       string    `json:"data_ultima_modificacao"`
	Crop               *string   `json:"cultura"`
	Salesperson        *string   `json:"nome_vendedor"`
	Buyer              *string   `json:"comprador"`
	DeliveryDeadline   *time.Time `json:"-"`
	DeliveryDate       *string   `json:"prazo_entrega"`

	DaysInStatus int          `json:"dias_no_status"`
	Attachments  []Attachment `json:"anexos"`
}

// ComputeDerived fills the display fields from the stored ones
func (r *MarketResearch) ComputeDerived(now time.Time) {
	r.DateDisplay = r.Date.Format(dateDisplayFormat)
	r.StatusEnteredShown = r.StatusEnteredAt.Format(isoDateTimeFormat)
	r.LastModified = r.LastModifiedAt.Format(dateDisplayFormat)
	r.DaysInStatus = int(now.Sub(r.StatusEnteredAt).Hours() / 24)
	r.DeliveryDate = isoDatePtr(r.DeliveryDeadline)

	for i := range r.Attachments {
		r.Attachments[i].computeDerived()
	}
	if r.Attachments == nil {
		r.Attachments = []Attachment{}
	}
}

// Attachment is a supporting document for exactly one quotation or one
// research record, never both.
type Attachment struct {
	ID            int64     `json:"id"`
	Filename      string    `json:"filename"`
	StoredPath    string    `json:"filepath"`
	UploadedAt    time.Time `json:"-"`
	UploadedShown string    `json:"data_upload"`
	QuotationID   *int64    `json:"-"`
	ResearchID    *int64    `json:"-"`
}

func (a *Attachment) computeDerived() {
	a.UploadedShown = a.UploadedAt.Format(dateTimeDisplayFormat)
}

func isoDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(isoDateFormat)
	return &s
}
