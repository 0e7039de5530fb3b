package export

import (
	"log/slog"
	"strings"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/document"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
)

// UnifiedHeader is the fixed target schema every template is projected
// onto, independent of any single template's layout.
var UnifiedHeader = []string{
	"order_date", "customer", "delivery_date", "destination",
	"product_name", "cases", "order_number",
}

// unifiedMapping names the source keys feeding each unified column for one
// template. Items/ProductCol/CasesCol address the line-item table.
type unifiedMapping struct {
	OrderDate    string
	Customer     string
	DeliveryDate string
	Destination  string
	OrderNumber  string
	Items        string
	ProductCol   string
	CasesCol     string
}

// unifiedMappings covers the built-in templates. Custom templates fall back
// to key probing (see fallbackMapping).
var unifiedMappings = map[string]unifiedMapping{
	"tpl_order_form": {
		OrderDate: "order_date", Customer: "buyer_name", DeliveryDate: "delivery_date",
		Destination: "delivery_place", OrderNumber: "order_no",
		Items: "items", ProductCol: "product_name", CasesCol: "case_quantity",
	},
	"tpl_general_po": {
		OrderDate: "issue_date", Customer: "client_name", DeliveryDate: "delivery_date",
		Destination: "delivery_place", OrderNumber: "po_no",
		Items: "items", ProductCol: "product_name", CasesCol: "quantity",
	},
	"tpl_shipping_request": {
		OrderDate: "order_date", Customer: "sender_name", DeliveryDate: "delivery_date",
		Destination: "recipient_name", OrderNumber: "request_no",
		Items: "items", ProductCol: "product_name", CasesCol: "case_quantity",
	},
	"tpl_purchase_order": {
		OrderDate: "issue_date", Customer: "supplier_name", DeliveryDate: "delivery_date",
		Destination: "delivery_name", OrderNumber: "order_no",
		Items: "items", ProductCol: "item_name", CasesCol: "box_count",
	},
}

// fallbackMapping probes key names shared across the known templates. It
// recovers the document-level columns on a best-effort basis and leaves
// product_name/cases blank; it never fails.
func fallbackMapping(data *extraction.Data) unifiedMapping {
	probe := func(keys ...string) string {
		for _, k := range keys {
			if data.Scalar(k).Value() != nil {
				return k
			}
		}
		return ""
	}
	return unifiedMapping{
		OrderDate:    probe("order_date", "issue_date"),
		Customer:     probe("buyer_name", "client_name", "sender_name", "supplier_name"),
		DeliveryDate: probe("delivery_date"),
		Destination:  probe("delivery_place", "recipient_name", "delivery_name"),
		OrderNumber:  probe("order_no", "po_no", "request_no"),
	}
}

// unifiedRows projects the eligible documents (those holding extracted
// data) onto the unified schema, one row per line item with the document
// scalars repeated; a document without item rows contributes one row with
// the item columns blank.
func unifiedRows(docs []*document.Document, logger *slog.Logger) [][]string {
	if logger == nil {
		logger = slog.Default()
	}
	var out [][]string
	for _, doc := range docs {
		if !doc.HasData() {
			continue
		}
		data := doc.Data
		mapping, known := unifiedMappings[doc.TemplateID]
		if !known {
			mapping = fallbackMapping(data)
			logger.Warn("export.unified.fallback_mapping",
				"doc_id", doc.ID, "template_id", doc.TemplateID)
		}

		scalar := func(key string) string {
			if key == "" {
				return ""
			}
			return data.Scalar(key).String()
		}
		orderDate := NormalizeDate(scalar(mapping.OrderDate))
		customer := scalar(mapping.Customer)
		deliveryDate := NormalizeDate(scalar(mapping.DeliveryDate))
		destination := scalar(mapping.Destination)
		orderNumber := scalar(mapping.OrderNumber)

		var rows []extraction.Row
		if mapping.Items != "" {
			rows = data.Rows(mapping.Items)
		}
		if len(rows) == 0 {
			rows = []extraction.Row{{}}
		}
		for _, row := range rows {
			product, cases := "", ""
			if mapping.ProductCol != "" {
				product = row[mapping.ProductCol].String()
			}
			if mapping.CasesCol != "" {
				cases = row[mapping.CasesCol].String()
			}
			out = append(out, []string{
				orderDate, customer, deliveryDate, destination,
				product, cases, orderNumber,
			})
		}
	}
	return out
}

// UnifiedCSV merges the selected documents into one CSV over the unified
// schema. Selecting no document with data is reported as ErrNoSelection,
// not an empty file.
func UnifiedCSV(docs []*document.Document, logger *slog.Logger) ([]byte, error) {
	rows := unifiedRows(docs, logger)
	if len(rows) == 0 {
		return nil, common.ErrNoSelection
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(UnifiedHeader, ","))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = quote(v)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return []byte(utf8BOM + strings.Join(lines, "\n")), nil
}
