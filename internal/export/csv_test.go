package export

import (
	"strings"
	"testing"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/extraction"
	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

func orderFormTemplate(t *testing.T) *template.Template {
	t.Helper()
	catalog := template.DefaultCatalog()
	tpl := catalog.Find("tpl_order_form")
	if tpl == nil {
		t.Fatal("tpl_order_form missing from default catalog")
	}
	return tpl
}

func orderFormData() *extraction.Data {
	d := extraction.NewData()
	d.Scalars["order_no"] = extraction.Bare("PO-001")
	d.Scalars["order_date"] = extraction.Annotated("2023/10/01", extraction.Box{10, 500, 40, 700})
	d.Scalars["buyer_name"] = extraction.Bare("山田商事")
	d.Scalars["delivery_date"] = extraction.Bare("2023/10/15")
	d.Scalars["delivery_place"] = extraction.Bare("東京倉庫")
	d.Tables["items"] = []extraction.Row{
		{"product_name": extraction.Bare("りんご 10kg"), "case_quantity": extraction.Bare("15")},
		{"product_name": extraction.Bare("みかん 5kg"), "case_quantity": extraction.Bare("8")},
	}
	return d
}

func TestDocumentCSV(t *testing.T) {
	out := string(DocumentCSV(orderFormTemplate(t), orderFormData()))

	if !strings.HasPrefix(out, utf8BOM) {
		t.Fatal("output is missing the UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimPrefix(out, utf8BOM), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3 (header + 2 rows)", len(lines))
	}

	wantHeader := "発注No.,発注日,発注元,納期,納品先名,注文明細:品名／規格,注文明細:ケース数"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	wantRow1 := `"PO-001","2023/10/01","山田商事","2023/10/15","東京倉庫","りんご 10kg","15"`
	if lines[1] != wantRow1 {
		t.Errorf("row 1 = %q, want %q", lines[1], wantRow1)
	}
	wantRow2 := `"PO-001","2023/10/01","山田商事","2023/10/15","東京倉庫","みかん 5kg","8"`
	if lines[2] != wantRow2 {
		t.Errorf("row 2 = %q, want %q", lines[2], wantRow2)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("output has a trailing newline")
	}
}

func TestDocumentCSVEmptyTable(t *testing.T) {
	d := orderFormData()
	d.Tables["items"] = nil

	out := string(DocumentCSV(orderFormTemplate(t), d))
	lines := strings.Split(strings.TrimPrefix(out, utf8BOM), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 blank data row", len(lines))
	}
	want := `"PO-001","2023/10/01","山田商事","2023/10/15","東京倉庫","",""`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestDocumentCSVAppendedEmptyRow(t *testing.T) {
	d := orderFormData()
	d.AddRow("items")

	out := string(DocumentCSV(orderFormTemplate(t), d))
	lines := strings.Split(strings.TrimPrefix(out, utf8BOM), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows", len(lines))
	}
	want := `"PO-001","2023/10/01","山田商事","2023/10/15","東京倉庫","",""`
	if lines[3] != want {
		t.Errorf("appended row = %q, want scalars repeated with table columns blank", lines[3])
	}
}

func TestDocumentCSVMissingValues(t *testing.T) {
	d := extraction.NewData()
	d.Tables["items"] = []extraction.Row{{"product_name": extraction.Bare("単品")}}

	out := string(DocumentCSV(orderFormTemplate(t), d))
	lines := strings.Split(strings.TrimPrefix(out, utf8BOM), "\n")
	want := `"","","","","","単品",""`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestDocumentCSVQuoting(t *testing.T) {
	d := orderFormData()
	d.SetScalar("buyer_name", `山田"商事`)
	d.SetCell("items", 0, "product_name", "りんご,10kg")

	out := string(DocumentCSV(orderFormTemplate(t), d))
	if !strings.Contains(out, `"山田""商事"`) {
		t.Error("embedded double quote not doubled")
	}
	if !strings.Contains(out, `"りんご,10kg"`) {
		t.Error("embedded comma not protected by quoting")
	}
}
