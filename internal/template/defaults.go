package template

// DefaultCatalog returns the built-in business-document templates the store
// is seeded with on first run. Field descriptions double as extraction hints
// for the classifier, so they name the synonyms seen on real forms.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:          "tpl_order_form",
			Name:        "注文書",
			Description: "タイトルが「注文書」の帳票。発注元、納期、納品先名、品名／規格、ケース数、発注No.などが記載されている。",
			Fields: []Field{
				{Key: "order_no", Label: "発注No.", Type: FieldString, Required: true, Description: "発注No.、注文番号"},
				{Key: "order_date", Label: "発注日", Type: FieldString, Required: true, Description: "発注日、発行日 (yyyyMMdd形式)"},
				{Key: "buyer_name", Label: "発注元", Type: FieldString, Required: true, Description: "発注元の会社名"},
				{Key: "delivery_date", Label: "納期", Type: FieldString, Required: true, Description: "納期、希望納品日 (yyyyMMdd形式)"},
				{Key: "delivery_place", Label: "納品先名", Type: FieldString, Required: true, Description: "納品先の名称"},
				{
					Key: "items", Label: "注文明細", Type: FieldTable, Required: true,
					Description: "品名／規格、ケース数などが記載された表",
					Columns: []Field{
						{Key: "product_name", Label: "品名／規格", Type: FieldString, Required: true, Description: "品名、規格"},
						{Key: "case_quantity", Label: "ケース数", Type: FieldString, Required: true, Description: "ケース数、数量"},
					},
				},
			},
		},
		{
			ID:          "tpl_general_po",
			Name:        "発注書",
			Description: "タイトルが「発注書」の帳票。発注元、希望納品日、納品先、品名及び規格・仕様等、ケース、発注管理番号などが記載されている。",
			Fields: []Field{
				{Key: "po_no", Label: "発注管理番号", Type: FieldString, Required: true, Description: "発注管理番号、発注番号"},
				{Key: "issue_date", Label: "発注日", Type: FieldString, Required: true, Description: "発注日 (yyyyMMdd形式)"},
				{Key: "client_name", Label: "発注元", Type: FieldString, Required: true, Description: "発注元、得意先"},
				{Key: "delivery_date", Label: "希望納品日", Type: FieldString, Required: true, Description: "希望納品日 (yyyyMMdd形式)"},
				{Key: "delivery_place", Label: "納品先", Type: FieldString, Required: true, Description: "納品先"},
				{
					Key: "items", Label: "発注明細", Type: FieldTable, Required: true,
					Description: "品名及び規格・仕様等、ケースなどが記載された表",
					Columns: []Field{
						{Key: "product_name", Label: "品名及び規格・仕様等", Type: FieldString, Required: true, Description: "品名"},
						{Key: "quantity", Label: "ケース", Type: FieldString, Required: true, Description: "ケース、数量"},
					},
				},
			},
		},
		{
			ID:          "tpl_shipping_request",
			Name:        "出荷依頼書",
			Description: "タイトルが「出荷依頼書」の帳票。依頼元、納期、納品先、商品名称、個数／入数の上段（ケース）、受注No.などが記載されている。",
			Fields: []Field{
				{Key: "request_no", Label: "受注No.", Type: FieldString, Required: true, Description: "受注No."},
				{Key: "order_date", Label: "受注日", Type: FieldString, Required: true, Description: "受注日 (yyyyMMdd形式)"},
				{Key: "sender_name", Label: "依頼元", Type: FieldString, Required: true, Description: "依頼元"},
				{Key: "delivery_date", Label: "納期", Type: FieldString, Required: true, Description: "納期、納品日 (yyyyMMdd形式)"},
				{Key: "recipient_name", Label: "納品先", Type: FieldString, Required: true, Description: "納品先"},
				{
					Key: "items", Label: "商品明細", Type: FieldTable, Required: true,
					Description: "商品名称、個数／入数の上段（ケース）などが記載された表",
					Columns: []Field{
						{Key: "product_name", Label: "商品名称", Type: FieldString, Required: true, Description: "商品名称"},
						{Key: "case_quantity", Label: "個数／入数の上段", Type: FieldString, Required: true, Description: "ケース数（入数の上段など）"},
					},
				},
			},
		},
		{
			ID:          "tpl_purchase_order",
			Name:        "直送仕入商品発注票",
			Description: "タイトルが「直送仕入商品発注票」の帳票。得意先、摘要（希望納品日）、発送先、品目名称、発注箱数、発注No.などが記載されている。",
			Fields: []Field{
				{Key: "order_no", Label: "発注No.", Type: FieldString, Required: true, Description: "発注No."},
				{Key: "issue_date", Label: "発注日", Type: FieldString, Required: true, Description: "発行日、発注日 (yyyyMMdd形式)"},
				{Key: "supplier_name", Label: "得意先", Type: FieldString, Required: true, Description: "得意先"},
				{Key: "delivery_date", Label: "摘要", Type: FieldString, Required: true, Description: "摘要欄にある日付（希望納品日） (yyyyMMdd形式)"},
				{Key: "delivery_name", Label: "発送先", Type: FieldString, Required: true, Description: "発送先名"},
				{
					Key: "items", Label: "発注明細", Type: FieldTable, Required: true,
					Description: "品目名称、発注箱数などが記載された表",
					Columns: []Field{
						{Key: "item_name", Label: "品目名称", Type: FieldString, Required: true, Description: "品目名称"},
						{Key: "box_count", Label: "発注箱数", Type: FieldString, Required: true, Description: "発注箱数（ケース）"},
					},
				},
			},
		},
	}
}
