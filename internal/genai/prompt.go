package genai

import (
	"fmt"
	"strings"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/template"
)

// buildSystemInstruction renders the two-step classify-then-extract
// instruction with the full catalog inlined. The wording is tuned for
// Japanese business forms; field descriptions carry the per-form synonyms.
func buildSystemInstruction(catalog template.Catalog) string {
	return fmt.Sprintf(`あなたは帳票処理の専門AIです。
提供された画像を分析し、以下のステップで処理を実行してください。

ステップ1: テンプレート識別
画像の「タイトル」や「レイアウト」を注意深く分析し、提供されたテンプレート定義の中で最も適切なものを1つ選んでください。
最も一致するテンプレートのIDを "templateId" として出力してください。
もしどれも一致しない場合は "unknown" としてください。

ステップ2: データ抽出
選択したテンプレートのフィールド定義に基づいて、データを抽出してください。

【重要：日付形式 (STRING型として抽出)】
フィールドの説明に「yyyyMMdd形式」とある場合は、画像内の日付（例：「R5.10.1」「2023/10/01」「10月1日」など）を必ず "yyyyMMdd" 形式の半角数字文字列（例: "20231001"）に変換して抽出してください。

【重要：データ出力形式】
すべての抽出フィールドについて、以下のJSON形式で出力してください。
位置情報（box_2d）も含めてください。

{
  "templateId": "選択したテンプレートID",
  "data": {
    "key_name": {
      "value": (抽出された値),
      "box_2d": [ymin, xmin, ymax, xmax] (正規化座標 0-1000)
    },
    "table_key": [
       {
         "col_key": { "value": "...", "box_2d": [...] }
       }
    ]
  }
}

テンプレート定義一覧:
%s`, renderCatalog(catalog))
}

// renderCatalog lists every template with its id, name, classifier hints
// and field definitions; table fields are flagged for array extraction.
func renderCatalog(catalog template.Catalog) string {
	blocks := make([]string, 0, len(catalog))
	for _, t := range catalog {
		var b strings.Builder
		fmt.Fprintf(&b, "ID: %s\nテンプレート名: %s\n特徴・説明: %s\nフィールド定義:\n", t.ID, t.Name, t.Description)
		for _, f := range t.Fields {
			if f.Type == template.FieldTable {
				fmt.Fprintf(&b, "- %s (TABLE - 配列として抽出):\n", f.Key)
				for _, c := range f.Columns {
					fmt.Fprintf(&b, "  - %s (%s): %s\n", c.Key, c.Type, c.Description)
				}
				continue
			}
			fmt.Fprintf(&b, "- %s (%s): %s\n", f.Key, f.Type, f.Description)
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(blocks, "\n---\n")
}

func buildUserPrompt(filename string) string {
	var b strings.Builder
	if filename != "" {
		b.WriteString("ファイル名: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	b.WriteString("この帳票を解析し、指定されたJSON形式で結果を出力してください。")
	return b.String()
}
