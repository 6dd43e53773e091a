package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/awashimakentaro/diet/models"
)

// ErrAnalysisUnavailable is returned when no AI endpoint is configured.
// Callers should treat it as "analysis unavailable", not as a request bug.
var ErrAnalysisUnavailable = errors.New("解析サービスが利用できません")

type AnalyzeRequestType string

const (
	AnalyzeText  AnalyzeRequestType = "text"
	AnalyzeImage AnalyzeRequestType = "image"
)

type AnalyzeRequest struct {
	Type     AnalyzeRequestType `json:"type"`
	Prompt   string             `json:"prompt"`
	Base64   string             `json:"base64"` // data URL, required for image requests
	Locale   string             `json:"locale"`
	Timezone string             `json:"timezone"`
}

const analyzeSystemPrompt = `あなたは食事記録アプリの栄養解析アシスタントです。
ユーザーの入力(食事の説明文または食事の写真)から料理を推定し、
以下のJSONだけを出力してください。説明文やマークダウンは一切不要です。

{
  "menuName": string,       // 食事全体の名前
  "originalText": string,   // 入力内容の要約
  "warnings": [string],     // 推定に自信がない点など(無ければ空配列)
  "items": [
    {
      "name": string,       // 料理・食材名
      "amount": string,     // 分量の目安(例: "1人前", "200g")
      "category": string,   // "dish" | "ingredient" | "unknown"
      "kcal": number,
      "protein": number,    // g
      "fat": number,        // g
      "carbs": number       // g
    }
  ]
}

数値は1食あたりの推定値をグラム/kcalで返してください。`

// AnalyzeService turns free text or a photo into an AnalyzeDraft by asking an
// OpenAI-compatible chat endpoint for a fixed JSON shape.
type AnalyzeService struct {
	llm llms.Model
	rek *RekognitionService // optional; label hints for image input
}

func NewAnalyzeService(llm llms.Model, rek *RekognitionService) *AnalyzeService {
	return &AnalyzeService{llm: llm, rek: rek}
}

// Analyze sends the request to the AI endpoint and parses the reply into a
// draft. Failure signaling is uniform: a missing endpoint yields
// ErrAnalysisUnavailable, and both transport and parse failures return errors.
func (s *AnalyzeService) Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalyzeDraft, error) {
	if s.llm == nil {
		return nil, ErrAnalysisUnavailable
	}

	var source models.DraftSource
	var extraWarnings []string
	human := llms.MessageContent{Role: schema.ChatMessageTypeHuman}

	switch req.Type {
	case AnalyzeText:
		if strings.TrimSpace(req.Prompt) == "" {
			return nil, errors.New("食事の内容を入力してください")
		}
		source = models.SourceText
		human.Parts = append(human.Parts, llms.TextPart(req.Prompt))

	case AnalyzeImage:
		if !strings.HasPrefix(req.Base64, "data:image") {
			return nil, errors.New("画像データ(base64)が必要です")
		}
		source = models.SourceImage
		prompt := "この写真の食事を解析してください。"
		if hints, ok := s.foodLabelHints(req.Base64); ok {
			if len(hints) > 0 {
				prompt += " 画像認識による参考ラベル: " + strings.Join(hints, ", ")
			} else {
				extraWarnings = append(extraWarnings, "写真から食品を特定できませんでした。内容をご確認ください。")
			}
		}
		human.Parts = append(human.Parts,
			llms.TextPart(prompt),
			llms.ImageURLPart(req.Base64),
		)

	default:
		return nil, fmt.Errorf("未対応の解析タイプです: %s", req.Type)
	}

	resp, err := s.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, analyzeSystemPrompt),
			human,
		},
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return nil, fmt.Errorf("解析リクエストに失敗しました: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("解析結果が空でした")
	}

	draft, err := DecodeDraft(resp.Choices[0].Content, source, req.Prompt)
	if err != nil {
		return nil, err
	}
	draft.Warnings = append(draft.Warnings, extraWarnings...)
	return draft, nil
}

// foodLabelHints is best-effort: recognition failures never block analysis.
// ok reports whether recognition actually ran, so "ran but found nothing" can
// surface as a draft warning.
func (s *AnalyzeService) foodLabelHints(dataURL string) ([]string, bool) {
	if s.rek == nil {
		return nil, false
	}
	labels, err := s.rek.DetectFoodLabels(dataURL)
	if err != nil {
		return nil, false
	}
	return labels, true
}

// looseNumber tolerates the AI returning numbers as strings or garbage;
// anything unparsable counts as 0.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = looseNumber(f)
	return nil
}

type analyzeReplyItem struct {
	Name     string      `json:"name"`
	Amount   string      `json:"amount"`
	Category string      `json:"category"`
	Kcal     looseNumber `json:"kcal"`
	Protein  looseNumber `json:"protein"`
	Fat      looseNumber `json:"fat"`
	Carbs    looseNumber `json:"carbs"`
}

type analyzeReply struct {
	MenuName     string             `json:"menuName"`
	OriginalText string             `json:"originalText"`
	Warnings     []string           `json:"warnings"`
	Items        []analyzeReplyItem `json:"items"`
}

// DecodeDraft parses the assistant's reply: code fences stripped, every macro
// coerced to a non-negative one-decimal value, and totals recomputed from the
// coerced items rather than trusting anything the AI reports.
func DecodeDraft(content string, source models.DraftSource, originalText string) (*models.AnalyzeDraft, error) {
	var reply analyzeReply
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &reply); err != nil {
		return nil, fmt.Errorf("解析結果を読み取れませんでした: %w", err)
	}

	items := make([]models.FoodItem, 0, len(reply.Items))
	for _, it := range reply.Items {
		items = append(items, models.FoodItem{
			ID:       uuid.NewString(),
			Name:     strings.TrimSpace(it.Name),
			Category: models.FoodCategory(it.Category),
			Amount:   strings.TrimSpace(it.Amount),
			Kcal:     float64(it.Kcal),
			Protein:  float64(it.Protein),
			Fat:      float64(it.Fat),
			Carbs:    float64(it.Carbs),
		}.Sanitized())
	}

	text := strings.TrimSpace(reply.OriginalText)
	if originalText != "" {
		text = originalText
	}

	return &models.AnalyzeDraft{
		DraftID:      uuid.NewString(),
		MenuName:     strings.TrimSpace(reply.MenuName),
		OriginalText: text,
		Items:        items,
		Totals:       models.CalculateMacroFromItems(items),
		Source:       source,
		Warnings:     reply.Warnings,
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
