package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/hitoshi/sera/internal/model"
)

// GeminiConfig はGeminiクライアントの設定を保持する。
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiClient はGemini APIを使用する推論クライアント。
type GeminiClient struct {
	client    *genai.Client
	model     string
	timeout   time.Duration
	sanitizer *textSanitizer
}

// cardProposal はモデルが返すカード案のJSON表現。
// IDやステータスはサーバー側で付与するため含まない。
type cardProposal struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	PrimaryAction map[string]any `json:"primary_action"`
}

// actionResult はアクション解釈のJSON表現。
type actionResult struct {
	Message string `json:"message"`
}

// NewGeminiClient はGemini APIクライアントを生成する。
// APIキーが空の場合はエラーを返す（呼び出し側でフォールバックに切り替える）。
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	m := cfg.Model
	if m == "" {
		m = "gemini-2.5-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiClient{
		client:    client,
		model:     m,
		timeout:   timeout,
		sanitizer: newTextSanitizer(),
	}, nil
}

// cardSchema はカード生成レスポンスのJSONスキーマ。
// structured outputでパース失敗を防ぐ。
var cardSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type": {
				Type:        genai.TypeString,
				Description: "カード種別（例: schedule, reminder, task）",
			},
			"title": {
				Type:        genai.TypeString,
				Description: "カードの短い見出し",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "提案内容の説明",
			},
			"primary_action": {
				Type:        genai.TypeObject,
				Description: "推奨アクションのペイロード",
				Properties: map[string]*genai.Schema{
					"event_title": {Type: genai.TypeString},
					"event_time":  {Type: genai.TypeString},
					"location":    {Type: genai.TypeString},
					"notes":       {Type: genai.TypeString},
				},
			},
		},
		Required: []string{"type", "title", "description"},
	},
}

const generatePromptTemplate = `You are an assistant that turns a user's free-form note into a small list of actionable suggestion cards.
Return between 1 and 3 cards. Each card proposes one concrete action derived from the note.

User note:
%s`

// GenerateCards は自由テキストからカード群を生成する。
// モデル出力のtitle/descriptionはサニタイズしてから採用する。
func (c *GeminiClient) GenerateCards(ctx context.Context, text, userID string) ([]*model.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(fmt.Sprintf(generatePromptTemplate, text)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   cardSchema,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("gemini returned empty response")
	}

	var proposals []cardProposal
	if err := json.Unmarshal([]byte(raw), &proposals); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if len(proposals) == 0 {
		return nil, fmt.Errorf("gemini returned no card proposals")
	}

	now := time.Now().UTC()
	cards := make([]*model.Card, 0, len(proposals))
	for _, p := range proposals {
		title, description := c.sanitizer.CleanCardText(p.Title, p.Description)
		action := p.PrimaryAction
		if action == nil {
			action = map[string]any{}
		}
		cards = append(cards, &model.Card{
			CardID:        uuid.New().String(),
			Type:          p.Type,
			Title:         title,
			Description:   description,
			PrimaryAction: action,
			Status:        model.StatusPending,
			UserID:        userID,
			CreatedAt:     now,
		})
	}

	return cards, nil
}

const actionPromptTemplate = `A user responded to a suggestion card.
Card ID: %s
Action: %s
Modifications: %s

Return a short confirmation message for the client as JSON.`

// InterpretAction はカードに対するアクションを解釈し、結果ペイロードを返す。
func (c *GeminiClient) InterpretAction(ctx context.Context, cardID, actionType string, modifications map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	modsJSON := "null"
	if modifications != nil {
		b, err := json.Marshal(modifications)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal modifications: %w", err)
		}
		modsJSON = string(b)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(fmt.Sprintf(actionPromptTemplate, cardID, actionType, modsJSON)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"message": {Type: genai.TypeString},
				},
				Required: []string{"message"},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini action interpretation failed: %w", err)
	}

	var result actionResult
	if err := json.Unmarshal([]byte(resp.Text()), &result); err != nil {
		return nil, fmt.Errorf("failed to parse gemini action response: %w", err)
	}

	return map[string]any{"message": c.sanitizer.Clean(result.Message)}, nil
}

// Health はクライアントの状態を返す。
func (c *GeminiClient) Health(ctx context.Context) string {
	return "available"
}

// Mode は動作モードを返す。
func (c *GeminiClient) Mode() string {
	return ModeNormal
}

// compile-time interface check
var _ Client = (*GeminiClient)(nil)
