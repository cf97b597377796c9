package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
	"github.com/vladimiradmaev/insulin-uploader/internal/config"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// extractionPrompt instructs the model to transcribe the insulin log
// literally: day and month without year, time, units. The model answers with
// a JSON list or with the fixed sentinel phrase when nothing is legible.
const extractionPrompt = "Na ovoj slici se nalazi unos inzulina." +
	" Izvuci dan i mjesec (bez godine), vrijeme i količinu inzulina u jedinicama (U)." +
	" Vrati JSON listu u formatu: [ {\"date\":\"MM-DD\", \"time\":\"HH:MM\", \"insulin\": BROJ}, ... ]" +
	" Ako nema jasnih podataka, vrati poruku 'Nije pronađeno'."

// Low temperature biases toward literal transcription; callers must still
// not assume full determinism.
const extractionTemperature = 0.2

// AIService sends an encoded insulin-log image to a vision-capable model and
// returns its raw textual response without interpreting it.
type AIService struct {
	provider     config.Provider
	openaiClient *openai.Client
	geminiClient *genai.Client
	visionModel  string
	geminiModel  string
}

func NewAIService(ctx context.Context, cfg *config.Config) (*AIService, error) {
	s := &AIService{
		provider:    cfg.AIProvider,
		visionModel: cfg.VisionModel,
		geminiModel: cfg.GeminiModel,
	}

	switch cfg.AIProvider {
	case config.ProviderOpenRouter:
		clientCfg := openai.DefaultConfig(cfg.OpenRouterAPIKey)
		clientCfg.BaseURL = openRouterBaseURL
		s.openaiClient = openai.NewClientWithConfig(clientCfg)
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}

	return s, nil
}

// ExtractInsulinLog sends the JPEG image plus the fixed instruction prompt to
// the configured model and returns the raw model text. The content is not
// validated here; malformed output is the parser's concern.
func (s *AIService) ExtractInsulinLog(ctx context.Context, jpegData []byte) (string, error) {
	if s.provider == config.ProviderGemini {
		return s.extractWithGemini(ctx, jpegData)
	}
	return s.extractWithOpenRouter(ctx, jpegData)
}

func (s *AIService) extractWithOpenRouter(ctx context.Context, jpegData []byte) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)

	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.visionModel,
			Temperature: extractionTemperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: extractionPrompt,
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: dataURL,
							},
						},
					},
				},
			},
		},
	)
	if err != nil {
		return "", apperrors.NewExtractionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewExtractionError(fmt.Errorf("model returned no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) extractWithGemini(ctx context.Context, jpegData []byte) (string, error) {
	model := s.geminiClient.GenerativeModel(s.geminiModel)
	model.SetTemperature(extractionTemperature)

	img := genai.ImageData("image/jpeg", jpegData)
	resp, err := model.GenerateContent(ctx, img, genai.Text(extractionPrompt))
	if err != nil {
		return "", apperrors.NewExtractionError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewExtractionError(fmt.Errorf("model returned no content"))
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", apperrors.NewExtractionError(fmt.Errorf("model returned a non-text part"))
	}
	return string(text), nil
}
