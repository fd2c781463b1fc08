package openai

import (
    "context"
    "encoding/json"
    "errors"
    "strings"
    "time"

    openai "github.com/openai/openai-go/v2"
    "github.com/openai/openai-go/v2/option"
    "github.com/openai/openai-go/v2/shared"
    "github.com/rs/zerolog"

    "github.com/Ebrudra/studio-sub000/internal/config"
)

type Client struct {
    key     string
    model   string
    timeout time.Duration
    cli     openai.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    model := cfg.OpenAIModel
    if strings.TrimSpace(model) == "" { model = "gpt-4.1-mini" }
    cli := openai.NewClient(option.WithAPIKey(cfg.OpenAIKey))
    return &Client{key: cfg.OpenAIKey, model: model, timeout: cfg.OpenAITimeout, cli: cli, log: log}
}

// SummarizeSprint turns the aggregated sprint payload (burndown series,
// team performance rows, distributions) into a Markdown narrative report.
func (c *Client) SummarizeSprint(ctx context.Context, payload map[string]any) (string, error) {
    if strings.TrimSpace(c.key) == "" { return "", errors.New("openai: missing key") }
    if c.timeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, c.timeout)
        defer cancel()
    }
    c.log.Info().Str("model", c.model).Msg("openai SummarizeSprint call")
    userContent := ""
    if b, err := json.Marshal(payload); err == nil { userContent = string(b) }
    params := openai.ChatCompletionNewParams{
        Model: shared.ChatModel(c.model),
        Messages: []openai.ChatCompletionMessageParamUnion{
            openai.SystemMessage("You are an agile delivery lead. Given a sprint's burndown series, per-team planned vs delivered hours, and scope/work distributions, write a concise Markdown sprint report: overall health, per-team highlights, scope creep, and risks for the remaining days."),
            openai.UserMessage(userContent),
        },
    }
    resp, err := c.cli.Chat.Completions.New(ctx, params)
    if err != nil { return "", err }
    if len(resp.Choices) == 0 { return "", errors.New("openai: no choices") }
    return resp.Choices[0].Message.Content, nil
}
