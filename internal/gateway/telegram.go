package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/archaeovault/archaeovault/internal/workflow"
)

// TelegramGateway lets field workers submit analyses from chat. Commands:
//
//	/analyze <artifact description>
//	/research <query>
//	/plan <site description>
type TelegramGateway struct {
	Bot    *tgbotapi.BotAPI
	Runner Runner
}

func NewTelegramGateway(token string, runner Runner) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:    bot,
		Runner: runner,
	}, nil
}

var telegramCommands = map[string]struct {
	workflow string
	field    string
}{
	"analyze":  {workflow: "artifact_analysis", field: "description"},
	"research": {workflow: "research", field: "query"},
	"plan":     {workflow: "excavation_planning", field: "description"},
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		response := tg.handle(update.Message)
		msg := tgbotapi.NewMessage(update.Message.Chat.ID, response)
		msg.ParseMode = "Markdown"
		tg.Bot.Send(msg)
	}
	return nil
}

func (tg *TelegramGateway) handle(message *tgbotapi.Message) string {
	cmd, ok := telegramCommands[message.Command()]
	if !ok {
		return "Commands: /analyze <artifact description>, /research <query>, /plan <site description>"
	}

	args := strings.TrimSpace(message.CommandArguments())
	if args == "" {
		return fmt.Sprintf("Usage: /%s <text>", message.Command())
	}

	req := workflow.NewRequest(cmd.workflow, map[string]any{cmd.field: args})
	res, err := tg.Runner.Run(context.Background(), req)
	if err != nil {
		log.Printf("workflow run failed: %v", err)
		return "Something went wrong running that workflow."
	}

	return formatResult(res)
}

// formatResult renders a compact Markdown summary of the run.
func formatResult(res *workflow.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*: %d steps (%d ok, %d cached, %d failed, %d skipped)\n",
		res.Workflow, res.Summary.Total, res.Summary.Succeeded,
		res.Summary.Cached, res.Summary.Failed, res.Summary.Skipped)

	for _, step := range res.Steps {
		switch step.Status {
		case workflow.StatusSuccess, workflow.StatusCached:
			fmt.Fprintf(&b, "✅ `%s` (confidence %.2f)\n", step.Step, step.Confidence)
		case workflow.StatusSkipped:
			fmt.Fprintf(&b, "⏭ `%s` skipped\n", step.Step)
		case workflow.StatusFailed:
			fmt.Fprintf(&b, "❌ `%s` failed: %s\n", step.Step, step.Failure)
		}
	}

	if report, ok := res.Combined["report"]; ok {
		if title, ok := report["title"].(string); ok {
			fmt.Fprintf(&b, "\n*%s*\n", title)
		}
		if abstract, ok := report["abstract"].(string); ok {
			b.WriteString(abstract)
		}
	}

	return b.String()
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown"
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
