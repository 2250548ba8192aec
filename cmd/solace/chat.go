package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/solace/backend/internal/model/chat"
	chatService "github.com/zhouzirui/solace/backend/internal/service/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Solace in the terminal",
	Long: `Starts a line-oriented conversation on stdin/stdout.

Commands:
  /mood             show mood history summary
  /articles         show suggested reading
  /panel <name>     toggle a panel (mood_chart, resources, emergency, relaxation, articles)
  /lang <code>      translate replies into a language, e.g. es
  /topic <tag>      prefer articles about a topic
  /persist on|off   enable or disable saving the conversation
  /reset            clear the conversation (asks for confirmation)
  /quit             exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := &syncWriter{w: cmd.OutOrStdout()}
		a, err := buildApp(ctx, cfg, &consoleListener{out: out})
		if err != nil {
			return err
		}
		defer a.Close()

		return runREPL(ctx, a.chat, cmd.InOrStdin(), out)
	},
}

// syncWriter serializes writes from the prompt loop and advisory callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type consoleListener struct {
	out io.Writer
}

func (l *consoleListener) OnAdvisory(a chat.Advisory) {
	fmt.Fprintf(l.out, "\n[support] %s\n          Type /panel resources to see support options.\n", a.Text)
}

func (l *consoleListener) OnTurn(chatService.TurnResult) {}

// runREPL reads one line per turn until EOF, /quit or ctx is done.
func runREPL(ctx context.Context, svc *chatService.Service, in io.Reader, out io.Writer) error {
	for _, msg := range svc.Messages() {
		printMessage(out, msg)
	}

	scanner := bufio.NewScanner(in)
	confirmingReset := false
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())

		// 确认提示只作用于紧接着的一行，空行视为取消
		if confirmingReset {
			confirmingReset = false
			if err := svc.ResetSession(ctx, isYes(line)); err != nil {
				fmt.Fprintln(out, "Reset cancelled.")
				continue
			}
			for _, msg := range svc.Messages() {
				printMessage(out, msg)
			}
			continue
		}

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, confirm := runCommand(ctx, svc, line, out)
			if quit {
				return nil
			}
			confirmingReset = confirm
			continue
		}

		result, err := svc.Submit(ctx, line)
		if err != nil {
			if errors.Is(err, chatService.ErrTurnInFlight) {
				fmt.Fprintln(out, "Still answering your last message, one moment.")
				continue
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "  (%s) %s\n", *result.UserMessage.Category, result.Suggestion)
		printMessage(out, result.Reply)
	}
}

// runCommand handles a slash command. It reports whether the loop should exit
// and whether a reset confirmation is pending.
func runCommand(ctx context.Context, svc *chatService.Service, line string, out io.Writer) (bool, bool) {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/quit", "/exit":
		return true, false
	case "/mood":
		summary := svc.MoodSummary()
		if summary.Count == 0 {
			fmt.Fprintln(out, "No mood entries yet.")
			break
		}
		fmt.Fprintf(out, "Entries: %d  mean polarity: %.2f  latest: %s\n", summary.Count, summary.MeanPolarity, *summary.Latest)
		for _, point := range svc.MoodPoints() {
			fmt.Fprintf(out, "  %s  %-13s %+.2f  %s\n", point.RecordedAt.Local().Format("15:04:05"), point.Category, point.Polarity, point.SourceText)
		}
	case "/articles":
		for _, a := range svc.SuggestedArticles() {
			fmt.Fprintf(out, "  - %s", a.Title)
			if a.URL != "" {
				fmt.Fprintf(out, " <%s>", a.URL)
			}
			fmt.Fprintln(out)
		}
	case "/panel":
		active, err := svc.TogglePanel(chat.Panel(arg))
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			break
		}
		if active == chat.PanelNone {
			fmt.Fprintln(out, "Panel closed.")
		} else {
			fmt.Fprintf(out, "Showing %s.\n", active)
		}
	case "/lang":
		svc.SetLanguage(arg)
		fmt.Fprintf(out, "Replies will be in %q.\n", svc.Language())
	case "/topic":
		svc.SetTopic(ctx, arg)
		fmt.Fprintf(out, "Preferred topic: %s\n", svc.Preferences().Topic)
	case "/persist":
		switch arg {
		case "on":
			svc.SetPersistenceEnabled(ctx, true)
		case "off":
			svc.SetPersistenceEnabled(ctx, false)
		default:
			fmt.Fprintln(out, "usage: /persist on|off")
		}
		fmt.Fprintf(out, "Saving conversation: %t\n", svc.Preferences().PersistenceEnabled)
	case "/reset":
		fmt.Fprint(out, "Clear the conversation? Mood history is kept. [y/N] ")
		return false, true
	default:
		fmt.Fprintf(out, "unknown command %s\n", fields[0])
	}
	return false, false
}

func printMessage(out io.Writer, msg chat.Message) {
	who := "you"
	if msg.Sender == chat.SenderAssistant {
		who = "solace"
	}
	fmt.Fprintf(out, "%s: %s\n", who, msg.Text)
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
