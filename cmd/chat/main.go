// Command chat is a terminal front end over the chat data layer: it logs a
// user in (or registers one), opens or creates a chat, and runs a
// message-reply loop through the NLQ gateway, stand-in for the web UI.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"somni-backend/internal/app"
	"somni-backend/internal/config"
	"somni-backend/internal/conversation"
	"somni-backend/internal/data"
	"somni-backend/internal/docstore"
	apperrors "somni-backend/internal/errors"
	"somni-backend/internal/model"
	"somni-backend/internal/nlq"
	"somni-backend/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	app.SetupLogger(cfg.LogLevel)

	docs := docstore.New(cfg.ServerURL)
	sess := session.NewStore(cfg.SessionPath)
	svc := data.NewService(docs, sess)
	gateway := nlq.NewClient(cfg.NLQURL)

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	if err := docs.Status(ctx); err != nil {
		fmt.Printf("Cannot reach the API server at %s: %v\n", cfg.ServerURL, err)
		os.Exit(1)
	}

	if !svc.IsLoggedIn() {
		if err := authenticate(ctx, svc, in); err != nil {
			fmt.Println("Authentication failed:", err)
			os.Exit(1)
		}
	}
	user := svc.CurrentUser()
	fmt.Printf("Signed in as %s (%s), model %s\n", user.FullName, user.Email, svc.CurrentUserModel().Value)

	chat, err := pickChat(ctx, svc, in)
	if err != nil {
		fmt.Println("Could not open a chat:", err)
		os.Exit(1)
	}

	conv := conversation.New(svc, gateway, chat)
	fmt.Printf("-- %s -- (type /quit to exit, /logout to sign out)\n", conv.Title())

	for prompt(in, "> ") {
		text := strings.TrimSpace(in.Text())
		switch text {
		case "":
			continue
		case "/quit":
			return
		case "/logout":
			svc.Logout()
			fmt.Println("Signed out.")
			return
		}

		turn, err := conv.Send(ctx, text)
		if err != nil {
			// Mirrors the UI convention: show the failure inline and keep
			// the conversation open.
			fmt.Println("! ", err)
			continue
		}
		printTurn(turn)
	}
}

func authenticate(ctx context.Context, svc *data.Service, in *bufio.Scanner) error {
	for {
		choice := ask(in, "Login or register? [l/r]: ")
		switch strings.ToLower(choice) {
		case "l", "login":
			email := ask(in, "Email: ")
			password := ask(in, "Password: ")
			_, err := svc.Login(ctx, email, password)
			if err == nil {
				return nil
			}
			if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
				fmt.Println(err)
				continue
			}
			return err
		case "r", "register":
			fullName := ask(in, "Full name: ")
			email := ask(in, "Email: ")
			password := ask(in, "Password: ")
			_, err := svc.Register(ctx, fullName, email, password, "")
			if err == nil {
				return nil
			}
			if errors.Is(err, apperrors.ErrAlreadyExists) || errors.Is(err, apperrors.ErrValidation) {
				fmt.Println(err)
				continue
			}
			return err
		}
	}
}

// pickChat lists the user's chats and opens the selected one, or creates a
// fresh conversation when the user asks for one (or has none yet).
func pickChat(ctx context.Context, svc *data.Service, in *bufio.Scanner) (model.Chat, error) {
	chats, err := svc.GetChats(ctx)
	if err != nil {
		return model.Chat{}, err
	}
	if len(chats) == 0 {
		return svc.CreateChat(ctx, model.TitleNewConversation)
	}

	fmt.Println("Your chats:")
	for i, c := range chats {
		fmt.Printf("  %d. %s (%d messages)\n", i+1, c.Title, len(c.Messages))
	}
	for {
		choice := ask(in, "Open chat number, or 'n' for a new one: ")
		if strings.EqualFold(choice, "n") {
			return svc.CreateChat(ctx, model.TitleNewConversation)
		}
		idx, err := strconv.Atoi(choice)
		if err == nil && idx >= 1 && idx <= len(chats) {
			return chats[idx-1], nil
		}
		fmt.Println("Invalid selection.")
	}
}

func prompt(in *bufio.Scanner, p string) bool {
	fmt.Print(p)
	return in.Scan()
}

func ask(in *bufio.Scanner, p string) string {
	if !prompt(in, p) {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func printTurn(turn *conversation.Turn) {
	fmt.Println(turn.BotMessage.Text)
	if turn.BotMessage.IsSQLQuery && turn.BotMessage.RawSQL != "" {
		fmt.Println("  sql:", turn.BotMessage.RawSQL)
	}
	for i, row := range turn.BotMessage.Results {
		if i >= 10 {
			fmt.Printf("  ... %d more rows\n", len(turn.BotMessage.Results)-i)
			break
		}
		fmt.Printf("  %v\n", row)
	}
}
