package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"lexiport/client"
	"log"
	"os"
	"strconv"
	"strings"
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:5000", "portal server base URL")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		log.Fatal("-email and -password are required")
	}

	ctx := context.Background()
	session := client.NewSession()
	api := client.NewREST(*addr, session)

	me, err := api.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	fmt.Printf("logged in as %s\n", me.Username)

	var view *client.ConversationView
	ch := client.NewChannel(func(msg client.Message) {
		view.HandleIncoming(msg)
		label, _ := view.Attribution(msg)
		fmt.Printf("[chat %d] %s: %s\n", msg.ChatID, label, msg.Content)
	})
	view = client.NewConversationView(session, api, ch)
	dialogs := client.NewDialogs(api, view)

	if err := ch.Dial(ctx, api.BaseURL(), session); err != nil {
		log.Fatalf("realtime channel: %v", err)
	}
	defer ch.Close()

	if err := view.Mount(ctx); err != nil {
		log.Fatalf("load directory: %v", err)
	}
	printChats(view, me.ID)

	fmt.Println("commands: /chats /users /open <id> /contact <userId> /group <name> <id,id,...> /add <chatId> <userId> /quit")
	fmt.Println("plain text sends to the open conversation")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			if err := view.Send(line); err != nil {
				fmt.Printf("not sent: %v\n", err)
			}
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit":
			_ = api.Logout(ctx)
			return
		case "/chats":
			if err := view.RefreshDirectory(ctx); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			printChats(view, me.ID)
		case "/users":
			users, taken, err := dialogs.PickableUsers(ctx)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			for _, u := range users {
				mark := ""
				if taken[u.ID] {
					mark = " (contact exists)"
				}
				fmt.Printf("  %d: %s%s\n", u.ID, u.Username, mark)
			}
		case "/open":
			id := parseID(fields, 1)
			if id == 0 {
				fmt.Println("usage: /open <chatId>")
				continue
			}
			if err := view.Select(ctx, id); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			for _, m := range view.Messages() {
				label, _ := view.Attribution(m)
				fmt.Printf("  %s: %s\n", label, m.Content)
			}
		case "/contact":
			id := parseID(fields, 1)
			if id == 0 {
				fmt.Println("usage: /contact <userId>")
				continue
			}
			conv, err := dialogs.AddContact(ctx, id)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("contact ready, conversation %d\n", conv.ID)
		case "/group":
			if len(fields) < 3 {
				fmt.Println("usage: /group <name> <id,id,...>")
				continue
			}
			var members []uint
			for _, s := range strings.Split(fields[len(fields)-1], ",") {
				if v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64); err == nil {
					members = append(members, uint(v))
				}
			}
			name := strings.Join(fields[1:len(fields)-1], " ")
			conv, err := dialogs.CreateGroup(ctx, name, members)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("group %q created, conversation %d\n", conv.GroupName, conv.ID)
		case "/add":
			chatID := parseID(fields, 1)
			userID := parseID(fields, 2)
			if chatID == 0 || userID == 0 {
				fmt.Println("usage: /add <chatId> <userId>")
				continue
			}
			if _, err := dialogs.AddMemberToGroup(ctx, chatID, userID); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Println("member added")
		default:
			fmt.Println("unknown command")
		}
	}
}

func parseID(fields []string, idx int) uint {
	if len(fields) <= idx {
		return 0
	}
	v, err := strconv.ParseUint(fields[idx], 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func printChats(view *client.ConversationView, meID uint) {
	for _, conv := range view.Chats() {
		name := conv.GroupName
		if !conv.IsGroupChat {
			for _, p := range conv.Participants {
				if p.ID != meID {
					name = p.Username
				}
			}
		}
		last := ""
		if conv.LastMessage != nil {
			last = " | " + conv.LastMessage.Content
		}
		fmt.Printf("  %d: %s%s\n", conv.ID, name, last)
	}
}
