package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"chat-relay/client"
	"chat-relay/domain"
	"chat-relay/internal"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := internal.NewLogger(config.LogLevel)

	// 2. Prompt identity. This is presentation-layer responsibility, the
	// client core never asks for it.
	stdin := bufio.NewScanner(os.Stdin)
	color.Bold.Print("Choose a username: ")
	if !stdin.Scan() {
		return exitOK, nil
	}
	name := strings.TrimSpace(stdin.Text())
	if name == "" {
		return exitConfig, fmt.Errorf("empty username")
	}

	// 3. Dial and join. Roster and coordinator are tracked from the
	// envelope stream so the display can stay current.
	var (
		mu          sync.Mutex
		roster      = map[string]domain.User{}
		coordinator string
	)
	disconnected := make(chan error, 1)

	c, err := client.Dial(log, client.Config{
		Addr:             config.ServerAddress,
		HeartbeatTimeout: config.HeartbeatTimeout,
		OnEnvelope: func(e domain.Envelope) {
			mu.Lock()
			defer mu.Unlock()
			display(e, roster, &coordinator)
		},
		OnDisconnect: func(err error) {
			disconnected <- err
		},
	})
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer c.Close()

	self, err := c.Join(name)
	if err != nil {
		return exitRuntime, fmt.Errorf("join failed: %w", err)
	}
	color.Green.Printf(">>> Connected to %s as %s (/ip <user-id> to locate a peer, /quit to leave)\n",
		config.ServerAddress, name)

	// 4. Input loop: every plain line goes to the General chat.
	lines := make(chan string)
	go func() {
		defer close(lines)
		for stdin.Scan() {
			lines <- stdin.Text()
		}
	}()

	for {
		select {
		case err := <-disconnected:
			color.Red.Println("<<< Server disconnected")
			return exitRuntime, err
		case line, ok := <-lines:
			if !ok {
				_ = c.Leave()
				return exitOK, nil
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case line == "/quit":
				_ = c.Leave()
				return exitOK, nil
			case strings.HasPrefix(line, "/ip "):
				if err := c.RequestPeerAddr(strings.TrimSpace(strings.TrimPrefix(line, "/ip "))); err != nil {
					color.Red.Printf("request failed: %v\n", err)
				}
			default:
				mu.Lock()
				chat := domain.NewGeneralChat(append(usersOf(roster), self)...)
				mu.Unlock()
				if err := c.SendText(chat, line); err != nil {
					color.Red.Printf("send failed: %v\n", err)
				}
			}
		}
	}
}

// display renders one inbound envelope and keeps the roster and the
// coordinator id up to date. Callers hold the roster lock.
func display(e domain.Envelope, roster map[string]domain.User, coordinator *string) {
	switch p := e.Payload.(type) {
	case domain.TextMessage:
		name := p.Sender.Name
		if p.Sender.ID == *coordinator {
			name = name + "*"
		}
		fmt.Printf("[%s] %s: %s\n", e.CreatedAt.Format(time.TimeOnly), color.Cyan.Render(name), p.Content)
	case domain.UserStatusUpdate:
		if p.Status == domain.StatusOnline {
			roster[p.Subject.ID] = p.Subject
			color.Gray.Printf("-- %s is online\n", p.Subject.Name)
		} else {
			delete(roster, p.Subject.ID)
			color.Gray.Printf("-- %s went offline\n", p.Subject.Name)
		}
	case domain.SystemMessage:
		switch p.Subtype {
		case domain.SystemCoordinatorIDTransition:
			*coordinator = p.Payload
			if u, ok := roster[p.Payload]; ok {
				color.Yellow.Printf("-- %s now coordinates this session\n", u.Name)
			}
		case domain.SystemIPTransition:
			color.Yellow.Printf("-- peer location: %s\n", p.Payload)
		case domain.SystemServerShutdown:
			color.Red.Println("-- server is shutting down")
		}
	}
}

func usersOf(roster map[string]domain.User) []domain.User {
	users := make([]domain.User, 0, len(roster))
	for _, u := range roster {
		users = append(users, u)
	}
	return users
}
