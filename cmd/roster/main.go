// Command roster joins a running relay as a short-lived observer,
// collects the presence burst every new session receives, and prints the
// online users as a table.
package main

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"chat-relay/client"
	"chat-relay/domain"
	"chat-relay/internal"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	ServerAddress string        `env:"CHAT_SERVER_ADDR,default=localhost:7005"`
	SettleTime    time.Duration `env:"ROSTER_SETTLE_TIME,default=2s"`
	LogLevel      string        `env:"LOG_LEVEL,default=ERROR"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.NewLogger(config.LogLevel)

	var (
		mu          sync.Mutex
		roster      = map[string]domain.User{}
		coordinator string
	)

	c, err := client.Dial(log, client.Config{
		Addr: config.ServerAddress,
		OnEnvelope: func(e domain.Envelope) {
			mu.Lock()
			defer mu.Unlock()
			switch p := e.Payload.(type) {
			case domain.UserStatusUpdate:
				if p.Status == domain.StatusOnline {
					roster[p.Subject.ID] = p.Subject
				} else {
					delete(roster, p.Subject.ID)
				}
			case domain.SystemMessage:
				if p.Subtype == domain.SystemCoordinatorIDTransition {
					coordinator = p.Payload
				}
			}
		},
	})
	if err != nil {
		return fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer c.Close()

	self, err := c.Join(fmt.Sprintf("roster-observer-%d", os.Getpid()))
	if err != nil {
		return fmt.Errorf("join failed: %w", err)
	}

	// The welcome sequence arrives asynchronously; give it a moment.
	time.Sleep(config.SettleTime)
	if err := c.Leave(); err != nil {
		log.Warn("leave failed", "error", err)
	}

	mu.Lock()
	defer mu.Unlock()
	delete(roster, self.ID)

	users := make([]domain.User, 0, len(roster))
	for _, u := range roster {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "User ID", "Coordinator"})
	for _, u := range users {
		mark := ""
		if u.ID == coordinator {
			mark = "yes"
		}
		table.Append([]string{u.Name, u.ID, mark})
	}
	table.Render()

	fmt.Printf("%d user(s) online\n", len(users))
	return nil
}
