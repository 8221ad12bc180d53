// Command feedwatch connects to the live feed websocket and prints incoming
// feed events. Useful for watching fan-out during development:
//
//	feedwatch -url ws://localhost:8375/api/ws/feed -token <jwt>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type feedEvent struct {
	Type      string    `json:"type"`
	MessageID uint      `json:"message_id,omitempty"`
	ActorID   uint      `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func main() {
	url := flag.String("url", "ws://localhost:8375/api/ws/feed", "Feed websocket URL")
	token := flag.String("token", "", "JWT for the account to watch")
	flag.Parse()

	if *token == "" {
		log.Fatal("a -token is required")
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url+"?token="+*token, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("Connected to %s", *url)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Read error: %v", err)
				return
			}
			var event feedEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				fmt.Printf("%s\n", payload)
				continue
			}
			switch event.Type {
			case "new_message":
				fmt.Printf("[%s] @%s: %s\n",
					event.CreatedAt.Local().Format("15:04:05"), event.ActorName, event.Text)
			case "new_follower":
				fmt.Printf("[%s] @%s followed you\n",
					event.CreatedAt.Local().Format("15:04:05"), event.ActorName)
			default:
				fmt.Printf("%s\n", payload)
			}
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-done:
	case <-interrupt:
		log.Println("Closing connection")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
