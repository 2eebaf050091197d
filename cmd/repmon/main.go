// repmon - tail the live session event stream from a running fitsight.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8765/ws/events", "event websocket URL")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.Close()
		os.Exit(0)
	}()

	fmt.Printf("listening on %s\n", *url)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Fprintf(os.Stderr, "stream closed: %v\n", err)
			return
		}

		var event map[string]any
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}

		switch event["type"] {
		case "rep":
			fmt.Printf("rep %v  session=%v  %v\n",
				event["rep_count"], event["session_id"], event["summary"])
		case "status":
			fmt.Printf("status: %v\n", event["state"])
		case "error":
			fmt.Printf("session error: %v\n", event["error"])
		default:
			fmt.Println(string(data))
		}
	}
}
